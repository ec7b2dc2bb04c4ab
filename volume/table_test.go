package volume

import (
	"errors"
	"testing"

	"github.com/notargets/plasmamesh/geometry"
	"github.com/notargets/plasmamesh/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var singleAxis = [3]topology.NodeTag{topology.TagEdgeX, topology.TagEdgeY, topology.TagEdgeZ}

func TestVolumeTableRegular(t *testing.T) {
	tbl := Build([3]float64{0.2, 0.3, 0.4}, [3]bool{})

	assert.Equal(t, 1.0, tbl.Volume[topology.TagVertex])
	assert.InDelta(t, 0.2*0.3*0.4, tbl.Volume[topology.TagVolume], 1e-15)
	assert.InDelta(t, 0.3*0.4, tbl.Volume[topology.TagFaceX], 1e-15)

	for tag := topology.NodeTag(0); tag < NumTags; tag++ {
		t.Run(tag.String(), func(t *testing.T) {
			assert.Equal(t, tbl.Volume[tag.Dual()], tbl.DualVolume[tag])
			assert.Equal(t, tbl.InvVolume[tag.Dual()], tbl.InvDualVolume[tag])
			assert.InDelta(t, 1.0, tbl.Volume[tag]*tbl.InvVolume[tag], 1e-12)
			assert.InDelta(t, 1.0, tbl.DualVolume[tag]*tbl.InvDualVolume[tag], 1e-12)
			for axis, bit := range singleAxis {
				if tag.Spans(axis) {
					assert.InDelta(t, tbl.Volume[tag&^bit]*tbl.Volume[bit], tbl.Volume[tag], 1e-15)
				}
			}
		})
	}
	for a := 0; a < 3; a++ {
		for b := a + 1; b < 3; b++ {
			ta, tb := singleAxis[a], singleAxis[b]
			assert.InDelta(t, tbl.Volume[ta]*tbl.Volume[tb], tbl.Volume[ta|tb], 1e-15)
		}
	}
}

func TestVolumeTableDegenerateAxis(t *testing.T) {
	m, err := geometry.NewAffineMapper(geometry.Box{Hi: [3]float64{10, 10, 1}},
		geometry.Box{Hi: [3]float64{1, 2, 5}})
	require.NoError(t, err)
	tbl, err := FromMapper(m)
	require.NoError(t, err)

	assert.Equal(t, 1.0, tbl.Volume[topology.TagEdgeZ])
	assert.Equal(t, 0.0, tbl.InvVolume[topology.TagEdgeZ])
	assert.InDelta(t, 0.1*0.2, tbl.Volume[topology.TagVolume], 1e-15)

	for tag := topology.NodeTag(0); tag < NumTags; tag++ {
		if tag.Spans(2) {
			assert.Equal(t, 0.0, tbl.InvVolume[tag], "tag %v touches the collapsed axis", tag)
		} else {
			assert.InDelta(t, 1.0, tbl.Volume[tag]*tbl.InvVolume[tag], 1e-12, "tag %v", tag)
		}
		assert.Equal(t, tbl.Volume[tag.Dual()], tbl.DualVolume[tag])
		assert.Equal(t, tbl.InvVolume[tag.Dual()], tbl.InvDualVolume[tag])
	}
	assert.Equal(t, 0.0, tbl.InvDualVolume[topology.TagVertex])
	assert.InDelta(t, 50.0, tbl.InvDualVolume[topology.TagEdgeZ], 1e-9)
}

func TestVolumeTableTinyWidthClamped(t *testing.T) {
	tbl := Build([3]float64{1, geometry.Epsilon / 2, 1}, [3]bool{})
	assert.Equal(t, 0.0, tbl.InvVolume[topology.TagEdgeY])
	assert.Equal(t, 0.0, tbl.InvVolume[topology.TagVolume])
	assert.Equal(t, 1.0, tbl.InvVolume[topology.TagEdgeX])
	assert.Equal(t, geometry.Epsilon/2, tbl.Volume[topology.TagEdgeY])
}

func TestFromMapperRequiresDeploy(t *testing.T) {
	_, err := FromMapper(&geometry.AffineMapper{})
	assert.True(t, errors.Is(err, geometry.ErrNotDeployed))
}

func TestMatrixLayout(t *testing.T) {
	tbl := Build([3]float64{2, 3, 5}, [3]bool{})
	m := tbl.Matrix()
	r, c := m.Dims()
	require.Equal(t, 4, r)
	require.Equal(t, NumTags, c)
	assert.Equal(t, 30.0, m.At(0, int(topology.TagVolume)))
	assert.Equal(t, 30.0, m.At(1, int(topology.TagVertex)))
	assert.InDelta(t, 1.0/30, m.At(2, int(topology.TagVolume)), 1e-15)
	assert.InDelta(t, 1.0/5, m.At(3, int(topology.TagFaceZ)), 1e-15)
	assert.Contains(t, tbl.String(), "VOLUME")
}
