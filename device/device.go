package device

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/notargets/gocca"
	"github.com/notargets/plasmamesh/volume"
)

// Backends are tried in order by NewDevice
var Backends = []string{
	`{"mode": "OpenMP"}`,
	`{"mode": "CUDA", "device_id": 0}`,
	`{"mode": "Serial"}`,
}

// NewDevice creates the first OCCA device whose backend is available
func NewDevice() (*gocca.OCCADevice, error) {
	var errs []error
	for _, props := range Backends {
		dev, err := gocca.NewDevice(props)
		if err == nil {
			return dev, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", props, err))
	}
	return nil, fmt.Errorf("no OCCA backend available: %w", errors.Join(errs...))
}

const tableLength = 4 * volume.NumTags

// MetricMemory is a device copy of a block's volume table, 32 doubles in
// the row order Volume, DualVolume, InvVolume, InvDualVolume
type MetricMemory struct {
	Mem *gocca.OCCAMemory
}

// UploadVolumeTable allocates device memory and copies the table to it
func UploadVolumeTable(dev *gocca.OCCADevice, tbl *volume.Table) (*MetricMemory, error) {
	if dev == nil {
		return nil, fmt.Errorf("upload volume table: nil device")
	}
	data := tbl.Matrix().RawMatrix().Data
	if len(data) != tableLength {
		return nil, fmt.Errorf("volume table has %d entries, want %d", len(data), tableLength)
	}
	mem := dev.Malloc(int64(tableLength*8), unsafe.Pointer(&data[0]), nil)
	if mem == nil {
		return nil, fmt.Errorf("device allocation of %d bytes failed", tableLength*8)
	}
	return &MetricMemory{Mem: mem}, nil
}

// Update copies a new table over the device copy, after a re-deploy
func (m *MetricMemory) Update(tbl *volume.Table) {
	data := tbl.Matrix().RawMatrix().Data
	m.Mem.CopyFrom(unsafe.Pointer(&data[0]), int64(tableLength*8))
}

// Read copies the device table back to the host
func (m *MetricMemory) Read() volume.Table {
	data := make([]float64, tableLength)
	m.Mem.CopyTo(unsafe.Pointer(&data[0]), int64(tableLength*8))

	var tbl volume.Table
	copy(tbl.Volume[:], data[0:8])
	copy(tbl.DualVolume[:], data[8:16])
	copy(tbl.InvVolume[:], data[16:24])
	copy(tbl.InvDualVolume[:], data[24:32])
	return tbl
}

func (m *MetricMemory) Free() {
	if m.Mem != nil {
		m.Mem.Free()
		m.Mem = nil
	}
}
