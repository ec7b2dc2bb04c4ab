package mesh

import (
	"fmt"

	"github.com/notargets/plasmamesh/config"
	"github.com/notargets/plasmamesh/geometry"
	"github.com/notargets/plasmamesh/topology"
)

// NewBlockFromConfig builds the topology described by cfg and deploys the
// block on its physical box.
func NewBlockFromConfig(cfg *config.BlockConfig, opts ...Option) (*Block, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	global := topology.NewIndexBox([3]int{}, cfg.Dimensions)
	local := topology.NewIndexBox(cfg.LocalOffset, cfg.LocalExtent)
	topo, err := topology.NewTopology(global, local, cfg.Ghost(), cfg.Periodic())
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", cfg.Name, err)
	}
	b := NewBlock(topo, append([]Option{WithName(cfg.Name)}, opts...)...)
	if err = b.Deploy(geometry.Box{Lo: cfg.Lower, Hi: cfg.Upper}); err != nil {
		return nil, err
	}
	return b, nil
}
