package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/notargets/gocfd/utils"
	"gopkg.in/yaml.v3"
)

// DefaultGhostWidth is applied on non-degenerate axes when none is given
const DefaultGhostWidth = 2

// BlockConfig describes one mesh block: the global index extents, the
// physical bounding box, ghost width and the boundary condition on each
// axis. LocalOffset/LocalExtent optionally restrict the block to a sub-box
// of the global index box.
type BlockConfig struct {
	Name        string     `yaml:"name"`
	Dimensions  [3]int     `yaml:"dimensions"`
	Lower       [3]float64 `yaml:"lower"`
	Upper       [3]float64 `yaml:"upper"`
	GhostWidth  *[3]int    `yaml:"ghost_width,omitempty"`
	Boundary    [3]string  `yaml:"boundary"`
	LocalOffset [3]int     `yaml:"local_offset,omitempty"`
	LocalExtent [3]int     `yaml:"local_extent,omitempty"`
}

// LoadFile reads a block description, choosing the backend by extension
func LoadFile(path string) (*BlockConfig, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lua":
		return LoadLuaFile(path)
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read block config %s: %w", path, err)
		}
		return ParseYAML(data)
	}
	return nil, fmt.Errorf("unsupported block config format %q", filepath.Ext(path))
}

// ParseYAML parses, defaults and validates a YAML block description
func ParseYAML(data []byte) (*BlockConfig, error) {
	var cfg BlockConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse block config YAML: %w", err)
	}
	return finish(&cfg)
}

// Marshal serializes the configuration to YAML
func Marshal(cfg *BlockConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func finish(cfg *BlockConfig) (*BlockConfig, error) {
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *BlockConfig) {
	if cfg.Name == "" {
		cfg.Name = "block"
	}
	if cfg.GhostWidth == nil {
		g := [3]int{DefaultGhostWidth, DefaultGhostWidth, DefaultGhostWidth}
		cfg.GhostWidth = &g
	}
	for axis := 0; axis < 3; axis++ {
		if strings.TrimSpace(cfg.Boundary[axis]) == "" {
			cfg.Boundary[axis] = "wall"
		}
		if cfg.LocalExtent[axis] == 0 {
			cfg.LocalExtent[axis] = cfg.Dimensions[axis] - cfg.LocalOffset[axis]
		}
	}
}

// Validate checks extents and boxes
func (cfg *BlockConfig) Validate() error {
	for axis := 0; axis < 3; axis++ {
		if cfg.Dimensions[axis] < 1 {
			return fmt.Errorf("block %s: dimension %d on axis %d must be at least 1",
				cfg.Name, cfg.Dimensions[axis], axis)
		}
		if !(cfg.Upper[axis] > cfg.Lower[axis]) {
			return fmt.Errorf("block %s: upper %g not above lower %g on axis %d",
				cfg.Name, cfg.Upper[axis], cfg.Lower[axis], axis)
		}
		if cfg.GhostWidth != nil && cfg.GhostWidth[axis] < 0 {
			return fmt.Errorf("block %s: negative ghost width on axis %d", cfg.Name, axis)
		}
		if cfg.LocalOffset[axis] < 0 || cfg.LocalExtent[axis] < 1 ||
			cfg.LocalOffset[axis]+cfg.LocalExtent[axis] > cfg.Dimensions[axis] {
			return fmt.Errorf("block %s: local range [%d,%d) outside [0,%d) on axis %d", cfg.Name,
				cfg.LocalOffset[axis], cfg.LocalOffset[axis]+cfg.LocalExtent[axis], cfg.Dimensions[axis], axis)
		}
	}
	return nil
}

// BoundaryTypes parses the per-axis boundary names
func (cfg *BlockConfig) BoundaryTypes() (bc [3]utils.BCType) {
	for axis := 0; axis < 3; axis++ {
		bc[axis] = utils.ParseBCName(cfg.Boundary[axis])
	}
	return
}

// Periodic reports the axes whose boundary is periodic
func (cfg *BlockConfig) Periodic() (p [3]bool) {
	for axis, bc := range cfg.BoundaryTypes() {
		p[axis] = bc == utils.BCPeriodic
	}
	return
}

// Ghost returns the ghost width, defaulted when unset
func (cfg *BlockConfig) Ghost() [3]int {
	if cfg.GhostWidth == nil {
		return [3]int{DefaultGhostWidth, DefaultGhostWidth, DefaultGhostWidth}
	}
	return *cfg.GhostWidth
}
