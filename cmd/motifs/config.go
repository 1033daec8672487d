package main

import (
	"os"

	"github.com/2x3systems/go2x3motif/motif"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds defaults for the motifs commands.  Command line flags override these values.
type Config struct {
	Census  motif.CensusOpts `yaml:"census"`
	Induced bool             `yaml:"induced"` // iso: match as an induced subgraph
	Catalog string           `yaml:"catalog"` // census: catalog db path ("" for in-memory)
	Graphs  []string         `yaml:"graphs"`  // census: graph exprs run in addition to any given as args
}

func DefaultConfig() Config {
	return Config{
		Census: motif.DefaultCensusOpts,
	}
}

// LoadConfig returns DefaultConfig overlaid with the YAML file at pathname (if given).
func LoadConfig(pathname string) (Config, error) {
	cfg := DefaultConfig()
	if pathname == "" {
		return cfg, nil
	}

	buf, err := os.ReadFile(pathname)
	if err != nil {
		return cfg, err
	}
	if err = yaml.Unmarshal(buf, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "reading config %q", pathname)
	}
	return cfg, nil
}
