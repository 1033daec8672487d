package motif

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

func (mode KeyMode) String() string {
	switch mode {
	case KeyBySubset:
		return "subset"
	case KeyByGrowth:
		return "growth"
	}
	return fmt.Sprintf("KeyMode(%d)", int32(mode))
}

// ParseKeyMode returns the KeyMode named by str ("subset" or "growth").
func ParseKeyMode(str string) (KeyMode, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "", "subset":
		return KeyBySubset, nil
	case "growth":
		return KeyByGrowth, nil
	}
	return KeyBySubset, errors.Errorf("unknown key mode %q", str)
}

func (mode *KeyMode) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseKeyMode(value.Value)
	if err != nil {
		return err
	}
	*mode = parsed
	return nil
}

func (mode KeyMode) MarshalYAML() (interface{}, error) {
	return mode.String(), nil
}

func (rep RepPolicy) String() string {
	switch rep {
	case RepCanonical:
		return "canonical"
	case RepFirstSeen:
		return "first-seen"
	}
	return fmt.Sprintf("RepPolicy(%d)", int32(rep))
}

// ParseRepPolicy returns the RepPolicy named by str ("canonical" or "first-seen").
func ParseRepPolicy(str string) (RepPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "", "canonical":
		return RepCanonical, nil
	case "first-seen", "firstseen", "first":
		return RepFirstSeen, nil
	}
	return RepCanonical, errors.Errorf("unknown representative policy %q", str)
}

func (rep *RepPolicy) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseRepPolicy(value.Value)
	if err != nil {
		return err
	}
	*rep = parsed
	return nil
}

func (rep RepPolicy) MarshalYAML() (interface{}, error) {
	return rep.String(), nil
}

// CheckSize returns ErrInvalidSize (wrapped) if size is not a valid census size for a graph with numNodes nodes.
//
// An empty graph accepts any positive size and yields an empty census.
func CheckSize(size, numNodes int) error {
	if size <= 0 {
		return errors.Wrapf(ErrInvalidSize, "size %d must be > 0", size)
	}
	if numNodes > 0 && size > numNodes {
		return errors.Wrapf(ErrInvalidSize, "size %d exceeds node count %d", size, numNodes)
	}
	return nil
}

// CacheLen returns the effective canonical form cache size.
func (opts *CensusOpts) CacheLen() int {
	if opts.CacheSize <= 0 {
		return DefaultCacheSize
	}
	return opts.CacheSize
}
