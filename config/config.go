// Package config wraps Viper to provide the typed, dotted-path configuration
// lookup spec.md §1/§6 treats as an external collaborator ("an external
// key-value store with typed lookup by dotted path"). This mirrors the
// teacher's reinforcement.FromYaml, which already reaches for
// github.com/spf13/viper for the same shape of problem; generalized here into
// a reusable accessor instead of a single-purpose loader.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Store is a typed accessor over a Viper-backed configuration tree.
type Store struct {
	vp *viper.Viper
}

// New wraps an already-configured *viper.Viper.
func New(vp *viper.Viper) *Store {
	return &Store{vp: vp}
}

// Load reads a YAML config file from disk, mirroring the teacher's
// reinforcement.FromYaml loading shape but returning the raw typed accessor
// rather than unmarshaling into a single fixed struct.
func Load(path string) (*Store, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	return &Store{vp: vp}, nil
}

// GetInt returns the int at the dotted key, or def if unset.
func (s *Store) GetInt(key string, def int) int {
	if s == nil || s.vp == nil || !s.vp.IsSet(key) {
		return def
	}
	return s.vp.GetInt(key)
}

// GetFloat64 returns the float64 at the dotted key, or def if unset.
func (s *Store) GetFloat64(key string, def float64) float64 {
	if s == nil || s.vp == nil || !s.vp.IsSet(key) {
		return def
	}
	return s.vp.GetFloat64(key)
}

// GetString returns the string at the dotted key, or def if unset.
func (s *Store) GetString(key string, def string) string {
	if s == nil || s.vp == nil || !s.vp.IsSet(key) {
		return def
	}
	return s.vp.GetString(key)
}

// GetBool returns the bool at the dotted key, or def if unset.
func (s *Store) GetBool(key string, def bool) bool {
	if s == nil || s.vp == nil || !s.vp.IsSet(key) {
		return def
	}
	return s.vp.GetBool(key)
}

// AgentConfig is one entry of the repeated "agents" config subtree
// (spec.md §6).
type AgentConfig struct {
	Name    string `mapstructure:"name"`
	Weights struct {
		Add    float64 `mapstructure:"add"`
		Follow float64 `mapstructure:"follow"`
	} `mapstructure:"weights"`
	HashtagFollowOptions struct {
		CareAboutRegion   bool `mapstructure:"care_about_region"`
		CareAboutIdeology bool `mapstructure:"care_about_ideology"`
	} `mapstructure:"hashtag_follow_options"`
	Rates struct {
		Follow struct {
			Function   string  `mapstructure:"function"`
			Value      float64 `mapstructure:"value"`
			YIntercept float64 `mapstructure:"y_intercept"`
			YSlope     float64 `mapstructure:"y_slope"`
		} `mapstructure:"follow"`
	} `mapstructure:"rates"`
}

// AgentConfigs decodes every "agents" subtree entry in declaration order.
// Reversal for registry-building purposes (spec.md §4.3) is the caller's
// responsibility.
func (s *Store) AgentConfigs() ([]AgentConfig, error) {
	if s == nil || s.vp == nil {
		return nil, nil
	}
	var configs []AgentConfig
	if err := s.vp.UnmarshalKey("agents", &configs); err != nil {
		return nil, fmt.Errorf("config: decode agents: %w", err)
	}
	return configs, nil
}
