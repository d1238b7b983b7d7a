// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package config loads the settings of an animcombine run.
//
// Settings come from, in increasing order of precedence:
// built-in defaults, ANIMCOMBINE_* environment variables
// (a .env file in the working directory is loaded first),
// and a YAML or TOML config file. Command-line flags are
// applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables that
// override defaults.
const EnvPrefix = "ANIMCOMBINE_"

// Take naming policies.
const (
	TakeFromFile   = "file"
	TakeFromSource = "source"
)

// Config holds the settings of a run.
type Config struct {
	// Frame rate of key times, in frames per second.
	// Default is 30. 0 leaves it unspecified.
	FrameRate float64 `yaml:"frame_rate" toml:"frame_rate"`
	// Snap key times to frames when loading.
	Snap bool `yaml:"snap" toml:"snap"`
	// Embed the buffer of .gltf output.
	Embed bool `yaml:"embed" toml:"embed"`
	// Match is the hierarchy matching mode
	// ("index" or "name").
	Match string `yaml:"match" toml:"match"`
	// TakeName selects how merged takes are named
	// ("file" or "source").
	TakeName string `yaml:"take_name" toml:"take_name"`
	// Jobs bounds the number of files loaded at once.
	Jobs int `yaml:"jobs" toml:"jobs"`
	// KeepGoing skips sources that fail to load.
	KeepGoing bool `yaml:"keep_going" toml:"keep_going"`
	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose" toml:"verbose"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		FrameRate: 30,
		Match:     "index",
		TakeName:  TakeFromFile,
		Jobs:      runtime.NumCPU(),
	}
}

// LoadConfig loads the configuration.
// path names a .yaml, .yml or .toml file; a leading ~ is
// expanded to the home directory. An empty path skips
// the config file.
func LoadConfig(path string) (*Config, error) {
	// A missing .env is not an error.
	_ = godotenv.Load()

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	p, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, c)
	case ".toml":
		err = toml.Unmarshal(b, c)
	default:
		return fmt.Errorf("config: unsupported file type %q", ext)
	}
	if err != nil {
		return fmt.Errorf("config: %s: %w", p, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	var err error
	parse := func(key string, set func(string) error) {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok || v == "" || err != nil {
			return
		}
		if e := set(v); e != nil {
			err = fmt.Errorf("config: %s%s: %w", EnvPrefix, key, e)
		}
	}
	boolean := func(dst *bool) func(string) error {
		return func(v string) (e error) {
			*dst, e = strconv.ParseBool(v)
			return
		}
	}

	str("MATCH", &c.Match)
	str("TAKE_NAME", &c.TakeName)
	parse("FPS", func(v string) (e error) {
		c.FrameRate, e = strconv.ParseFloat(v, 64)
		return
	})
	parse("JOBS", func(v string) (e error) {
		c.Jobs, e = strconv.Atoi(v)
		return
	})
	parse("SNAP", boolean(&c.Snap))
	parse("EMBED", boolean(&c.Embed))
	parse("KEEP_GOING", boolean(&c.KeepGoing))
	parse("VERBOSE", boolean(&c.Verbose))
	return err
}

// Validate checks that c holds acceptable values.
func (c *Config) Validate() error {
	var errs []error
	if c.FrameRate < 0 {
		errs = append(errs, errors.New("frame rate must not be negative"))
	}
	if c.Snap && c.FrameRate == 0 {
		errs = append(errs, errors.New("snap requires a frame rate"))
	}
	switch c.Match {
	case "index", "name":
	default:
		errs = append(errs, fmt.Errorf("unknown match mode %q", c.Match))
	}
	switch c.TakeName {
	case TakeFromFile, TakeFromSource:
	default:
		errs = append(errs, fmt.Errorf("unknown take naming %q", c.TakeName))
	}
	if c.Jobs < 1 {
		errs = append(errs, errors.New("jobs must be at least 1"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
