// Package config handles layered YAML configuration with environment
// overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/primcache/frame"
	"github.com/gogpu/primcache/gpucache"
)

// Config holds all primcache configuration.
type Config struct {
	GPUCache GPUCache `yaml:"gpu_cache"`
	Intern   Intern   `yaml:"intern"`
	Frame    Frame    `yaml:"frame"`
	Log      Log      `yaml:"log"`
	Capture  Capture  `yaml:"capture"`
}

// GPUCache holds the GPU cache eviction policy.
type GPUCache struct {
	MaxBlocks        int    `yaml:"max_blocks"`
	EvictAfterFrames uint64 `yaml:"evict_after_frames"` // 0 acts as 1
}

// Intern holds interner and template store settings.
type Intern struct {
	RetainFrames  int `yaml:"retain_frames"`
	ReuseCapacity int `yaml:"reuse_capacity"`
}

// Frame holds scene and frame building settings.
type Frame struct {
	BuildWorkers int `yaml:"build_workers"` // 0 = GOMAXPROCS
}

// Log holds logging settings.
type Log struct {
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
}

// Capture holds capture output settings.
type Capture struct {
	Compress bool `yaml:"compress"`
}

// DefaultConfig returns a Config with the library defaults.
func DefaultConfig() Config {
	gc := gpucache.DefaultConfig()
	opts := frame.DefaultOptions()
	return Config{
		GPUCache: GPUCache{
			MaxBlocks:        gc.MaxBlocks,
			EvictAfterFrames: gc.EvictAfterFrames,
		},
		Intern: Intern{
			RetainFrames:  opts.RetainFrames,
			ReuseCapacity: opts.ReuseCapacity,
		},
		Log: Log{
			Level: "info",
		},
		Capture: Capture{
			Compress: true,
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()
	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}
	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.GPUCache.MaxBlocks <= 0 {
		return fmt.Errorf("config: gpu_cache.max_blocks must be positive, got %d", c.GPUCache.MaxBlocks)
	}
	if c.Intern.RetainFrames < 0 {
		return fmt.Errorf("config: intern.retain_frames must be non-negative, got %d", c.Intern.RetainFrames)
	}
	if c.Intern.ReuseCapacity < 0 {
		return fmt.Errorf("config: intern.reuse_capacity must be non-negative, got %d", c.Intern.ReuseCapacity)
	}
	if c.Frame.BuildWorkers < 0 {
		return fmt.Errorf("config: frame.build_workers must be non-negative, got %d", c.Frame.BuildWorkers)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log.level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

// FrameOptions converts the config into frame store options.
func (c *Config) FrameOptions() frame.Options {
	return frame.Options{
		RetainFrames:  c.Intern.RetainFrames,
		ReuseCapacity: c.Intern.ReuseCapacity,
		BuildWorkers:  c.Frame.BuildWorkers,
		GPUCache: gpucache.Config{
			MaxBlocks:        c.GPUCache.MaxBlocks,
			EvictAfterFrames: c.GPUCache.EvictAfterFrames,
		},
	}
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: PRIMCACHE_LOG_LEVEL, PRIMCACHE_GPU_CACHE_MAX_BLOCKS,
// PRIMCACHE_BUILD_WORKERS.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PRIMCACHE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PRIMCACHE_GPU_CACHE_MAX_BLOCKS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PRIMCACHE_GPU_CACHE_MAX_BLOCKS %q: %w", v, err)
		}
		c.GPUCache.MaxBlocks = n
	}
	if v := os.Getenv("PRIMCACHE_BUILD_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PRIMCACHE_BUILD_WORKERS %q: %w", v, err)
		}
		c.Frame.BuildWorkers = n
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	GPUCache *rawGPUCache `yaml:"gpu_cache"`
	Intern   *rawIntern   `yaml:"intern"`
	Frame    *rawFrame    `yaml:"frame"`
	Log      *rawLog      `yaml:"log"`
	Capture  *rawCapture  `yaml:"capture"`
}

type rawGPUCache struct {
	MaxBlocks        *int    `yaml:"max_blocks"`
	EvictAfterFrames *uint64 `yaml:"evict_after_frames"`
}

type rawIntern struct {
	RetainFrames  *int `yaml:"retain_frames"`
	ReuseCapacity *int `yaml:"reuse_capacity"`
}

type rawFrame struct {
	BuildWorkers *int `yaml:"build_workers"`
}

type rawLog struct {
	Level *string `yaml:"level"`
}

type rawCapture struct {
	Compress *bool `yaml:"compress"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if g := layer.GPUCache; g != nil {
		if g.MaxBlocks != nil {
			c.GPUCache.MaxBlocks = *g.MaxBlocks
		}
		if g.EvictAfterFrames != nil {
			c.GPUCache.EvictAfterFrames = *g.EvictAfterFrames
		}
	}
	if i := layer.Intern; i != nil {
		if i.RetainFrames != nil {
			c.Intern.RetainFrames = *i.RetainFrames
		}
		if i.ReuseCapacity != nil {
			c.Intern.ReuseCapacity = *i.ReuseCapacity
		}
	}
	if f := layer.Frame; f != nil && f.BuildWorkers != nil {
		c.Frame.BuildWorkers = *f.BuildWorkers
	}
	if l := layer.Log; l != nil && l.Level != nil {
		c.Log.Level = *l.Level
	}
	if cp := layer.Capture; cp != nil && cp.Compress != nil {
		c.Capture.Compress = *cp.Compress
	}
}
