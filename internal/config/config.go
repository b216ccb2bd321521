// Package config loads the engine configuration from a YAML file and serves
// it through clamped accessors, so the rest of the engine never sees
// out-of-range values no matter what the file says.
package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"forge3d/internal/scene"
)

// Config is the on-disk engine configuration. Zero values fall back to the
// defaults at read time.
type Config struct {
	Window struct {
		Width  int    `yaml:"width"`
		Height int    `yaml:"height"`
		Title  string `yaml:"title"`
		VSync  bool   `yaml:"vsync"`
	} `yaml:"window"`

	Camera struct {
		FOV  float32 `yaml:"fov"` // degrees
		Near float32 `yaml:"near"`
		Far  float32 `yaml:"far"`
	} `yaml:"camera"`

	// FPSLimit caps the frame rate when vsync is off; zero means uncapped.
	FPSLimit int `yaml:"fpsLimit"`

	Shadow scene.ShadowSettings `yaml:"shadow"`

	Background []float32 `yaml:"background"`

	// ScenePath optionally names a scene file loaded at startup instead of
	// the built-in demo scene.
	ScenePath string `yaml:"scenePath"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	c.Window.Width = 1280
	c.Window.Height = 720
	c.Window.Title = "forge3d"
	c.Window.VSync = true
	c.Camera.FOV = 60
	c.Camera.Near = 0.1
	c.Camera.Far = 1000
	c.Shadow = scene.DefaultShadowSettings()
	return c
}

// Load reads the YAML file at path. A missing file is not an error: the
// defaults apply. A malformed file is.
func Load(path string) (*Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("could not read config file: %v", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("could not parse config file %q: %v", path, err)
	}
	return c, nil
}

// WindowSize returns the window dimensions clamped to sane minimums.
func (c *Config) WindowSize() (w, h int) {
	w, h = c.Window.Width, c.Window.Height
	if w < 320 {
		w = 320
	}
	if h < 240 {
		h = 240
	}
	return w, h
}

// FOV returns the vertical field of view in degrees, clamped to [20, 140].
func (c *Config) FOV() float32 {
	fov := c.Camera.FOV
	if fov < 20 {
		fov = 20
	}
	if fov > 140 {
		fov = 140
	}
	return fov
}

// ClipPlanes returns near and far distances with near > 0 and far > near.
func (c *Config) ClipPlanes() (near, far float32) {
	near, far = c.Camera.Near, c.Camera.Far
	if near <= 0 {
		near = 0.1
	}
	if far <= near {
		far = near + 100
	}
	return near, far
}

// FrameCap returns the FPS limit clamped to [0, 1000]; zero disables the cap.
func (c *Config) FrameCap() int {
	limit := c.FPSLimit
	if limit < 0 {
		limit = 0
	}
	if limit > 1000 {
		limit = 1000
	}
	return limit
}

// ShadowSettings returns the shadow configuration with degenerate values
// replaced by the defaults.
func (c *Config) ShadowSettings() scene.ShadowSettings {
	s := c.Shadow
	def := scene.DefaultShadowSettings()
	if s.Resolution < 256 || s.Resolution > 8192 {
		s.Resolution = def.Resolution
	}
	if s.HalfExtent <= 0 {
		s.HalfExtent = def.HalfExtent
	}
	if s.Near <= 0 {
		s.Near = def.Near
	}
	if s.Far <= s.Near {
		s.Far = def.Far
	}
	return s
}

// BackgroundColor returns the clear color, defaulting to sky blue.
func (c *Config) BackgroundColor() [3]float32 {
	if len(c.Background) == 3 {
		return [3]float32{c.Background[0], c.Background[1], c.Background[2]}
	}
	return [3]float32{0.53, 0.81, 0.92}
}

// globalConfig mirrors the loaded config for call sites that have no handle
// to pass around. Last writer wins.
var (
	globalMu     sync.RWMutex
	globalConfig = Default()
)

// SetGlobal installs the process-wide config.
func SetGlobal(c *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = c
}

// Global returns the process-wide config, never nil.
func Global() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}
