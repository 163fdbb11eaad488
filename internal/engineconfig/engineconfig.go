// Package engineconfig loads editor preferences from config/editor.yaml.
package engineconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"scene-editor/internal/environment"
)

// EngineConfigPath is the path to the editor config file, relative to the working directory.
const EngineConfigPath = "config/editor.yaml"

// Window describes the raylib window.
type Window struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
}

// Theme holds the flat background colors used while no skybox is shown.
type Theme struct {
	Name  string `yaml:"name"`
	Dark  string `yaml:"dark"`
	Light string `yaml:"light"`
}

// Background returns the hex color for the active theme name.
func (t Theme) Background() string {
	if t.Name == "light" {
		return t.Light
	}
	return t.Dark
}

// EnginePrefs holds editor preferences. Persisted across runs; scenes are saved separately.
type EnginePrefs struct {
	Window         Window `yaml:"window"`
	Theme          Theme  `yaml:"theme"`
	Font           string `yaml:"font"`
	Skybox         string `yaml:"skybox"`
	MaxTextureSize int    `yaml:"max_texture_size"`
	ShowFPS        bool   `yaml:"show_fps"`
	ShowStats      bool   `yaml:"show_stats"`
	GridVisible    bool   `yaml:"grid_visible"`
	// Seed drives particle and placement randomness. Zero picks a random seed.
	Seed uint64 `yaml:"seed"`
}

// Default returns default preferences (dark theme, grid on, overlays off).
func Default() EnginePrefs {
	return EnginePrefs{
		Window:         Window{Width: 1280, Height: 720},
		Theme:          Theme{Name: "dark", Dark: "#0a0a0a", Light: "#f2f2f2"},
		Font:           "Helvetiker",
		Skybox:         environment.DefaultPanorama,
		MaxTextureSize: 2048,
		GridVisible:    true,
	}
}

// Load reads preferences from path, or EngineConfigPath when path is empty. Keys missing
// from the file keep their defaults. A missing file is not an error.
func Load(path string) (EnginePrefs, error) {
	if path == "" {
		path = EngineConfigPath
	}
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, fmt.Errorf("engineconfig: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Default(), fmt.Errorf("engineconfig: %s: %w", path, err)
	}
	if p.MaxTextureSize <= 0 {
		p.MaxTextureSize = Default().MaxTextureSize
	}
	return p, nil
}

// Save writes preferences to path, creating the directory if needed.
func Save(path string, p EnginePrefs) error {
	if path == "" {
		path = EngineConfigPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("engineconfig: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("engineconfig: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
