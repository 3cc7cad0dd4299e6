package config

import (
	"log"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const OVERLAY_FILE_NAME = "nx_player.yaml"

// Overlay is the optional per-machine settings file. Anything present
// overrides the project manifest; command line flags override both.
type Overlay struct {
	Pipeline         string `yaml:"pipeline"`
	Shadows          string `yaml:"shadows"`
	ShadowResolution int    `yaml:"shadow_resolution"`
	Antialiasing     string `yaml:"antialiasing"`
	Tonemapper       string `yaml:"tonemapper"`
	TextureQuality   int    `yaml:"texture_quality"`
	Debug            *bool  `yaml:"debug"`
}

func LoadOverlay(path string) (*Overlay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open overlay %q", path)
	}
	defer f.Close()

	var o Overlay
	if err := yaml.NewDecoder(f).Decode(&o); err != nil {
		return nil, errors.Wrapf(err, "Failed to unmarshal overlay yaml")
	}
	return &o, nil
}

// ApplyOverlay loads OVERLAY_FILE_NAME from the working directory if it
// exists and applies it over the current settings. A missing file is not
// an error; a malformed one is logged and skipped.
func ApplyOverlay() {
	o, err := LoadOverlay(OVERLAY_FILE_NAME)
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			log.Printf("[config] Skipping settings overlay: %v", err)
		}
		return
	}

	if o.Pipeline != "" {
		if err := SetPipelineByName(o.Pipeline); err != nil {
			log.Printf("[config] Overlay: %v", err)
		}
	}
	if o.Shadows != "" {
		if err := SetShadowFilteringByName(o.Shadows); err != nil {
			log.Printf("[config] Overlay: %v", err)
		}
	}
	if o.ShadowResolution != 0 {
		if err := SetShadowResolution(o.ShadowResolution); err != nil {
			log.Printf("[config] Overlay: %v", err)
		}
	}
	if o.Antialiasing != "" {
		if err := SetAntialiasingByName(o.Antialiasing); err != nil {
			log.Printf("[config] Overlay: %v", err)
		}
	}
	if o.Tonemapper != "" {
		if err := SetTonemapperByName(o.Tonemapper); err != nil {
			log.Printf("[config] Overlay: %v", err)
		}
	}
	if o.TextureQuality != 0 {
		if err := SetTextureQuality(o.TextureQuality); err != nil {
			log.Printf("[config] Overlay: %v", err)
		}
	}
	if o.Debug != nil {
		SetDebug(*o.Debug)
	}
}
