package config

import (
	"log"

	"github.com/pkg/errors"
)

const (
	PIPELINE_STANDARD = iota
	PIPELINE_PERFORMANCE
	PIPELINE_CUSTOM
)

const (
	SHADOWS_BASIC = iota
	SHADOWS_PCF
	SHADOWS_PCFS
	SHADOWS_VSM
)

const (
	AA_FXAA = iota
	AA_TAA
	AA_MSAA
)

const (
	TONEMAP_NONE = iota
	TONEMAP_REINHARD
	TONEMAP_REINHARD_LUMINANCE
	TONEMAP_ACES_FITTED
	TONEMAP_AGX
	TONEMAP_SBDT
	TONEMAP_TONY_MC_MAPFACE
	TONEMAP_BLENDER_FILMIC
)

type Pipeline int
type ShadowFiltering int
type Antialiasing int
type Tonemapper int

var pipeline Pipeline = PIPELINE_STANDARD
var shadowFiltering ShadowFiltering = SHADOWS_PCF
var shadowResolution int = 1024
var antialiasing Antialiasing = AA_FXAA
var tonemapper Tonemapper = TONEMAP_BLENDER_FILMIC
var textureQuality int = 100
var debug bool

func GetPipeline() Pipeline {
	return pipeline
}

func SetPipeline(p Pipeline) {
	pipeline = p
}

func GetShadowFiltering() ShadowFiltering {
	return shadowFiltering
}

func GetShadowResolution() int {
	return shadowResolution
}

func GetAntialiasing() Antialiasing {
	return antialiasing
}

func GetTonemapper() Tonemapper {
	return tonemapper
}

func GetTextureQuality() int {
	return textureQuality
}

func GetDebug() bool {
	return debug
}

func SetDebug(d bool) {
	debug = d
}

func SetPipelineByName(name string) error {
	switch name {
	case "Standard":
		pipeline = PIPELINE_STANDARD
	case "Performance":
		pipeline = PIPELINE_PERFORMANCE
	case "Custom":
		pipeline = PIPELINE_CUSTOM
	default:
		return errors.Errorf("Failed to find pipeline %q", name)
	}
	return nil
}

func SetShadowFilteringByName(name string) error {
	switch name {
	case "Basic":
		shadowFiltering = SHADOWS_BASIC
	case "PCF":
		shadowFiltering = SHADOWS_PCF
	case "PCFS":
		shadowFiltering = SHADOWS_PCFS
	case "VSM":
		shadowFiltering = SHADOWS_VSM
	default:
		return errors.Errorf("Failed to find shadow filtering %q", name)
	}
	return nil
}

func SetShadowResolution(resolution int) error {
	switch resolution {
	case 256, 512, 1024, 2048, 4096, 8192:
		shadowResolution = resolution
		return nil
	}
	return errors.Errorf("Unsupported shadow resolution %v", resolution)
}

func SetAntialiasingByName(name string) error {
	switch name {
	case "FXAA":
		antialiasing = AA_FXAA
	case "TAA":
		antialiasing = AA_TAA
	case "MSAA":
		antialiasing = AA_MSAA
	default:
		return errors.Errorf("Failed to find antialiasing %q", name)
	}
	return nil
}

func SetTonemapperByName(name string) error {
	switch name {
	case "None":
		tonemapper = TONEMAP_NONE
	case "Reinhard":
		tonemapper = TONEMAP_REINHARD
	case "ReinhardLuminance":
		tonemapper = TONEMAP_REINHARD_LUMINANCE
	case "AcesFitted":
		tonemapper = TONEMAP_ACES_FITTED
	case "AgX":
		tonemapper = TONEMAP_AGX
	case "SomewhatBoringDisplayTransform":
		tonemapper = TONEMAP_SBDT
	case "TonyMcMapface":
		tonemapper = TONEMAP_TONY_MC_MAPFACE
	case "BlenderFilmic":
		tonemapper = TONEMAP_BLENDER_FILMIC
	default:
		return errors.Errorf("Failed to find tonemapper %q", name)
	}
	return nil
}

func SetTextureQuality(quality int) error {
	if quality < 0 || quality > 100 {
		return errors.Errorf("Texture quality %v out of range", quality)
	}
	textureQuality = quality
	return nil
}

// ApplyGraphicsName routes one manifest graphics option to its setter.
// Unknown options or values keep the current default and only warn, so a
// project compiled by a newer exporter still starts.
func ApplyGraphicsName(option, value string) {
	var err error
	switch option {
	case "pipeline":
		err = SetPipelineByName(value)
	case "shadows":
		err = SetShadowFilteringByName(value)
	case "antialiasing":
		err = SetAntialiasingByName(value)
	case "tonemapper":
		err = SetTonemapperByName(value)
	default:
		log.Printf("[config] Unknown graphics option %q", option)
		return
	}
	if err != nil {
		log.Printf("[config] Ignored graphics option %q: %v", option, err)
	}
}

func (p Pipeline) String() string {
	switch p {
	case PIPELINE_PERFORMANCE:
		return "Performance"
	case PIPELINE_CUSTOM:
		return "Custom"
	}
	return "Standard"
}

func (sf ShadowFiltering) String() string {
	switch sf {
	case SHADOWS_PCF:
		return "PCF"
	case SHADOWS_PCFS:
		return "PCFS"
	case SHADOWS_VSM:
		return "VSM"
	}
	return "Basic"
}

func (aa Antialiasing) String() string {
	switch aa {
	case AA_TAA:
		return "TAA"
	case AA_MSAA:
		return "MSAA"
	}
	return "FXAA"
}

func (tm Tonemapper) String() string {
	switch tm {
	case TONEMAP_REINHARD:
		return "Reinhard"
	case TONEMAP_REINHARD_LUMINANCE:
		return "ReinhardLuminance"
	case TONEMAP_ACES_FITTED:
		return "AcesFitted"
	case TONEMAP_AGX:
		return "AgX"
	case TONEMAP_SBDT:
		return "SomewhatBoringDisplayTransform"
	case TONEMAP_TONY_MC_MAPFACE:
		return "TonyMcMapface"
	case TONEMAP_BLENDER_FILMIC:
		return "BlenderFilmic"
	}
	return "None"
}
