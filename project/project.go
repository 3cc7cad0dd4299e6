package project

import (
	"log"

	"github.com/pkg/errors"

	"github.com/nxengine/nx_player/config"
)

const PROJECT_FILE_NAME = "project.nx"

const (
	GLTF_MODE_COMBINED = "Combined"
	GLTF_MODE_SEPARATE = "Separate"
)

// Project mirrors the manifest produced by the exporter. Field spellings
// follow the file format, not Go taste. Read once at startup and kept in
// memory; never written back.
type Project struct {
	Name        string   `json:"name"`
	Developer   string   `json:"developer"`
	Publisher   string   `json:"publisher"`
	License     string   `json:"license"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Debug       bool     `json:"debug"`
	LiveLink    bool     `json:"livelink"`
	Splash      Splash   `json:"splash"`
	Manifest    Manifest `json:"manifest"`
	GLTFMode    string   `json:"gltf_mode"`
	Options     Options  `json:"options"`
}

type Splash struct {
	Type     string `json:"type"`
	Duration string `json:"duration"`
	Src      string `json:"src"`
}

type Manifest struct {
	Initial string   `json:"initial"`
	Scenes  []*Scene `json:"scenes"`
}

type Scene struct {
	Name        string      `json:"name"`
	GLBGroups   []string    `json:"glb_groups"`
	Empties     []*Empty    `json:"scene_empties"`
	Meshes      []*Mesh     `json:"scene_meshes"`
	Materials   []*Material `json:"scene_materials"`
	Cameras     []*Camera   `json:"scene_cameras"`
	Lights      []*Light    `json:"scene_lights"`
	Speakers    []*Speaker  `json:"scene_speakers"`
	Probes      []*Empty    `json:"scene_probes"`
	Curves      []*Curve    `json:"scene_curves"`
	Modules     []string    `json:"scene_modules"`
	Environment Environment `json:"environment"`
}

// Object carries the fields every exported scene object shares.
// Identifier is the exporter-assigned id live link correlates on.
type Object struct {
	Name         string    `json:"name"`
	Identifier   int       `json:"identifier"`
	Matrix       []float32 `json:"matrix"`
	Parent       string    `json:"parent"`
	Modules      []string  `json:"modules"`
	ActiveAction string    `json:"active_action"`
	Spawn        bool      `json:"spawn"`
	Tags         string    `json:"tags"`
}

type Empty struct {
	Object
}

type Mesh struct {
	Name           string   `json:"name"`
	Identifier     int      `json:"identifier"`
	Modules        []string `json:"modules"`
	Lightmaps      string   `json:"lightmaps"`
	CastShadows    bool     `json:"cast_shadows"`
	ReceiveShadows bool     `json:"receive_shadows"`
	Spawn          bool     `json:"spawn"`
	ObjectStatus   string   `json:"object_status"`
	ActiveAction   string   `json:"active_action"`
	Tags           string   `json:"tags"`
}

type Material struct {
	Name        string  `json:"name"`
	Identifier  int     `json:"identifier"`
	Reflectance float32 `json:"reflectance"`
	XExpression string  `json:"x_expression"`
	YExpression string  `json:"y_expression"`
	BlendMode   string  `json:"blendmode"`
	IOR         float32 `json:"ior"`
}

const (
	CAMERA_TYPE_PERSPECTIVE  = "Perspective"
	CAMERA_TYPE_ORTHOGRAPHIC = "Orthographic"
)

type Camera struct {
	Object
	Type     string  `json:"type"`
	FOV      float32 `json:"fov"` // vertical, degrees
	ClipNear float32 `json:"clip_near"`
	ClipFar  float32 `json:"clip_far"`
	Active   bool    `json:"active"`
}

const (
	LIGHT_TYPE_POINT       = "POINT"
	LIGHT_TYPE_SUN         = "SUN"
	LIGHT_TYPE_DIRECTIONAL = "DIRECTIONAL"
	LIGHT_TYPE_SPOT        = "SPOT"
	LIGHT_TYPE_AREA        = "AREA"
)

type Light struct {
	Object
	Type      string     `json:"type"`
	Color     []float32  `json:"color"`
	Intensity float32    `json:"intensity"` // watts
	Shadow    bool       `json:"shadow"`
	Radius    float32    `json:"radius"`
	Angle     float32    `json:"angle"`
	SpotSize  float32    `json:"spotSize"` // opposite angle, see DecodeSpotSize
	SpotBlend float32    `json:"spotBlend"`
	AreaSize  [2]float32 `json:"areaSize"`
}

type Speaker struct {
	Object
	Volume          float32 `json:"volume"`
	Pitch           float32 `json:"pitch"`
	DistanceRef     float32 `json:"distance_ref"`
	DistanceMax     float32 `json:"distance_max"`
	VolumeMin       float32 `json:"volume_min"`
	VolumeMax       float32 `json:"volume_max"`
	Attenuation     float32 `json:"attenuation"`
	ConeOuter       float32 `json:"cone_outer"`
	ConeInner       float32 `json:"cone_inner"`
	ConeOuterVolume float32 `json:"cone_outer_volume"`
	Sound           string  `json:"sound"`
	Autoplay        bool    `json:"autoplay"`
	Loop            bool    `json:"loop"`
	Stream          bool    `json:"stream"`
}

type Curve struct {
	Object
	CurveType  string    `json:"curve_type"`
	SplineData []*Spline `json:"spline_data"`
}

type Spline struct {
	Type   string         `json:"type"`
	Points []*SplinePoint `json:"points"`
}

type SplinePoint struct {
	HandleLeft  []float32 `json:"handle_left"`
	Co          []float32 `json:"co"`
	HandleRight []float32 `json:"handle_right"`
}

const (
	BACKGROUND_TYPE_COLOR   = "color"
	BACKGROUND_TYPE_TEXTURE = "texture"
	BACKGROUND_TYPE_SKY     = "sky"
)

type Environment struct {
	BackgroundType      string    `json:"backgroundType"`
	BackgroundColor     []float32 `json:"backgroundColor"`
	BackgroundIntensity float32   `json:"backgroundIntensity"`
	BackgroundTexture   string    `json:"backgroundTexture"`
	Turbidity           float32   `json:"turbidity"`
	Rayleigh            float32   `json:"rayleigh"`
	MieCoefficient      float32   `json:"mieCoefficient"`
	MieDirectionalG     float32   `json:"mieDirectionalG"`
	Elevation           float32   `json:"elevation"`
	Azimuth             float32   `json:"azimuth"`
	Exposure            float32   `json:"exposure"`
}

type Options struct {
	XR       bool     `json:"xr"`
	Pipeline string   `json:"pipeline"`
	Graphics Graphics `json:"graphics"`
	Audio    Audio    `json:"audio"`
	Video    Video    `json:"video"`
}

type Graphics struct {
	Antialiasing        bool      `json:"antialiasing"`
	AntialiasingMode    string    `json:"antialiasing_mode"`
	Bloom               bool      `json:"bloom"`
	BloomMode           string    `json:"bloom_mode"`
	SSAO                bool      `json:"ssao"`
	DOF                 bool      `json:"dof"`
	CA                  bool      `json:"ca"`
	CASamples           int       `json:"ca_samples"`
	CAIntensity         float32   `json:"ca_intensity"`
	Vignette            bool      `json:"vignette"`
	SSR                 string    `json:"ssr"`
	Shadows             bool      `json:"shadows"`
	PostprocessStack    []*Effect `json:"postprocessStack"`
	TonemappingType     string    `json:"tonemapping_type"`
	TonemappingExposure float32   `json:"tonemapping_exposure"`
	TonemappingGamma    float32   `json:"tonemapping_gamma"`
	UseLightmaps        bool      `json:"use_lightmaps"`
}

type Audio struct {
	Effects float32 `json:"effects"`
	Music   float32 `json:"music"`
	Ambient float32 `json:"ambient"`
}

type Video struct {
	Fullscreen bool    `json:"fullscreen"`
	VSync      bool    `json:"vsync"`
	Width      float32 `json:"width"`
	Height     float32 `json:"height"`
}

type Effect struct {
	Type      string  `json:"type"`
	Threshold float32 `json:"threshold"`
	Radius    float32 `json:"radius"`
	Intensity float32 `json:"intensity"`
	Focus     float32 `json:"focus"`
	Distance  float32 `json:"distance"`
	Aperture  float32 `json:"aperture"`
}

func (p *Project) SceneByName(name string) *Scene {
	for _, scene := range p.Manifest.Scenes {
		if scene.Name == name {
			return scene
		}
	}
	return nil
}

// InitialScene resolves manifest.initial, falling back to the first scene
// when the field is empty or dangling.
func (p *Project) InitialScene() (*Scene, error) {
	if len(p.Manifest.Scenes) == 0 {
		return nil, errors.Errorf("Project %q has no scenes", p.Name)
	}
	if p.Manifest.Initial == "" {
		return p.Manifest.Scenes[0], nil
	}
	if scene := p.SceneByName(p.Manifest.Initial); scene != nil {
		return scene, nil
	}
	log.Printf("[project] Initial scene %q not found, using %q",
		p.Manifest.Initial, p.Manifest.Scenes[0].Name)
	return p.Manifest.Scenes[0], nil
}

func (p *Project) Validate() error {
	if p.Name == "" {
		return errors.Errorf("Project has no name")
	}
	if len(p.Manifest.Scenes) == 0 {
		return errors.Errorf("Project %q has no scenes", p.Name)
	}
	seen := make(map[string]struct{})
	for _, scene := range p.Manifest.Scenes {
		if scene.Name == "" {
			return errors.Errorf("Project %q contains an unnamed scene", p.Name)
		}
		if _, exists := seen[scene.Name]; exists {
			return errors.Errorf("Duplicate scene name %q", scene.Name)
		}
		seen[scene.Name] = struct{}{}
	}
	return nil
}

// ApplyOptions pushes manifest graphics options into the player config.
func (p *Project) ApplyOptions() {
	config.SetDebug(p.Debug || config.GetDebug())
	if p.Options.Pipeline != "" {
		config.ApplyGraphicsName("pipeline", p.Options.Pipeline)
	}
	if p.Options.Graphics.Antialiasing && p.Options.Graphics.AntialiasingMode != "" {
		config.ApplyGraphicsName("antialiasing", p.Options.Graphics.AntialiasingMode)
	}
	if p.Options.Graphics.TonemappingType != "" {
		config.ApplyGraphicsName("tonemapper", p.Options.Graphics.TonemappingType)
	}
}

// ActiveCamera returns the camera flagged active, or nil when the scene
// has none (the builder then falls back to the default viewer camera).
func (s *Scene) ActiveCamera() *Camera {
	for _, camera := range s.Cameras {
		if camera.Active {
			return camera
		}
	}
	if len(s.Cameras) > 0 {
		return s.Cameras[0]
	}
	return nil
}
