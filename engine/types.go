package engine

// Wire shapes of the scene construction commands. The scene package
// builds these from manifest entries; the viewer consumes them as-is.

type Transform struct {
	Translation [3]float32 `json:"translation"`
	Rotation    [4]float32 `json:"rotation"` // x y z w
	Scale       [3]float32 `json:"scale"`
}

const (
	PROJECTION_PERSPECTIVE  = "perspective"
	PROJECTION_ORTHOGRAPHIC = "orthographic"
)

type Camera struct {
	Name       string    `json:"name"`
	Projection string    `json:"projection"`
	Transform  Transform `json:"transform"`
	FOV        float32   `json:"fov"` // vertical, radians
	Aspect     float32   `json:"aspect,omitempty"`
	Near       float32   `json:"near"`
	Far        float32   `json:"far"`
	Active     bool      `json:"active"`
}

const (
	LIGHT_POINT       = "point"
	LIGHT_SPOT        = "spot"
	LIGHT_DIRECTIONAL = "directional"
	LIGHT_AMBIENT     = "ambient"
)

type Light struct {
	Name      string     `json:"name"`
	Kind      string     `json:"kind"`
	Transform Transform  `json:"transform"`
	Color     [3]float32 `json:"color"`
	Intensity float32    `json:"intensity"` // candela for point/spot, lux for directional
	Range     float32    `json:"range,omitempty"`
	InnerCone float32    `json:"inner_cone,omitempty"` // radians
	OuterCone float32    `json:"outer_cone,omitempty"`
	Shadow    *Shadow    `json:"shadow,omitempty"`
}

type Shadow struct {
	Resolution int    `json:"resolution"`
	Filtering  string `json:"filtering"`
}

// Material adjusts one named material the asset pipeline created. Scroll
// expressions stay textual so the viewer can drive them per frame; Offset
// carries their value at t=0 for the first frame.
type Material struct {
	Name        string     `json:"name"`
	Reflectance float32    `json:"reflectance"`
	IOR         float32    `json:"ior,omitempty"`
	BlendMode   string     `json:"blend_mode,omitempty"`
	ScrollX     string     `json:"scroll_x,omitempty"`
	ScrollY     string     `json:"scroll_y,omitempty"`
	Offset      [2]float32 `json:"offset"`
}

const (
	ENVIRONMENT_COLOR   = "color"
	ENVIRONMENT_TEXTURE = "texture"
	ENVIRONMENT_SKY     = "sky"
)

type Environment struct {
	Mode      string     `json:"mode"`
	Color     [3]float32 `json:"color"`
	Texture   string     `json:"texture,omitempty"`
	Intensity float32    `json:"intensity"`
	Sky       *Sky       `json:"sky,omitempty"`
}

type Sky struct {
	Turbidity       float32 `json:"turbidity"`
	Rayleigh        float32 `json:"rayleigh"`
	MieCoefficient  float32 `json:"mie_coefficient"`
	MieDirectionalG float32 `json:"mie_directional_g"`
	Elevation       float32 `json:"elevation"`
	Azimuth         float32 `json:"azimuth"`
	Exposure        float32 `json:"exposure"`
}

type Speaker struct {
	Name        string    `json:"name"`
	Transform   Transform `json:"transform"`
	URL         string    `json:"url"`
	Volume      float32   `json:"volume"`
	Loop        bool      `json:"loop"`
	Autoplay    bool      `json:"autoplay"`
	RefDistance float32   `json:"ref_distance"`
	MaxDistance float32   `json:"max_distance"`
}

type Empty struct {
	Name      string    `json:"name"`
	Transform Transform `json:"transform"`
	Modules   []string  `json:"modules,omitempty"`
}

// AssetTask tells the viewer to fetch and decode one staged asset. URL
// points back at the player's asset route unless the asset is remote.
type AssetTask struct {
	Task string `json:"task"`
	Type string `json:"type"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// TransformUpdate retargets one named object without respawning it.
type TransformUpdate struct {
	Name      string     `json:"name"`
	Transform *Transform `json:"transform"`
}

type Graphics struct {
	Pipeline         string `json:"pipeline"`
	ShadowFiltering  string `json:"shadow_filtering"`
	ShadowResolution int    `json:"shadow_resolution"`
	Antialiasing     string `json:"antialiasing"`
	Tonemapper       string `json:"tonemapper"`
	TextureQuality   int    `json:"texture_quality"`
}

type Effect struct {
	Type      string  `json:"type"`
	Threshold float32 `json:"threshold,omitempty"`
	Radius    float32 `json:"radius,omitempty"`
	Intensity float32 `json:"intensity,omitempty"`
	Focus     float32 `json:"focus,omitempty"`
	Distance  float32 `json:"distance,omitempty"`
	Aperture  float32 `json:"aperture,omitempty"`
}

type Fade struct {
	Seconds float32 `json:"seconds"`
}
