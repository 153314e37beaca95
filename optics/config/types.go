package config

// LensConfig is the complete description of a lens system and how to
// sample it, as loaded from a YAML prescription file.
type LensConfig struct {
	Name     string          `yaml:"name"`
	Sensor   Sensor          `yaml:"sensor"`
	Elements []ElementConfig `yaml:"elements"`
	Sampling Sampling        `yaml:"sampling"`
}

type Sensor struct {
	// Position is the z coordinate of the sensor plane.
	Position float64 `yaml:"position"`
	// Extent is the half-width of the imaged sensor area.
	Extent float64 `yaml:"extent"`
}

// ElementConfig describes one optical interface. Kind is "glass" or
// "aperture"; the matching sub-struct carries the details.
type ElementConfig struct {
	Kind     string   `yaml:"kind"`
	Radius   float64  `yaml:"radius"`
	Position float64  `yaml:"position"`
	Glass    GlassCfg `yaml:"glass,omitempty"`
	Aperture Stop     `yaml:"aperture,omitempty"`
}

type GlassCfg struct {
	// Sellmeier coefficients; empty B and C mean air.
	B [3]float64 `yaml:"b,omitempty"`
	C [3]float64 `yaml:"c,omitempty"`
	// Named preset overriding B/C, e.g. "bk7".
	Preset    string     `yaml:"preset,omitempty"`
	Entry     bool       `yaml:"entry"`
	Spherical bool       `yaml:"spherical"`
	Coating   CoatingCfg `yaml:"coating,omitempty"`
}

type CoatingCfg struct {
	// Optimal, when set, derives a quarter-wave coating for the given
	// design wavelength instead of using IOR/Thickness directly.
	Optimal    bool    `yaml:"optimal,omitempty"`
	Wavelength float64 `yaml:"wavelength,omitempty"`
	IOR        float64 `yaml:"ior,omitempty"`
	Thickness  float64 `yaml:"thickness,omitempty"`
}

type Stop struct {
	Blades int     `yaml:"blades"`
	Radius float64 `yaml:"radius"`
}

type Sampling struct {
	Side       int     `yaml:"side"`
	Width      float64 `yaml:"width"`
	Wavelength float64 `yaml:"wavelength"`
}
