package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/flarelab/go-lensflare/optics"
)

// LoadOptions configures the behavior of config loading
type LoadOptions struct {
	ValidateImmediately bool
}

// LoadFromFile loads a LensConfig from a YAML file
func LoadFromFile(path string, opts LoadOptions) (*LensConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lens file: %w", err)
	}

	config := &LensConfig{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing lens file: %w", err)
	}

	if opts.ValidateImmediately {
		if errs := config.Validate(); len(errs) > 0 {
			return nil, fmt.Errorf("validation errors: %v", errs)
		}
	}

	return config, nil
}

// SaveToFile saves a LensConfig to a YAML file
func SaveToFile(config *LensConfig, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling lens config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing lens file: %w", err)
	}
	return nil
}

// Build converts the validated config into an immutable lens.
func (c *LensConfig) Build() (*optics.Lens, error) {
	if errs := c.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid lens config: %v", errs)
	}
	elements := make([]optics.Element, 0, len(c.Elements))
	for _, ec := range c.Elements {
		el := optics.Element{Radius: ec.Radius, Position: ec.Position}
		switch ec.Kind {
		case "glass":
			glass, err := ec.Glass.build()
			if err != nil {
				return nil, err
			}
			el.Props = glass
		case "aperture":
			el.Props = optics.Aperture{
				Blades: ec.Aperture.Blades,
				Radius: ec.Aperture.Radius,
			}
		}
		elements = append(elements, el)
	}
	return optics.NewLens(elements), nil
}

func (g GlassCfg) build() (optics.Glass, error) {
	sellmeier := optics.Sellmeier{B: g.B, C: g.C}
	switch g.Preset {
	case "":
	case "bk7":
		sellmeier = optics.BK7()
	case "air":
		sellmeier = optics.Air()
	default:
		return optics.Glass{}, fmt.Errorf("unknown glass preset %q", g.Preset)
	}

	coating := optics.NoCoating()
	switch {
	case g.Coating.Optimal:
		n := sellmeier.IOR(g.Coating.Wavelength)
		coating = optics.OptimalCoating(1, n, g.Coating.Wavelength)
	case g.Coating.IOR != 0:
		coating = optics.Coating{IOR: g.Coating.IOR, Thickness: g.Coating.Thickness}
	}

	return optics.Glass{
		Sellmeier: sellmeier,
		OuterIOR:  optics.Air(),
		Coating:   coating,
		Entry:     g.Entry,
		Spherical: g.Spherical,
	}, nil
}
