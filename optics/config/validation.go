package config

import (
	"fmt"
)

// ValidationError represents a structured validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validatePositive(field string, value float64) []ValidationError {
	if value <= 0 {
		return []ValidationError{{Field: field, Message: "must be positive"}}
	}
	return nil
}

// Validate checks the config for structural problems before a lens is
// built from it. All errors are collected rather than failing fast.
func (c *LensConfig) Validate() []ValidationError {
	var errs []ValidationError

	errs = append(errs, validatePositive("sensor.extent", c.Sensor.Extent)...)

	if len(c.Elements) == 0 {
		errs = append(errs, ValidationError{
			Field:   "elements",
			Message: "lens needs at least one element",
		})
	}
	for i, e := range c.Elements {
		field := fmt.Sprintf("elements[%d]", i)
		switch e.Kind {
		case "glass":
			if e.Glass.Coating.Optimal && e.Glass.Coating.Wavelength <= 0 {
				errs = append(errs, ValidationError{
					Field:   field + ".glass.coating.wavelength",
					Message: "optimal coating needs a design wavelength",
				})
			}
		case "aperture":
			if e.Aperture.Blades < 3 {
				errs = append(errs, ValidationError{
					Field:   field + ".aperture.blades",
					Message: "aperture needs at least 3 blades",
				})
			}
			errs = append(errs, validatePositive(field+".aperture.radius", e.Aperture.Radius)...)
		default:
			errs = append(errs, ValidationError{
				Field:   field + ".kind",
				Message: fmt.Sprintf("unknown element kind %q", e.Kind),
			})
		}
		if i > 0 && c.Elements[i-1].Position > e.Position {
			errs = append(errs, ValidationError{
				Field:   field + ".position",
				Message: "elements must be ordered along the optical axis",
			})
		}
	}

	if c.Sampling.Side != 0 {
		if c.Sampling.Side < 2 {
			errs = append(errs, ValidationError{
				Field:   "sampling.side",
				Message: "grid side must be at least 2",
			})
		}
		errs = append(errs, validatePositive("sampling.width", c.Sampling.Width)...)
		errs = append(errs, validatePositive("sampling.wavelength", c.Sampling.Wavelength)...)
	}

	return errs
}
