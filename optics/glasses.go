package optics

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// BK7 is Schott N-BK7 borosilicate crown, the usual reference glass.
func BK7() Sellmeier {
	return Sellmeier{
		B: [3]float64{1.03961212, 0.231792344, 1.01046945},
		C: [3]float64{6.00069867e-3, 2.00179144e-2, 1.03560653e2},
	}
}

// NamedGlass pairs a catalog glass name with its dispersion.
type NamedGlass struct {
	Name      string
	Sellmeier Sellmeier
}

// LoadGlassCatalog reads a CSV glass catalog of
// name,b1,b2,b3,c1,c2,c3 rows and returns the glasses sorted by name.
func LoadGlassCatalog(r io.Reader) ([]NamedGlass, error) {
	rdr := csv.NewReader(r)
	rdr.TrimLeadingSpace = true

	var glasses []NamedGlass
	for {
		rec, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading glass catalog: %w", err)
		}
		if len(rec) != 7 {
			return nil, fmt.Errorf("glass catalog row for %q: want 7 fields, got %d", rec[0], len(rec))
		}
		var coeffs [6]float64
		for i := 0; i < 6; i++ {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("glass catalog row for %q: %w", rec[0], err)
			}
			coeffs[i] = v
		}
		glasses = append(glasses, NamedGlass{
			Name: rec[0],
			Sellmeier: Sellmeier{
				B: [3]float64{coeffs[0], coeffs[1], coeffs[2]},
				C: [3]float64{coeffs[3], coeffs[4], coeffs[5]},
			},
		})
	}
	sort.Slice(glasses, func(i, j int) bool { return glasses[i].Name < glasses[j].Name })
	return glasses, nil
}
