package optics

import "math"

// SamplePoint is one projected grid sample with its display strength.
// Points live on a regular side×side grid in sampling space; X and Y
// are where the mapping placed them on the sensor.
type SamplePoint struct {
	X, Y     float64
	Strength float64
}

// ringTris lists the neighbor offset pairs forming the six one-ring
// triangles around a grid vertex.
var ringTris = [6][2][2]int{
	{{1, 0}, {0, 1}},
	{{0, 1}, {-1, 1}},
	{{-1, 1}, {-1, 0}},
	{{-1, 0}, {0, -1}},
	{{0, -1}, {1, -1}},
	{{1, -1}, {1, 0}},
}

func triangleArea(a, b, c SamplePoint) float64 {
	return math.Abs((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y)) / 2
}

// minAvgArea clamps degenerate density estimates; a collapsed
// neighborhood only ever corrupts its own sample, never produces
// NaN/Inf.
const minAvgArea = 1e-12

// NormalizeDensity corrects sample strengths for the non-uniform
// density the lens mapping produces from a regular sampling grid: where
// the mapping expands an input cell the points dim, where it compresses
// they brighten. refArea is the area of one grid-cell triangle in the
// sampling space, so an identity mapping is left unchanged.
//
// Points with no usable neighbor triangle keep their strength.
func NormalizeDensity(points []SamplePoint, side int, refArea float64) {
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			p := &points[y*side+x]
			if p.Strength < 0 {
				p.Strength = 0
			}
			total := 0.0
			count := 0
			for _, tri := range ringTris {
				bx, by := x+tri[0][0], y+tri[0][1]
				cx, cy := x+tri[1][0], y+tri[1][1]
				if bx < 0 || bx >= side || by < 0 || by >= side ||
					cx < 0 || cx >= side || cy < 0 || cy >= side {
					continue
				}
				area := triangleArea(*p, points[by*side+bx], points[cy*side+cx])
				if area > 0 {
					total += area
					count++
				}
			}
			if count == 0 {
				continue
			}
			avg := total / float64(count)
			if avg < minAvgArea {
				avg = minAvgArea
			}
			p.Strength *= refArea / avg
		}
	}
}
