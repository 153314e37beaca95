package optics

import (
	"runtime"

	"github.com/fogleman/pt/pt"
	"golang.org/x/sync/errgroup"
)

// PointRecord is one traced sample at the sensor plane. Dead rays keep
// their slot with a zero strength so consumers can skip them without
// changing buffer indexing.
type PointRecord struct {
	X, Y       float64
	ApertureX  float64
	ApertureY  float64
	Strength   float64
	Wavelength float64
}

// TraceConfig describes one sampling pass. It is immutable for the
// duration of the pass; a new pass gets a new config.
type TraceConfig struct {
	// Side is the side length of the sampled ray grid; a pass traces
	// Side*Side base rays.
	Side int
	// Width of the sampled patch in ray origin space.
	Width float64
	// Origin is the center of the sampled patch.
	Origin pt.Vector
	// Direction shared by every sampled ray.
	Direction pt.Vector
	// Wavelength in micrometers.
	Wavelength float64
	// SensorZ is the z position of the sensor plane.
	SensorZ float64
	// DrawGhosts and DrawDirect select which paths are traced.
	DrawGhosts bool
	DrawDirect bool
	// WhichGhost selects a single ghost by number; 0 traces all ghosts.
	WhichGhost int
	// Workers caps the number of concurrent row workers; 0 means NumCPU.
	Workers int
}

// sampleOrigin returns the base-ray origin of grid cell (x, y).
func (c TraceConfig) sampleOrigin(x, y int) pt.Vector {
	return c.Origin.Add(V(
		float64(x)/float64(c.Side)*c.Width-c.Width/2,
		float64(y)/float64(c.Side)*c.Width-c.Width/2,
		0,
	))
}

// Segments returns the number of output records per grid sample.
func (c TraceConfig) Segments(l *Lens) int {
	n := 0
	if c.DrawGhosts {
		n += len(l.SelectGhosts(c.WhichGhost))
	}
	if c.DrawDirect {
		n++
	}
	return n
}

// record captures the ray's terminal state at the sensor plane.
func (r *Ray) record(sensorZ float64) PointRecord {
	if r.Dead() {
		return PointRecord{Wavelength: r.Wavelength}
	}
	x, y := r.IntersectPlane(sensorZ)
	return PointRecord{
		X:          x,
		Y:          y,
		ApertureX:  r.Aperture[0],
		ApertureY:  r.Aperture[1],
		Strength:   r.Strength,
		Wavelength: r.Wavelength,
	}
}

// TracePass traces the configured ray grid through the lens and returns
// a flat buffer of one record per (sample, path) pair, in slot order
// sample*segments + slot. Slots are computed from indices alone, so
// rows can be traced concurrently with no shared state.
func (l *Lens) TracePass(cfg TraceConfig) []PointRecord {
	var ghosts []Ghost
	if cfg.DrawGhosts {
		ghosts = l.SelectGhosts(cfg.WhichGhost)
	}
	segments := len(ghosts)
	if cfg.DrawDirect {
		segments++
	}
	out := make([]PointRecord, cfg.Side*cfg.Side*segments)
	if segments == 0 {
		return out
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	var grp errgroup.Group
	grp.SetLimit(workers)
	for y := 0; y < cfg.Side; y++ {
		y := y
		grp.Go(func() error {
			for x := 0; x < cfg.Side; x++ {
				origin := cfg.sampleOrigin(x, y)
				base := (y*cfg.Side + x) * segments
				slot := 0
				for _, g := range ghosts {
					ray := NewRay(origin, cfg.Direction, cfg.Wavelength)
					l.TraceGhost(&ray, g)
					out[base+slot] = ray.record(cfg.SensorZ)
					slot++
				}
				if cfg.DrawDirect {
					ray := NewRay(origin, cfg.Direction, cfg.Wavelength)
					l.Propagate(&ray)
					out[base+slot] = ray.record(cfg.SensorZ)
				}
			}
			return nil
		})
	}
	// workers never fail; the group only bounds concurrency
	_ = grp.Wait()
	return out
}

// GhostPoints extracts the sample grid of a single ghost slot from a
// TracePass buffer, in the layout NormalizeDensity expects.
func GhostPoints(records []PointRecord, segments, slot int) []SamplePoint {
	points := make([]SamplePoint, len(records)/segments)
	for i := range points {
		rec := records[i*segments+slot]
		points[i] = SamplePoint{X: rec.X, Y: rec.Y, Strength: rec.Strength}
	}
	return points
}
