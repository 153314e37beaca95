package optics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourElementLens() *Lens {
	return NewLens([]Element{
		flatGlass(1, true, 1.5),
		flatGlass(2, false, 1.5),
		flatGlass(3, true, 1.6),
		flatGlass(4, false, 1.6),
	})
}

func TestGhostEnumeration(t *testing.T) {
	assert := assert.New(t)

	ghosts := fourElementLens().Ghosts()
	require.Len(t, ghosts, 6, "C(4,2) pairs expected")

	want := [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	for n, g := range ghosts {
		assert.Equal(want[n][0], g.I)
		assert.Equal(want[n][1], g.J)
		assert.Equal(n+1, g.Number)
	}
}

func TestGhostEnumerationSkipsAperture(t *testing.T) {
	assert := assert.New(t)

	lens := NewLens([]Element{
		flatGlass(1, true, 1.5),
		flatGlass(2, false, 1.5),
		{Position: 2.5, Props: Aperture{Blades: 6, Radius: 1}},
		flatGlass(3, true, 1.6),
		flatGlass(4, false, 1.6),
	})
	ghosts := lens.Ghosts()
	assert.Len(ghosts, 6)
	for _, g := range ghosts {
		_, iIsAperture := lens.Elements[g.I].Props.(Aperture)
		_, jIsAperture := lens.Elements[g.J].Props.(Aperture)
		assert.False(iIsAperture)
		assert.False(jIsAperture)
	}
}

func TestSelectGhosts(t *testing.T) {
	assert := assert.New(t)
	lens := fourElementLens()

	assert.Len(lens.SelectGhosts(0), 6)

	one := lens.SelectGhosts(3)
	assert.Len(one, 1)
	assert.Equal(3, one[0].Number)

	assert.Empty(lens.SelectGhosts(99))
}

func TestOnAxisPropagation(t *testing.T) {
	assert := assert.New(t)

	// two-element symmetric lens, both surfaces flat, coated
	coated := func(position float64, entry bool) Element {
		return Element{
			Position: position,
			Props: Glass{
				Sellmeier: constantGlass(1.5),
				OuterIOR:  Air(),
				Coating:   Coating{IOR: 1.38, Thickness: 0.1},
				Entry:     entry,
				Spherical: true,
			},
		}
	}
	lens := NewLens([]Element{coated(1, true), coated(2, false)})

	ray := NewRay(V(0, 0, 0), V(0, 0, 1), 0.55)
	lens.Propagate(&ray)

	require.False(t, ray.Dead())
	x, y := ray.IntersectPlane(5)
	assert.InDelta(0.0, x, 1e-9)
	assert.InDelta(0.0, y, 1e-9)
	// Fresnel loss at both coated surfaces, but never total loss
	assert.Greater(ray.Strength, 0.0)
	assert.Less(ray.Strength, 1.0)
}

func TestTraceGhostPath(t *testing.T) {
	assert := assert.New(t)

	lens := NewLens([]Element{flatGlass(1, true, 1.5), flatGlass(2, false, 1.5)})
	ghosts := lens.Ghosts()
	require.Len(t, ghosts, 1)

	ray := NewRay(V(0, 0.1, 0), V(0, 0, 1), 0.55)
	path := lens.GhostPath(&ray, ghosts[0])
	// start, reflect at 1, reflect at 0, re-cross 1: four interface
	// events plus the starting state
	assert.Len(path, 5)

	// strength never increases along the path
	for i := 1; i < len(path); i++ {
		assert.LessOrEqual(path[i].Strength, path[i-1].Strength)
	}
}

func TestTraceGhostWeakerThanDirect(t *testing.T) {
	assert := assert.New(t)

	lens := NewLens([]Element{flatGlass(1, true, 1.5), flatGlass(2, false, 1.5)})
	ghost := lens.Ghosts()[0]

	direct := NewRay(V(0, 0.1, 0), V(0, 0, 1), 0.55)
	lens.Propagate(&direct)

	ghosted := NewRay(V(0, 0.1, 0), V(0, 0, 1), 0.55)
	lens.TraceGhost(&ghosted, ghost)

	// a ghost survives two extra partial reflections, each costing most
	// of the remaining energy
	assert.Less(ghosted.Strength, direct.Strength)
	assert.Greater(ghosted.Strength, 0.0)
}
