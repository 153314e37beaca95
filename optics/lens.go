package optics

// Lens is an ordered list of optical interfaces along the z axis.
// The element order is the physical traversal order; a lens is
// read-only once built.
type Lens struct {
	Elements []Element
}

func NewLens(elements []Element) *Lens {
	return &Lens{Elements: elements}
}

// Ghost identifies a two-bounce reflection path: propagate forward to
// element J, reflect, propagate backward to element I, reflect again,
// then continue forward to the sensor. Number is a stable 1-based index
// over the enumeration order; 0 is reserved to mean "all ghosts".
type Ghost struct {
	I, J   int
	Number int
}

// Ghosts enumerates every valid reflection pair (i, j) with i < j in
// lexicographic order. Aperture pseudo-elements never reflect, so they
// are skipped on both sides of the pair.
func (l *Lens) Ghosts() []Ghost {
	var ghosts []Ghost
	n := 0
	for i := 0; i < len(l.Elements)-1; i++ {
		if _, ok := l.Elements[i].Props.(Aperture); ok {
			continue
		}
		for j := i + 1; j < len(l.Elements); j++ {
			if _, ok := l.Elements[j].Props.(Aperture); ok {
				continue
			}
			n++
			ghosts = append(ghosts, Ghost{I: i, J: j, Number: n})
		}
	}
	return ghosts
}

// SelectGhosts returns the ghosts to trace in one pass: all of them
// when number is 0, otherwise the single matching ghost.
func (l *Lens) SelectGhosts(number int) []Ghost {
	ghosts := l.Ghosts()
	if number == 0 {
		return ghosts
	}
	for _, g := range ghosts {
		if g.Number == number {
			return []Ghost{g}
		}
	}
	return nil
}

// Propagate refracts the ray through every element in order.
func (l *Lens) Propagate(r *Ray) {
	for _, e := range l.Elements {
		r.step(e, false)
	}
}

// TraceGhost propagates the ray along the ghost's double-reflection
// path. The backward leg crosses elements strictly between I and J in
// reverse; the surfaces' entry flags are interpreted relative to the
// reversed travel direction by the interface code itself.
func (l *Lens) TraceGhost(r *Ray, g Ghost) {
	for ele := range l.Elements {
		if ele != g.J {
			r.step(l.Elements[ele], false)
			continue
		}
		r.step(l.Elements[g.J], true)
		for k := g.J - 1; k > g.I; k-- {
			r.step(l.Elements[k], false)
		}
		r.step(l.Elements[g.I], true)
		for k := g.I + 1; k <= g.J; k++ {
			r.step(l.Elements[k], false)
		}
	}
}

// GhostPath traces like TraceGhost but returns a copy of the ray after
// every interface, for cross-section views and debugging.
func (l *Lens) GhostPath(r *Ray, g Ghost) []Ray {
	path := []Ray{*r}
	record := func() { path = append(path, *r) }
	for ele := range l.Elements {
		if ele != g.J {
			r.step(l.Elements[ele], false)
			record()
			continue
		}
		r.step(l.Elements[g.J], true)
		record()
		for k := g.J - 1; k > g.I; k-- {
			r.step(l.Elements[k], false)
			record()
		}
		r.step(l.Elements[g.I], true)
		record()
		for k := g.I + 1; k <= g.J; k++ {
			r.step(l.Elements[k], false)
			record()
		}
	}
	return path
}
