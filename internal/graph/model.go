package graph

import "sort"

// Quad is a statement asserted in a graph context.
type Quad struct {
	Subject   Term
	Predicate Term
	Object    Term
	Context   string
}

// Pattern selects quads. Zero terms match anything; AnyContext controls
// whether Context is compared.
type Pattern struct {
	Subject    Term
	Predicate  Term
	Object     Term
	Context    string
	AnyContext bool
}

// Model is an insertion-ordered set of quads. It is not safe for concurrent
// use: a model belongs to exactly one request.
type Model struct {
	quads []Quad
	index map[Quad]int
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{index: make(map[Quad]int)}
}

// Len returns the number of statements.
func (m *Model) Len() int { return len(m.quads) }

// Add asserts s p o in ctx. It returns false if the statement was already
// present in that context.
func (m *Model) Add(ctx string, s, p, o Term) bool {
	return m.AddQuad(Quad{Subject: s, Predicate: p, Object: o, Context: ctx})
}

// AddQuad asserts q.
func (m *Model) AddQuad(q Quad) bool {
	if _, ok := m.index[q]; ok {
		return false
	}
	m.index[q] = len(m.quads)
	m.quads = append(m.quads, q)
	return true
}

// Merge asserts every statement of other in m and returns how many were new.
func (m *Model) Merge(other *Model) int {
	n := 0
	for _, q := range other.quads {
		if m.AddQuad(q) {
			n++
		}
	}
	return n
}

// Has reports whether any statement matches p.
func (m *Model) Has(p Pattern) bool {
	for _, q := range m.quads {
		if q.matches(p) {
			return true
		}
	}
	return false
}

// Find returns every statement matching p, in insertion order.
func (m *Model) Find(p Pattern) []Quad {
	var out []Quad
	for _, q := range m.quads {
		if q.matches(p) {
			out = append(out, q)
		}
	}
	return out
}

// Context returns the statements asserted in ctx.
func (m *Model) Context(ctx string) []Quad {
	return m.Find(Pattern{Context: ctx})
}

// Contexts returns the distinct graph contexts, sorted.
func (m *Model) Contexts() []string {
	seen := make(map[string]struct{})
	for _, q := range m.quads {
		seen[q.Context] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// RemoveContext deletes every statement in ctx and returns how many were
// removed.
func (m *Model) RemoveContext(ctx string) int {
	return m.removeWhere(func(q Quad) bool { return q.Context == ctx })
}

// MoveContext re-asserts every statement of from into to and then deletes
// from. Statements already present in to are not duplicated.
func (m *Model) MoveContext(from, to string) int {
	if from == to {
		return 0
	}
	moved := 0
	for _, q := range m.Context(from) {
		q.Context = to
		if m.AddQuad(q) {
			moved++
		}
	}
	m.RemoveContext(from)
	return moved
}

// Quads returns a copy of every statement in insertion order.
func (m *Model) Quads() []Quad {
	out := make([]Quad, len(m.quads))
	copy(out, m.quads)
	return out
}

func (m *Model) removeWhere(drop func(Quad) bool) int {
	kept := m.quads[:0]
	removed := 0
	for _, q := range m.quads {
		if drop(q) {
			delete(m.index, q)
			removed++
			continue
		}
		kept = append(kept, q)
	}
	m.quads = kept
	for i, q := range m.quads {
		m.index[q] = i
	}
	return removed
}

func (q Quad) matches(p Pattern) bool {
	if !p.AnyContext && q.Context != p.Context {
		return false
	}
	return q.Subject.Matches(p.Subject) &&
		q.Predicate.Matches(p.Predicate) &&
		q.Object.Matches(p.Object)
}
