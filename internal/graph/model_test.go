package graph

import "testing"

const (
	ctxA = "http://example.com/a"
	ctxB = "http://example.com/b"
)

func TestAdd_Dedupes(t *testing.T) {
	m := NewModel()
	s, p, o := IRI("http://ex/s"), IRI("http://ex/p"), Literal("o")

	if !m.Add(ctxA, s, p, o) {
		t.Fatal("first Add returned false")
	}
	if m.Add(ctxA, s, p, o) {
		t.Error("duplicate Add returned true")
	}
	if !m.Add(ctxB, s, p, o) {
		t.Error("same triple in another context should be a new statement")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestFind_Wildcards(t *testing.T) {
	m := NewModel()
	p := IRI("http://ex/p")
	m.Add(ctxA, IRI("http://ex/1"), p, Literal("x"))
	m.Add(ctxB, IRI("http://ex/2"), p, Literal("y"))
	m.Add(ctxB, IRI("http://ex/2"), IRI("http://ex/q"), Literal("z"))

	if got := len(m.Find(Pattern{Predicate: p, AnyContext: true})); got != 2 {
		t.Errorf("any-context find = %d, want 2", got)
	}
	if got := len(m.Find(Pattern{Predicate: p, Context: ctxB})); got != 1 {
		t.Errorf("context find = %d, want 1", got)
	}
	if got := len(m.Find(Pattern{Context: "http://ex/none"})); got != 0 {
		t.Errorf("unknown context find = %d, want 0", got)
	}
}

func TestMoveContext(t *testing.T) {
	m := NewModel()
	s, p := IRI("http://ex/s"), IRI("http://ex/p")
	m.Add(ctxA, s, p, Literal("1"))
	m.Add(ctxA, s, p, Literal("2"))
	m.Add(ctxB, s, p, Literal("2"))

	moved := m.MoveContext(ctxA, ctxB)
	if moved != 1 {
		t.Errorf("moved = %d, want 1 (one statement already present)", moved)
	}
	if n := len(m.Context(ctxA)); n != 0 {
		t.Errorf("source context still has %d statements", n)
	}
	if n := len(m.Context(ctxB)); n != 2 {
		t.Errorf("target context has %d statements, want 2", n)
	}
}

func TestRemoveContext_KeepsIndexConsistent(t *testing.T) {
	m := NewModel()
	s, p := IRI("http://ex/s"), IRI("http://ex/p")
	m.Add(ctxA, s, p, Literal("1"))
	m.Add(ctxB, s, p, Literal("2"))
	m.Add(ctxA, s, p, Literal("3"))

	if n := m.RemoveContext(ctxA); n != 2 {
		t.Fatalf("removed = %d, want 2", n)
	}
	if m.Add(ctxB, s, p, Literal("2")) {
		t.Error("surviving statement should still be indexed")
	}
	if !m.Add(ctxA, s, p, Literal("1")) {
		t.Error("removed statement should be addable again")
	}
}

func TestContexts_Sorted(t *testing.T) {
	m := NewModel()
	m.Add(ctxB, IRI("http://ex/s"), IRI("http://ex/p"), Literal("1"))
	m.Add(ctxA, IRI("http://ex/s"), IRI("http://ex/p"), Literal("1"))

	got := m.Contexts()
	if len(got) != 2 || got[0] != ctxA || got[1] != ctxB {
		t.Errorf("Contexts() = %v", got)
	}
}

func TestTermString(t *testing.T) {
	tests := []struct {
		term Term
		want string
	}{
		{IRI("http://ex/a"), "<http://ex/a>"},
		{Literal("x"), `"x"`},
		{LangLiteral("Cats", "en-GB"), `"Cats"@en-gb`},
		{TypedLiteral("1", "http://www.w3.org/2001/XMLSchema#int"), `"1"^^<http://www.w3.org/2001/XMLSchema#int>`},
		{Blank("b0"), "_:b0"},
	}
	for _, tt := range tests {
		if got := tt.term.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestMerge(t *testing.T) {
	s, p := IRI("http://example.com/s"), IRI("http://example.com/p")
	m := NewModel()
	m.Add("g1", s, p, Literal("a"))

	other := NewModel()
	other.Add("g1", s, p, Literal("a"))
	other.Add("g2", s, p, Literal("b"))

	if n := m.Merge(other); n != 1 {
		t.Errorf("Merge() = %d, want 1", n)
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
	if !m.Has(Pattern{Subject: s, Object: Literal("b"), Context: "g2"}) {
		t.Error("merged statement missing")
	}
}
