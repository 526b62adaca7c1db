// Package graph is the in-memory statement store a request's result is
// assembled in. Statements are quads: a triple plus the URI of the graph
// context it was asserted in. The empty context is the default graph.
package graph

import "strings"

// Kind identifies the type of a Term. The zero Kind matches any term when a
// Term is used in a Pattern.
type Kind uint8

// Term kinds.
const (
	Any Kind = iota
	KindIRI
	KindLiteral
	KindBlank
)

// Term is an RDF node. Terms are comparable and can be used as map keys.
type Term struct {
	Kind     Kind
	Value    string
	Lang     string
	Datatype string
}

// IRI returns a resource term.
func IRI(v string) Term { return Term{Kind: KindIRI, Value: v} }

// Literal returns a plain literal.
func Literal(v string) Term { return Term{Kind: KindLiteral, Value: v} }

// LangLiteral returns a literal tagged with a language. Tags are stored
// lowercased.
func LangLiteral(v, lang string) Term {
	return Term{Kind: KindLiteral, Value: v, Lang: strings.ToLower(lang)}
}

// TypedLiteral returns a literal with an explicit datatype.
func TypedLiteral(v, datatype string) Term {
	return Term{Kind: KindLiteral, Value: v, Datatype: datatype}
}

// Blank returns a blank node.
func Blank(id string) Term { return Term{Kind: KindBlank, Value: id} }

// IsIRI reports whether the term is a resource.
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IsLiteral reports whether the term is a literal.
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// Matches reports whether t satisfies p, where a zero pattern matches anything.
func (t Term) Matches(p Term) bool {
	if p.Kind == Any {
		return true
	}
	return t == p
}

func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		s := `"` + t.Value + `"`
		if t.Lang != "" {
			return s + "@" + t.Lang
		}
		if t.Datatype != "" {
			return s + "^^<" + t.Datatype + ">"
		}
		return s
	}
	return "*"
}
