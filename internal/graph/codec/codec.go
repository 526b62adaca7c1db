// Package codec converts between the in-memory model and RDF serializations.
package codec

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/knakk/rdf"
	"github.com/munnerz/goautoneg"

	"github.com/bbcarchdev/patchwork/internal/domain"
	"github.com/bbcarchdev/patchwork/internal/graph"
)

const xsdString = "http://www.w3.org/2001/XMLSchema#string"

// Format is a serialization patchwork can produce.
type Format struct {
	MediaType string
	Ext       string
	rdf       rdf.Format
	quads     bool
}

// Supported formats. The first is the default.
var (
	Turtle   = Format{MediaType: "text/turtle", Ext: "ttl", rdf: rdf.Turtle}
	NTriples = Format{MediaType: "application/n-triples", Ext: "nt", rdf: rdf.NTriples}
	NQuads   = Format{MediaType: "application/n-quads", Ext: "nq", rdf: rdf.NQuads, quads: true}

	Formats = []Format{Turtle, NTriples, NQuads}

	mediaTypes = []string{Turtle.MediaType, NTriples.MediaType, NQuads.MediaType}
)

// ForExt returns the format served for a file extension.
func ForExt(ext string) (Format, bool) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	for _, f := range Formats {
		if f.Ext == ext {
			return f, true
		}
	}
	return Format{}, false
}

// ForMediaType returns the format for a media type, ignoring parameters.
func ForMediaType(mt string) (Format, bool) {
	mt = strings.ToLower(strings.TrimSpace(strings.SplitN(mt, ";", 2)[0]))
	for _, f := range Formats {
		if f.MediaType == mt {
			return f, true
		}
	}
	return Format{}, false
}

// Negotiate picks the best supported format for an Accept header. An empty
// header, or one accepting anything, yields Turtle.
func Negotiate(accept string) (Format, error) {
	if strings.TrimSpace(accept) == "" {
		return Turtle, nil
	}
	for _, clause := range goautoneg.ParseAccept(strings.ToLower(accept)) {
		if clause.Q <= 0 {
			continue
		}
		if mt := goautoneg.Negotiate(clause.Type+"/"+clause.SubType, mediaTypes); mt != "" {
			f, _ := ForMediaType(mt)
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("%w: %q", domain.ErrNotAcceptable, accept)
}

// Decode parses N-Quads from r into m. Statements without a graph label are
// asserted in defaultCtx. It returns the number of statements read. On a
// parse error m is left untouched.
func Decode(r io.Reader, m *graph.Model, defaultCtx string) (int, error) {
	dec := rdf.NewQuadDecoder(r, rdf.NQuads)
	scratch := graph.NewModel()
	n := 0
	for {
		q, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			m.Merge(scratch)
			return n, nil
		}
		if err != nil {
			return 0, fmt.Errorf("%w: parse n-quads: %v", domain.ErrBackend, err)
		}
		ctx := defaultCtx
		if q.Ctx != nil && q.Ctx.String() != "" {
			ctx = q.Ctx.String()
		}
		scratch.Add(ctx, FromRDF(q.Subj), FromRDF(q.Pred), FromRDF(q.Obj))
		n++
	}
}

// Encode writes every statement of m to w in format f. Formats without graph
// labels merge all contexts; statements asserted in several contexts are
// written once. Statements in the default context are labelled defaultCtx
// in N-Quads.
func Encode(w io.Writer, m *graph.Model, f Format, defaultCtx string) error {
	if f.quads {
		enc := rdf.NewQuadEncoder(w, f.rdf)
		for _, q := range m.Quads() {
			rq, err := toQuad(q, defaultCtx)
			if err != nil {
				return err
			}
			if err := enc.Encode(rq); err != nil {
				return fmt.Errorf("encode %s: %w", f.MediaType, err)
			}
		}
		return enc.Close()
	}

	enc := rdf.NewTripleEncoder(w, f.rdf)
	seen := make(map[[3]graph.Term]struct{})
	for _, q := range m.Quads() {
		key := [3]graph.Term{q.Subject, q.Predicate, q.Object}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		t, err := toTriple(q)
		if err != nil {
			return err
		}
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("encode %s: %w", f.MediaType, err)
		}
	}
	return enc.Close()
}

// FromRDF converts a parsed term.
func FromRDF(t rdf.Term) graph.Term {
	switch v := t.(type) {
	case rdf.IRI:
		return graph.IRI(v.String())
	case rdf.Blank:
		return graph.Blank(strings.TrimPrefix(v.String(), "_:"))
	case rdf.Literal:
		if v.Lang() != "" {
			return graph.LangLiteral(v.String(), v.Lang())
		}
		if dt := v.DataType.String(); dt != "" && dt != xsdString {
			return graph.TypedLiteral(v.String(), dt)
		}
		return graph.Literal(v.String())
	}
	return graph.Literal(t.String())
}

// ToRDF converts a model term for serialization.
func ToRDF(t graph.Term) (rdf.Term, error) {
	switch t.Kind {
	case graph.KindIRI:
		iri, err := rdf.NewIRI(t.Value)
		if err != nil {
			return nil, fmt.Errorf("iri %q: %w", t.Value, err)
		}
		return iri, nil
	case graph.KindBlank:
		b, err := rdf.NewBlank(t.Value)
		if err != nil {
			return nil, fmt.Errorf("blank %q: %w", t.Value, err)
		}
		return b, nil
	case graph.KindLiteral:
		if t.Lang != "" {
			l, err := rdf.NewLangLiteral(t.Value, t.Lang)
			if err != nil {
				return nil, fmt.Errorf("literal @%s: %w", t.Lang, err)
			}
			return l, nil
		}
		if t.Datatype != "" {
			dt, err := rdf.NewIRI(t.Datatype)
			if err != nil {
				return nil, fmt.Errorf("datatype %q: %w", t.Datatype, err)
			}
			return rdf.NewTypedLiteral(t.Value, dt), nil
		}
		l, err := rdf.NewLiteral(t.Value)
		if err != nil {
			return nil, fmt.Errorf("literal: %w", err)
		}
		return l, nil
	}
	return nil, fmt.Errorf("cannot serialize wildcard term")
}

func toTriple(q graph.Quad) (rdf.Triple, error) {
	s, err := ToRDF(q.Subject)
	if err != nil {
		return rdf.Triple{}, err
	}
	p, err := ToRDF(q.Predicate)
	if err != nil {
		return rdf.Triple{}, err
	}
	o, err := ToRDF(q.Object)
	if err != nil {
		return rdf.Triple{}, err
	}
	subj, ok := s.(rdf.Subject)
	if !ok {
		return rdf.Triple{}, fmt.Errorf("%s cannot be a subject", q.Subject)
	}
	pred, ok := p.(rdf.Predicate)
	if !ok {
		return rdf.Triple{}, fmt.Errorf("%s cannot be a predicate", q.Predicate)
	}
	return rdf.Triple{Subj: subj, Pred: pred, Obj: o.(rdf.Object)}, nil
}

func toQuad(q graph.Quad, defaultCtx string) (rdf.Quad, error) {
	t, err := toTriple(q)
	if err != nil {
		return rdf.Quad{}, err
	}
	c := q.Context
	if c == "" {
		c = defaultCtx
	}
	ctx, err := rdf.NewIRI(c)
	if err != nil {
		return rdf.Quad{}, fmt.Errorf("context %q: %w", c, err)
	}
	return rdf.Quad{Triple: t, Ctx: ctx}, nil
}
