package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbcarchdev/patchwork/internal/domain"
	"github.com/bbcarchdev/patchwork/internal/graph"
)

const sampleNQuads = `<http://example.com/a#id> <http://www.w3.org/2000/01/rdf-schema#label> "Cats"@en-GB <http://example.com/a> .
<http://example.com/a#id> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://purl.org/dc/dcmitype/Collection> <http://example.com/a> .
<http://other.example/x> <http://www.w3.org/2002/07/owl#sameAs> <http://example.com/a#id> <http://other.example/> .
`

func TestDecode(t *testing.T) {
	m := graph.NewModel()
	n, err := Decode(strings.NewReader(sampleNQuads), m, "http://example.com/default")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, m.Len())

	assert.True(t, m.Has(graph.Pattern{
		Subject:   graph.IRI("http://example.com/a#id"),
		Predicate: graph.IRI("http://www.w3.org/2000/01/rdf-schema#label"),
		Object:    graph.LangLiteral("Cats", "en-gb"),
		Context:   "http://example.com/a",
	}))
	assert.Equal(t, []string{"http://example.com/a", "http://other.example/"}, m.Contexts())
}

func TestDecode_Malformed(t *testing.T) {
	m := graph.NewModel()
	_, err := Decode(strings.NewReader("<http://example.com/a> this is not rdf\n"), m, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBackend))
}

func TestDecode_PartialPayloadLeavesModelUnchanged(t *testing.T) {
	m := graph.NewModel()
	m.Add("http://example.com/x", graph.IRI("http://example.com/x#id"), graph.IRI("http://example.com/p"), graph.Literal("kept"))

	payload := sampleNQuads + "<http://example.com/a> this is not rdf\n"
	n, err := Decode(strings.NewReader(payload), m, "")
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, []string{"http://example.com/x"}, m.Contexts())
}

func TestEncode_NQuadsRoundTrip(t *testing.T) {
	m := graph.NewModel()
	_, err := Decode(strings.NewReader(sampleNQuads), m, "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m, NQuads, "http://example.com/"))

	back := graph.NewModel()
	_, err = Decode(&buf, back, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, m.Quads(), back.Quads())
}

func TestEncode_NTriplesMergesContexts(t *testing.T) {
	m := graph.NewModel()
	s, p, o := graph.IRI("http://example.com/s"), graph.IRI("http://example.com/p"), graph.Literal("o")
	m.Add("http://example.com/g1", s, p, o)
	m.Add("http://example.com/g2", s, p, o)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m, NTriples, ""))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1)
	assert.Contains(t, lines[0], "<http://example.com/s>")
}

func TestEncode_DefaultContext(t *testing.T) {
	m := graph.NewModel()
	m.Add("", graph.IRI("http://example.com/s"), graph.IRI("http://example.com/p"), graph.IRI("http://example.com/o"))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, m, NQuads, "http://example.com/doc"))
	assert.Contains(t, buf.String(), "<http://example.com/doc>")
}

func TestNegotiate(t *testing.T) {
	tests := []struct {
		accept string
		want   Format
	}{
		{"", Turtle},
		{"*/*", Turtle},
		{"application/n-quads", NQuads},
		{"text/html, application/n-triples;q=0.9, */*;q=0.1", NTriples},
		{"text/turtle;q=0.5, application/n-quads", NQuads},
		{"application/*", NTriples},
		{"text/*", Turtle},
		{"Application/N-Quads", NQuads},
		{"text/turtle;q=0, application/n-triples;q=0.2", NTriples},
		{"application/ld+json, application/n-quads;q=0.8, text/turtle;q=0.9", Turtle},
	}
	for _, tt := range tests {
		got, err := Negotiate(tt.accept)
		require.NoError(t, err, tt.accept)
		assert.Equal(t, tt.want.MediaType, got.MediaType, tt.accept)
	}

	_, err := Negotiate("text/html, application/json")
	assert.True(t, errors.Is(err, domain.ErrNotAcceptable))
	_, err = Negotiate("text/turtle;q=0")
	assert.True(t, errors.Is(err, domain.ErrNotAcceptable))
}

func TestForExt(t *testing.T) {
	f, ok := ForExt(".TTL")
	assert.True(t, ok)
	assert.Equal(t, "text/turtle", f.MediaType)
	_, ok = ForExt("html")
	assert.False(t, ok)
}

func TestTermConversion(t *testing.T) {
	for _, term := range []graph.Term{
		graph.IRI("http://example.com/x"),
		graph.Literal("plain"),
		graph.LangLiteral("Cymraeg", "cy-gb"),
		graph.TypedLiteral("42", "http://www.w3.org/2001/XMLSchema#integer"),
	} {
		r, err := ToRDF(term)
		require.NoError(t, err, term.String())
		assert.Equal(t, term, FromRDF(r), term.String())
	}
	_, err := ToRDF(graph.Term{})
	assert.Error(t, err)
}
