package sparql

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbcarchdev/patchwork/internal/domain"
	"github.com/bbcarchdev/patchwork/internal/domain/identifier"
	"github.com/bbcarchdev/patchwork/internal/domain/query"
	"github.com/bbcarchdev/patchwork/internal/domain/query/mode"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
	"github.com/bbcarchdev/patchwork/internal/graph"
	"github.com/bbcarchdev/patchwork/internal/vocab"
)

const (
	root = "http://example.com"
	idA  = "65983a1410ef49e2a3e591f90291a2e0"
	idB  = "0b7c3a5e2d4f4e1a9c8b7f6e5d4c3b2a"
)

// fakeEndpoint answers SPARQL queries with a canned JSON result and records
// the query text.
type fakeEndpoint struct {
	mu      sync.Mutex
	queries []string
	status  int
	body    string
}

func (f *fakeEndpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	f.mu.Lock()
	f.queries = append(f.queries, r.FormValue("query"))
	status, body := f.status, f.body
	f.mu.Unlock()
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/sparql-results+json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (f *fakeEndpoint) lastQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return ""
	}
	return f.queries[len(f.queries)-1]
}

func newRepo(t *testing.T, body string) (*Repo, *fakeEndpoint) {
	t.Helper()
	fake := &fakeEndpoint{body: body}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	repo, err := New(Config{Endpoint: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return repo, fake
}

func newRequest() *request.Request {
	return request.New(request.Options{Root: root, Path: "/", DefaultLimit: 25, MaxLimit: 100})
}

func uriBinding(v string) string { return `{"type":"uri","value":"` + v + `"}` }

func TestNew_RequiresEndpoint(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestQuery(t *testing.T) {
	a, b, c := root+"/"+idA+"#id", root+"/"+idB+"#id", root+"/ffffffffffffffffffffffffffffffff#id"
	body := `{"head":{"vars":["s","class","label"]},"results":{"bindings":[
		{"s":` + uriBinding(a) + `,"class":` + uriBinding("http://ex/Foo") + `,"label":{"type":"literal","xml:lang":"en-gb","value":"Cats"}},
		{"s":` + uriBinding(a) + `,"class":` + uriBinding("http://ex/Bar") + `},
		{"s":` + uriBinding(b) + `,"class":` + uriBinding("http://ex/Foo") + `},
		{"s":` + uriBinding(c) + `,"class":` + uriBinding("http://ex/Foo") + `}
	]}}`
	repo, fake := newRepo(t, body)

	req := newRequest()
	q := query.New()
	q.Class = "http://ex/Foo"
	q.Text = `say "hi"`
	q.Limit = 2
	q.Offset = 4
	q.Resource = root + "/everything"

	require.NoError(t, repo.Query(context.Background(), req, q))
	assert.True(t, q.More)

	hits := req.Model.Find(graph.Pattern{Predicate: graph.IRI(vocab.RDFSSeeAlso), Context: req.Graph})
	require.Len(t, hits, 2)
	assert.Equal(t, graph.IRI(b), hits[0].Object)
	assert.Equal(t, graph.IRI(a), hits[1].Object)
	assert.True(t, req.Model.Has(graph.Pattern{Subject: graph.IRI(a), Predicate: graph.IRI(vocab.RDFSLabel), Object: graph.LangLiteral("Cats", "en-gb"), Context: req.Graph}))
	assert.Len(t, req.Model.Find(graph.Pattern{Subject: graph.IRI(a), Predicate: graph.IRI(vocab.RDFType), Context: req.Graph}), 2)

	sent := fake.lastQuery()
	assert.Contains(t, sent, "FILTER(?class = <http://ex/Foo>)")
	assert.Contains(t, sent, `CONTAINS(LCASE(STR(?text)), LCASE("say \"hi\""))`)
	assert.Contains(t, sent, "LIMIT 3")
	assert.Contains(t, sent, "OFFSET 4")
}

func TestBuildSelect_Filters(t *testing.T) {
	q := query.New()
	q.Limit = 10
	q.Collection = idA
	q.About = []string{idB}
	q.Text = "ca"
	q.Lang = "en"
	q.Mode = mode.Autocomplete

	text, err := buildSelect(root, q)
	require.NoError(t, err)
	assert.Contains(t, text, "?s <"+vocab.DCTermsIsPartOf+"> <"+root+"/"+idA+"#id> .")
	assert.Contains(t, text, "?s <"+vocab.DCTermsSubject+"> <"+root+"/"+idB+"#id> .")
	assert.Contains(t, text, `LANGMATCHES(LANG(?text), "en")`)
	assert.Contains(t, text, "STRSTARTS(LCASE(STR(?text))")
	assert.Contains(t, text, `FILTER(STRSTARTS(STR(?s), "http://example.com/"))`)
	assert.NotContains(t, text, "OFFSET")
}

func TestBuildSelect_RejectsBadIRI(t *testing.T) {
	q := query.New()
	q.Class = "http://ex/has space"
	_, err := buildSelect(root, q)
	assert.Error(t, err)
}

func TestQuery_UnrenderableFilterMatchesNothing(t *testing.T) {
	for name, set := range map[string]func(q *query.Query){
		"class":      func(q *query.Query) { q.Class = "foo bar" },
		"collection": func(q *query.Query) { q.Collection = `http://ex/"quoted"` },
		"about":      func(q *query.Query) { q.About = []string{"http://ex/{x}"} },
	} {
		t.Run(name, func(t *testing.T) {
			repo, fake := newRepo(t, `{"head":{"vars":["s"]},"results":{"bindings":[]}}`)
			req := newRequest()
			q := query.New()
			q.Limit = 10
			q.Resource = root + "/everything"
			set(q)

			err := repo.Query(context.Background(), req, q)
			require.NoError(t, err)
			assert.Equal(t, 200, domain.Status(err))
			assert.False(t, q.More)
			assert.Empty(t, req.Model.Find(graph.Pattern{Predicate: graph.IRI(vocab.RDFSSeeAlso), AnyContext: true}))
			assert.Empty(t, fake.lastQuery())
		})
	}
}

func TestItem(t *testing.T) {
	subject := root + "/" + idA + "#id"
	body := `{"head":{"vars":["s","p","o"]},"results":{"bindings":[
		{"s":` + uriBinding(subject) + `,"p":` + uriBinding(vocab.RDFType) + `,"o":` + uriBinding(vocab.DCMITypeCollection) + `},
		{"s":` + uriBinding("http://source.example/cats") + `,"p":` + uriBinding(vocab.OWLSameAs) + `,"o":` + uriBinding(subject) + `}
	]}}`
	repo, fake := newRepo(t, body)
	req := newRequest()

	require.NoError(t, repo.Item(context.Background(), req, identifier.ID(idA)))
	doc := root + "/" + idA
	assert.Equal(t, 2, len(req.Model.Context(doc)))
	assert.Contains(t, fake.lastQuery(), "GRAPH <"+doc+">")
}

func TestItem_Empty(t *testing.T) {
	repo, _ := newRepo(t, `{"head":{"vars":["s","p","o"]},"results":{"bindings":[]}}`)
	err := repo.Item(context.Background(), newRequest(), identifier.ID(idA))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItem_EndpointError(t *testing.T) {
	repo, fake := newRepo(t, "boom")
	fake.status = http.StatusInternalServerError
	err := repo.Item(context.Background(), newRequest(), identifier.ID(idA))
	assert.ErrorIs(t, err, domain.ErrBackend)
	assert.Equal(t, 500, domain.Status(err))
}

func TestLookup(t *testing.T) {
	body := `{"head":{"vars":["s"]},"results":{"bindings":[{"s":` + uriBinding(root+"/"+idA+"#id") + `}]}}`
	repo, fake := newRepo(t, body)
	req := newRequest()

	require.NoError(t, repo.Lookup(context.Background(), req, "http://source.example/cats"))
	assert.Equal(t, root+"/"+idA, req.Location)
	assert.True(t, strings.Contains(fake.lastQuery(), "<"+vocab.OWLSameAs+"> <http://source.example/cats>"))
}

func TestLookup_NotFound(t *testing.T) {
	repo, _ := newRepo(t, `{"head":{"vars":["s"]},"results":{"bindings":[]}}`)
	err := repo.Lookup(context.Background(), newRequest(), "http://source.example/dogs")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Lookup(context.Background(), newRequest(), "not a uri")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMembership_NoOp(t *testing.T) {
	repo, fake := newRepo(t, "")
	req := newRequest()
	require.NoError(t, repo.Membership(context.Background(), req, identifier.ID(idA)))
	assert.Equal(t, 0, req.Model.Len())
	assert.Empty(t, fake.lastQuery())
}
