package sparql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knakk/rdf"

	"github.com/bbcarchdev/patchwork/internal/domain/identifier"
	"github.com/bbcarchdev/patchwork/internal/domain/query"
	"github.com/bbcarchdev/patchwork/internal/domain/query/mode"
	"github.com/bbcarchdev/patchwork/internal/vocab"
)

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

// errBadIRI marks a value that cannot be written as an IRI reference.
var errBadIRI = errors.New("not an IRI")

// iri renders a validated IRI reference.
func iri(s string) (string, error) {
	v, err := rdf.NewIRI(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", errBadIRI, s, err)
	}
	return "<" + v.String() + ">", nil
}

func literal(s string) string {
	return `"` + literalEscaper.Replace(s) + `"`
}

// localFilter restricts ?v to URIs under root.
func localFilter(v, root string) string {
	return fmt.Sprintf("FILTER(STRSTARTS(STR(?%s), %s))", v, literal(strings.TrimRight(root, "/")+"/"))
}

// buildSelect renders q. The inner query pages over distinct subjects; the
// outer one fetches their classes and labels.
func buildSelect(root string, q *query.Query) (string, error) {
	var where []string

	where = append(where, "?s a ?class .")
	if q.Class != "" {
		c, err := iri(q.Class)
		if err != nil {
			return "", err
		}
		where = append(where, "FILTER(?class = "+c+")")
	}
	if q.Collection != "" {
		c, err := iri(identifier.Local(root, q.Collection))
		if err != nil {
			return "", err
		}
		where = append(where, "?s <"+vocab.DCTermsIsPartOf+"> "+c+" .")
	}
	for _, a := range q.About {
		t, err := iri(identifier.Local(root, a))
		if err != nil {
			return "", err
		}
		where = append(where, "?s <"+vocab.DCTermsSubject+"> "+t+" .")
	}
	if q.Text != "" {
		where = append(where, "?s <"+vocab.RDFSLabel+"> ?text .")
		if q.Lang != "" {
			where = append(where, "FILTER(LANGMATCHES(LANG(?text), "+literal(q.Lang)+"))")
		}
		fn := "CONTAINS"
		if q.Mode == mode.Autocomplete {
			fn = "STRSTARTS"
		}
		where = append(where, fmt.Sprintf("FILTER(%s(LCASE(STR(?text)), LCASE(%s)))", fn, literal(q.Text)))
	}
	where = append(where, localFilter("s", root))

	var b strings.Builder
	b.WriteString("SELECT DISTINCT ?s ?class ?label WHERE {\n")
	b.WriteString("  {\n    SELECT DISTINCT ?s WHERE {\n      GRAPH ?g {\n")
	for _, w := range where {
		b.WriteString("        ")
		b.WriteString(w)
		b.WriteByte('\n')
	}
	b.WriteString("      }\n    }\n    ORDER BY ?s\n")
	fmt.Fprintf(&b, "    LIMIT %d\n", q.Limit+1)
	if q.Offset > 0 {
		fmt.Fprintf(&b, "    OFFSET %d\n", q.Offset)
	}
	b.WriteString("  }\n")
	b.WriteString("  GRAPH ?g { ?s a ?class . OPTIONAL { ?s <" + vocab.RDFSLabel + "> ?label } }\n")
	b.WriteString("}")
	return b.String(), nil
}

func buildItem(doc string) (string, error) {
	g, err := iri(doc)
	if err != nil {
		return "", err
	}
	return "SELECT ?s ?p ?o WHERE { GRAPH " + g + " { ?s ?p ?o } }", nil
}

func buildLookup(root, target string) (string, error) {
	t, err := iri(target)
	if err != nil {
		return "", err
	}
	return "SELECT ?s WHERE { GRAPH ?g { ?s <" + vocab.OWLSameAs + "> " + t + " } " +
		localFilter("s", root) + " } LIMIT 1", nil
}
