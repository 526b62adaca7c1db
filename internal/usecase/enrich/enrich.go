// Package enrich asserts the descriptive statements that surround a result:
// pagination links, dataset membership, titles, OpenSearch metadata and the
// relationship between the served document and the resource it describes.
package enrich

import (
	"github.com/bbcarchdev/patchwork/internal/domain/canon"
	"github.com/bbcarchdev/patchwork/internal/domain/query"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
	"github.com/bbcarchdev/patchwork/internal/graph"
	"github.com/bbcarchdev/patchwork/internal/vocab"
)

// TitleLang is the language of synthesized titles.
const TitleLang = "en-gb"

// Languages are the user-interface languages advertised to OpenSearch clients.
var Languages = []string{"en-gb", "cy-gb", "gd-gb", "ga-gb"}

var (
	rdfType = graph.IRI(vocab.RDFType)
	dataset = graph.IRI(vocab.VoIDDataset)
)

// Meta asserts pagination links, dataset membership and, for listings and
// explicit queries, a synthesized title. All statements go in the concrete
// document context.
func Meta(req *request.Request, q *query.Query) {
	m, ctx := req.Model, req.Graph
	resource := graph.IRI(q.Resource)

	if req.Offset > 0 {
		link := req.Canonical.Clone()
		if prev := req.Offset - req.Limit; prev > 0 {
			link.SetParamInt("offset", prev)
		} else {
			link.DelParam("offset")
		}
		m.Add(ctx, resource, graph.IRI(vocab.XHTMLPrev), graph.IRI(link.String(canon.Resource)))
	}
	if q.More {
		link := req.Canonical.Clone()
		link.SetParamInt("offset", req.Offset+req.Limit)
		m.Add(ctx, resource, graph.IRI(vocab.XHTMLNext), graph.IRI(link.String(canon.Resource)))
	}

	if q.Resource != q.Base {
		base := graph.IRI(q.Base)
		m.Add(ctx, resource, graph.IRI(vocab.DCTermsIsPartOf), base)
		m.Add(ctx, base, rdfType, dataset)
		if req.IndexTitle != "" {
			m.Add(ctx, base, graph.IRI(vocab.RDFSLabel), graph.LangLiteral(req.IndexTitle, TitleLang))
		}
	}
	m.Add(ctx, resource, rdfType, dataset)

	if req.Index || q.Explicit {
		m.Add(ctx, resource, graph.IRI(vocab.RDFSLabel), graph.LangLiteral(Title(req, q), TitleLang))
	}
}

// OpenSearch asserts the OpenSearch URL template and supported languages on
// the request subject. At the service root it also describes the dataset's
// lookup endpoint and description document.
func OpenSearch(req *request.Request) {
	m, ctx := req.Model, req.Graph
	subject := graph.IRI(req.Subject())

	tmpl := req.Canonical.Clone()
	tmpl.ResetParams()
	tmpl.SetExt("")
	tmpl.AddParam("q", "{searchTerms?}")
	tmpl.AddParam("lang", "{language?}")
	tmpl.AddParam("limit", "{count?}")
	tmpl.AddParam("offset", "{startIndex?}")
	if req.Home || !req.Index {
		tmpl.AddParam("class", "{rdfs:Class?}")
		tmpl.AddParam("collection", "{dcmitype:Collection?}")
	}
	tmpl.AddParam("for", "{odrl:Party?}")
	tmpl.AddParam("media", "{dct:DCMIType?}")
	tmpl.AddParam("type", "{dct:IMT?}")
	if req.Home {
		tmpl.AddParam("mode", "{quilt.patchwork:queryMode?}")
	}
	m.Add(ctx, subject, graph.IRI(vocab.OSDTemplate), graph.Literal(tmpl.String(canon.Resource)))

	for _, lang := range Languages {
		m.Add(ctx, subject, graph.IRI(vocab.OSDLanguage), graph.Literal(lang))
	}

	if !req.Home {
		return
	}
	m.Add(ctx, subject, rdfType, dataset)

	lookup := req.Canonical.Clone()
	lookup.ResetParams()
	lookup.SetExt("")
	lookup.AddParam("uri", "")
	m.Add(ctx, subject, graph.IRI(vocab.VoIDURILookup), graph.IRI(lookup.String(canon.Resource)))

	osd := req.Canonical.Clone()
	osd.ResetParams()
	osd.SetExt("osd")
	m.Add(ctx, subject, graph.IRI(vocab.VoIDOpenSearchDesc), graph.IRI(osd.String(canon.Concrete)))
}

// formatTypes maps a served media type to the class of its format.
var formatTypes = map[string]string{
	"text/turtle":         vocab.FormatTurtle,
	"application/rdf+xml": vocab.FormatRDFXML,
	"text/rdf+n3":         vocab.FormatN3,
}

// Concrete relates the served document to its abstract counterpart and
// describes its format.
func Concrete(req *request.Request) {
	m, ctx := req.Model, req.Graph
	abstract := graph.IRI(req.Canonical.String(canon.Resource))
	concrete := graph.IRI(req.Canonical.String(canon.Concrete))
	subject := graph.IRI(req.Canonical.String(canon.Subject))

	m.Add(ctx, abstract, graph.IRI(vocab.FOAFPrimaryTopic), subject)
	m.Add(ctx, abstract, graph.IRI(vocab.DCTermsHasFormat), concrete)
	m.Add(ctx, concrete, rdfType, graph.IRI(vocab.DCMITypeText))
	if t, ok := formatTypes[req.Type]; ok {
		m.Add(ctx, concrete, rdfType, graph.IRI(t))
	}
	if req.Type != "" {
		m.Add(ctx, concrete, graph.IRI(vocab.DCTermsFormat), graph.IRI(vocab.NSMIME+req.Type))
	}
}
