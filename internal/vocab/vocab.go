// Package vocab holds the namespace IRIs used by the statements patchwork
// reads and asserts.
package vocab

// Namespaces.
const (
	NSRDF      = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSRDFS     = "http://www.w3.org/2000/01/rdf-schema#"
	NSOWL      = "http://www.w3.org/2002/07/owl#"
	NSFOAF     = "http://xmlns.com/foaf/0.1/"
	NSDCTerms  = "http://purl.org/dc/terms/"
	NSDCMIType = "http://purl.org/dc/dcmitype/"
	NSMIME     = "http://purl.org/NET/mediatypes/"
	NSXHTML    = "http://www.w3.org/1999/xhtml/vocab#"
	NSVoID     = "http://rdfs.org/ns/void#"
	NSFormats  = "http://www.w3.org/ns/formats/"
	NSOSD      = "http://a9.com/-/spec/opensearch/1.1/"
)

// Terms.
const (
	RDFType = NSRDF + "type"

	RDFSLabel   = NSRDFS + "label"
	RDFSSeeAlso = NSRDFS + "seeAlso"

	OWLSameAs = NSOWL + "sameAs"

	FOAFPrimaryTopic = NSFOAF + "primaryTopic"

	DCTermsIsPartOf    = NSDCTerms + "isPartOf"
	DCTermsHasFormat   = NSDCTerms + "hasFormat"
	DCTermsFormat      = NSDCTerms + "format"
	DCTermsDescription = NSDCTerms + "description"
	DCTermsSubject     = NSDCTerms + "subject"
	DCMITypeCollection = NSDCMIType + "Collection"
	DCMITypeText       = NSDCMIType + "Text"
	XHTMLPrev          = NSXHTML + "prev"
	XHTMLNext          = NSXHTML + "next"
	VoIDDataset        = NSVoID + "Dataset"
	VoIDURILookup      = NSVoID + "uriLookupEndpoint"
	VoIDOpenSearchDesc = NSVoID + "openSearchDescription"
	OSDTemplate        = NSOSD + "template"
	OSDLanguage        = NSOSD + "Language"
	FormatTurtle       = NSFormats + "Turtle"
	FormatRDFXML       = NSFormats + "RDF_XML"
	FormatN3           = NSFormats + "N3"
)

// MediaName pairs a short media name with the DCMI type it stands for.
type MediaName struct {
	Name string
	URI  string
}

// MediaNames lists the DCMI types that have a short name in titles and in
// the media query parameter.
var MediaNames = []MediaName{
	{"collection", NSDCMIType + "Collection"},
	{"dataset", NSDCMIType + "Dataset"},
	{"video", NSDCMIType + "MovingImage"},
	{"image", NSDCMIType + "StillImage"},
	{"interactive", NSDCMIType + "InteractiveResource"},
	{"software", NSDCMIType + "Software"},
	{"audio", NSDCMIType + "Sound"},
	{"text", NSDCMIType + "Text"},
}

// MediaNameFor returns the short name for a DCMI type URI.
func MediaNameFor(uri string) (string, bool) {
	for _, m := range MediaNames {
		if m.URI == uri {
			return m.Name, true
		}
	}
	return "", false
}

// MediaURIFor expands a short media name. Values that are not short names
// are returned unchanged with ok false.
func MediaURIFor(name string) (string, bool) {
	for _, m := range MediaNames {
		if m.Name == name {
			return m.URI, true
		}
	}
	return name, false
}
