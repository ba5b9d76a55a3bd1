// Package soap speaks the SuiteTalk SOAP protocol: it renders request envelopes,
// parses responses and implements ports.Dispatcher on top of httpclient.
package soap

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/record"
)

// EnvelopeNamespace is the SOAP 1.1 envelope namespace.
const EnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"

// Preferences are sent in the SOAP header of every call.
type Preferences struct {
	WarningAsError       bool
	IgnoreReadOnlyFields bool

	// Search preferences, sent only with search operations.
	BodyFieldsOnly      bool
	ReturnSearchColumns bool
	PageSize            int
}

// Envelope renders a complete request for op with body as the operation payload.
func Envelope(version, op string, body []*domain.Node, prefs Preferences, search bool) ([]byte, error) {
	if version == "" {
		version = domain.DefaultAPIVersion
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("soapenv:Envelope")
	env.CreateAttr("xmlns:soapenv", EnvelopeNamespace)
	env.CreateAttr("xmlns:xsi", record.XSINamespace)
	for _, ns := range record.Namespaces() {
		env.CreateAttr("xmlns:"+ns.Prefix, ns.URN(version))
	}

	header := env.CreateElement("soapenv:Header")
	p := header.CreateElement(record.PlatformMsgs.Q("preferences"))
	p.CreateElement(record.PlatformMsgs.Q("warningAsError")).SetText(strconv.FormatBool(prefs.WarningAsError))
	p.CreateElement(record.PlatformMsgs.Q("ignoreReadOnlyFields")).SetText(strconv.FormatBool(prefs.IgnoreReadOnlyFields))

	if search {
		sp := header.CreateElement(record.PlatformMsgs.Q("searchPreferences"))
		sp.CreateElement(record.PlatformMsgs.Q("bodyFieldsOnly")).SetText(strconv.FormatBool(prefs.BodyFieldsOnly))
		sp.CreateElement(record.PlatformMsgs.Q("returnSearchColumns")).SetText(strconv.FormatBool(prefs.ReturnSearchColumns))
		if prefs.PageSize > 0 {
			sp.CreateElement(record.PlatformMsgs.Q("pageSize")).SetText(strconv.Itoa(prefs.PageSize))
		}
	}

	operation := env.CreateElement("soapenv:Body").CreateElement(record.PlatformMsgs.Q(op))
	for _, n := range body {
		appendNode(operation, n)
	}

	return doc.WriteToBytes()
}

func appendNode(parent *etree.Element, n *domain.Node) {
	if n == nil {
		return
	}
	el := parent.CreateElement(n.Name)
	for _, a := range n.Attrs {
		el.CreateAttr(a.Name, a.Value)
	}
	if n.Text != "" {
		el.SetText(n.Text)
	}
	for _, c := range n.Children {
		appendNode(el, c)
	}
}
