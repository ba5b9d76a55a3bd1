package journal

import (
	"strings"

	"github.com/beevik/etree"
)

// sensitiveElements are the local names of SOAP elements carrying credentials,
// e.g. a tokenPassport signature or a passport password.
var sensitiveElements = map[string]bool{
	"password":       true,
	"password2":      true,
	"signature":      true,
	"token":          true,
	"consumerKey":    true,
	"consumerSecret": true,
	"tokenSecret":    true,
}

// maskXML blanks the content of sensitive elements at any depth and keeps their
// tags and attributes. Payloads that do not parse are dropped whole when they
// mention a sensitive element.
func maskXML(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		if mentionsSensitive(s) {
			return maskValue
		}
		return s
	}

	if !maskElements(&doc.Element) {
		return s
	}
	out, err := doc.WriteToString()
	if err != nil {
		return maskValue
	}
	return out
}

func maskElements(el *etree.Element) bool {
	masked := false
	for _, c := range el.ChildElements() {
		if sensitiveElements[c.Tag] {
			if len(c.Child) > 0 {
				c.Child = nil
				c.SetText(maskValue)
				masked = true
			}
			continue
		}
		if maskElements(c) {
			masked = true
		}
	}
	return masked
}

func mentionsSensitive(s string) bool {
	for name := range sensitiveElements {
		if strings.Contains(s, name+">") || strings.Contains(s, name+" ") {
			return true
		}
	}
	return false
}
