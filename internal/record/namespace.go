package record

import "fmt"

// XSINamespace is the XML Schema instance namespace used for xsi:type.
const XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"

// Namespace is a SuiteTalk XML namespace bound to a fixed prefix.
type Namespace struct {
	Prefix string
	area   string
	group  string
}

var (
	PlatformMsgs   = Namespace{Prefix: "platformMsgs", area: "messages", group: "platform"}
	PlatformCore   = Namespace{Prefix: "platformCore", area: "core", group: "platform"}
	PlatformCommon = Namespace{Prefix: "platformCommon", area: "common", group: "platform"}
	PlatformFaults = Namespace{Prefix: "platformFaults", area: "faults", group: "platform"}
	TranBank       = Namespace{Prefix: "tranBank", area: "bank", group: "transactions"}
	TranSales      = Namespace{Prefix: "tranSales", area: "sales", group: "transactions"}
	ListRel        = Namespace{Prefix: "listRel", area: "relationships", group: "lists"}
)

// Namespaces returns every namespace declared on outgoing envelopes.
func Namespaces() []Namespace {
	return []Namespace{PlatformMsgs, PlatformCore, PlatformCommon, PlatformFaults, TranBank, TranSales, ListRel}
}

// LookupNamespace finds a namespace by prefix.
func LookupNamespace(prefix string) (Namespace, bool) {
	for _, ns := range Namespaces() {
		if ns.Prefix == prefix {
			return ns, true
		}
	}
	return Namespace{}, false
}

// URN returns the namespace URI for an endpoint version such as "2024_1".
func (n Namespace) URN(version string) string {
	return fmt.Sprintf("urn:%s_%s.%s.webservices.netsuite.com", n.area, version, n.group)
}

// Q qualifies a local element name with the namespace prefix.
func (n Namespace) Q(local string) string {
	return n.Prefix + ":" + local
}
