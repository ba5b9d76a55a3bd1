package record

import "github.com/aalvaropc/suitemap/internal/domain"

// EncodeRef renders a record ref as an element named qname.
func EncodeRef(qname string, ref domain.RecordRef) *domain.Node {
	n := domain.NewNode(qname)
	if ref.InternalID != "" {
		n.SetAttr("internalId", ref.InternalID)
	}
	if ref.ExternalID != "" {
		n.SetAttr("externalId", ref.ExternalID)
	}
	if ref.Type != "" {
		n.SetAttr("type", ref.Type)
	}
	if ref.Name != "" {
		n.Append(domain.TextNode(PlatformCore.Q("name"), ref.Name))
	}
	return n
}

// DecodeRef reads a record ref from an element carrying id attributes.
func DecodeRef(n *domain.Node) domain.RecordRef {
	var ref domain.RecordRef
	ref.InternalID, _ = n.Attr("internalId")
	ref.ExternalID, _ = n.Attr("externalId")
	ref.Type, _ = n.Attr("type")
	if name := n.Child("name"); name != nil {
		ref.Name = name.Text
	}
	return ref
}

// RefJSON is the JSON view of a record ref.
func RefJSON(ref domain.RecordRef) map[string]any {
	out := map[string]any{}
	if ref.InternalID != "" {
		out["internal_id"] = ref.InternalID
	}
	if ref.ExternalID != "" {
		out["external_id"] = ref.ExternalID
	}
	if ref.Type != "" {
		out["type"] = ref.Type
	}
	if ref.Name != "" {
		out["name"] = ref.Name
	}
	return out
}
