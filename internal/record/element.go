package record

import "github.com/aalvaropc/suitemap/internal/domain"

// Element renders r as the platformMsgs:record payload of a write action.
func Element(r Record) *domain.Node {
	n := domain.NewNode(PlatformMsgs.Q("record"))
	n.SetAttr("xsi:type", r.RecordType())
	ids := r.IDs()
	if ids.internalID != "" {
		n.SetAttr("internalId", ids.internalID)
	}
	if ids.ExternalID != "" {
		n.SetAttr("externalId", ids.ExternalID)
	}
	return n.Append(r.ToRecord()...)
}
