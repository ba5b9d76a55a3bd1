package record

import "github.com/aalvaropc/suitemap/internal/domain"

// Identity carries the remote identifiers of a record.
//
// The internal id is read-only for callers: it is set when the record is built from
// attributes or populated from a remote response.
type Identity struct {
	internalID string
	ExternalID string
}

// InternalID returns the remote internal id, if known.
func (i *Identity) InternalID() string { return i.internalID }

// IDs exposes the identity of an embedding record.
func (i *Identity) IDs() *Identity { return i }

// Adopt copies identifiers from a remote base ref onto the record.
// An empty internal id in the ref leaves the current one in place.
func Adopt(r Record, ref domain.RecordRef) {
	ids := r.IDs()
	if ref.InternalID != "" {
		ids.internalID = ref.InternalID
	}
	if ref.ExternalID != "" {
		ids.ExternalID = ref.ExternalID
	}
}

// RefOf returns a ref pointing at r.
func RefOf(r Record) domain.RecordRef {
	ids := r.IDs()
	return domain.RecordRef{
		InternalID: ids.internalID,
		ExternalID: ids.ExternalID,
		Type:       r.TypeName(),
	}
}
