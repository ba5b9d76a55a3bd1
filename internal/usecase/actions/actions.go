// Package actions implements record-level remote actions on top of a ports.Dispatcher.
package actions

import (
	"context"
	"fmt"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/ports"
	"github.com/aalvaropc/suitemap/internal/record"
)

func ensure(t record.Type, a domain.Action) error {
	if t.Supports(a) {
		return nil
	}
	return &domain.OpError{
		Op:   "actions." + string(a),
		Kind: domain.KindUnsupportedAction,
		Path: t.Name(),
		Err:  fmt.Errorf("%s does not support %s: %w", t.Name(), a, domain.ErrUnsupportedAction),
	}
}

func ensureRecord(t record.Type, r record.Record, a domain.Action) error {
	if err := ensure(t, a); err != nil {
		return err
	}
	if r == nil || r.RecordType() != t.RecordType() {
		return &domain.OpError{
			Op:   "actions." + string(a),
			Kind: domain.KindInvalidRecord,
			Path: t.Name(),
			Err:  fmt.Errorf("record %T is not a %s: %w", r, t.Name(), domain.ErrInvalidRecord),
		}
	}
	if a == domain.ActionDelete {
		return nil
	}
	if v, ok := r.(record.Validator); ok {
		if err := v.Validate(); err != nil {
			return &domain.OpError{
				Op:   "actions." + string(a),
				Kind: domain.KindInvalidRecord,
				Path: t.Name(),
				Err:  fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err),
			}
		}
	}
	return nil
}

func withType(t record.Type, ref domain.RecordRef) domain.RecordRef {
	if ref.Type == "" {
		ref.Type = t.TypeName()
	}
	return ref
}

// decodeBody builds a record from a response body. A successful call with no body
// still yields an empty record.
func decodeBody(t record.Type, body *domain.Node) (record.Record, error) {
	if body == nil {
		return t.New(nil)
	}
	return t.Decode(body)
}

// Get reads one record. An unsuccessful response yields *domain.RecordNotFoundError.
func Get(ctx context.Context, d ports.Dispatcher, t record.Type, ref domain.RecordRef) (record.Record, error) {
	if err := ensure(t, domain.ActionGet); err != nil {
		return nil, err
	}

	ref = withType(t, ref)
	resp, err := d.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &domain.RecordNotFoundError{
			RecordType: t.Name(),
			Options:    ref.String(),
			Details:    resp.Details,
		}
	}
	return decodeBody(t, resp.Body)
}

// GetList reads several records in one call. Records that could not be read are
// skipped and their status details returned.
func GetList(ctx context.Context, d ports.Dispatcher, t record.Type, refs []domain.RecordRef) ([]record.Record, []domain.StatusDetail, error) {
	if err := ensure(t, domain.ActionGetList); err != nil {
		return nil, nil, err
	}

	typed := make([]domain.RecordRef, 0, len(refs))
	for _, ref := range refs {
		typed = append(typed, withType(t, ref))
	}

	resp, err := d.GetList(ctx, typed)
	if err != nil {
		return nil, nil, err
	}

	var failures []domain.StatusDetail
	if !resp.Success && len(resp.Items) == 0 {
		return nil, resp.Details, nil
	}

	out := make([]record.Record, 0, len(resp.Items))
	for _, item := range resp.Items {
		if !item.Success {
			failures = append(failures, item.Details...)
			continue
		}
		rec, err := decodeBody(t, item.Body)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, rec)
	}
	return out, failures, nil
}

// Initialize builds a new record from an existing one on the remote side, e.g. a
// check from a vendor. An unsuccessful response yields *domain.InitializationError.
func Initialize(ctx context.Context, d ports.Dispatcher, t record.Type, reference domain.RecordRef) (record.Record, error) {
	if err := ensure(t, domain.ActionInitialize); err != nil {
		return nil, err
	}

	resp, err := d.Initialize(ctx, t.TypeName(), reference)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &domain.InitializationError{
			RecordType: t.Name(),
			Reference:  reference.String(),
			Details:    resp.Details,
		}
	}
	return decodeBody(t, resp.Body)
}

// Add creates r remotely. On success r adopts the internal id of the created record.
func Add(ctx context.Context, d ports.Dispatcher, t record.Type, r record.Record) (bool, error) {
	if err := ensureRecord(t, r, domain.ActionAdd); err != nil {
		return false, err
	}
	resp, err := d.Add(ctx, record.Element(r))
	return adopt(r, resp, err)
}

// Update writes the set fields of r over the remote record.
func Update(ctx context.Context, d ports.Dispatcher, t record.Type, r record.Record) (bool, error) {
	if err := ensureRecord(t, r, domain.ActionUpdate); err != nil {
		return false, err
	}
	resp, err := d.Update(ctx, record.Element(r))
	if err != nil {
		return false, err
	}
	return resp.Success, nil
}

// Upsert adds or updates r keyed by its external id. On success r adopts the remote
// internal id.
func Upsert(ctx context.Context, d ports.Dispatcher, t record.Type, r record.Record) (bool, error) {
	if err := ensureRecord(t, r, domain.ActionUpsert); err != nil {
		return false, err
	}
	resp, err := d.Upsert(ctx, record.Element(r))
	return adopt(r, resp, err)
}

// Delete removes the remote record identified by r.
func Delete(ctx context.Context, d ports.Dispatcher, t record.Type, r record.Record) (bool, error) {
	if err := ensureRecord(t, r, domain.ActionDelete); err != nil {
		return false, err
	}

	ref := record.RefOf(r)
	if ref.InternalID == "" && ref.ExternalID == "" {
		return false, &domain.OpError{
			Op:   "actions.delete",
			Kind: domain.KindInvalidRecord,
			Path: t.Name(),
			Err:  fmt.Errorf("internal_id or external_id is required: %w", domain.ErrInvalidRecord),
		}
	}

	resp, err := d.Delete(ctx, ref)
	if err != nil {
		return false, err
	}
	return resp.Success, nil
}

func adopt(r record.Record, resp domain.Response, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	if !resp.Success {
		return false, nil
	}
	if resp.Body != nil {
		record.Adopt(r, record.DecodeRef(resp.Body))
	}
	return true, nil
}
