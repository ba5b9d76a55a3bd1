package ports

import (
	"context"

	"github.com/aalvaropc/suitemap/internal/domain"
)

// Dispatcher performs remote record actions. Implementations translate each call into
// one remote operation and report the outcome as a domain.Response.
//
// An unsuccessful remote status is not an error: it comes back as Response.Success ==
// false with status details. Errors are reserved for transport failures and faults.
type Dispatcher interface {
	Get(ctx context.Context, ref domain.RecordRef) (domain.Response, error)
	GetList(ctx context.Context, refs []domain.RecordRef) (domain.Response, error)
	// Initialize asks the remote side to build a typeName record from reference.
	Initialize(ctx context.Context, typeName string, reference domain.RecordRef) (domain.Response, error)
	Add(ctx context.Context, record *domain.Node) (domain.Response, error)
	Delete(ctx context.Context, ref domain.RecordRef) (domain.Response, error)
	Update(ctx context.Context, record *domain.Node) (domain.Response, error)
	Upsert(ctx context.Context, record *domain.Node) (domain.Response, error)
	Search(ctx context.Context, searchRecord *domain.Node, pageSize int) (domain.Response, error)
	SearchMoreWithID(ctx context.Context, searchID string, pageIndex int) (domain.Response, error)
}
