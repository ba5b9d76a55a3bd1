package ports

import "github.com/aalvaropc/suitemap/internal/domain"

// BatchLoader loads batches from a source (e.g., filesystem).
type BatchLoader interface {
	LoadBatch(path string) (domain.Batch, error)
	ListBatches(root string) ([]domain.BatchRef, error)
}
