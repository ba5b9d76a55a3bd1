package ports

import "github.com/aalvaropc/suitemap/internal/domain"

// ExchangeStore persists remote exchanges and batch runs for reproducibility.
type ExchangeStore interface {
	SaveExchange(ex domain.Exchange) (id string, err error)
	SaveRun(run domain.RunResult) (id string, err error)
}
