package ports

import "github.com/aalvaropc/suitemap/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
