package contracts

import (
	"context"

	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
)

// Catalog is the owner of the entity collection. Every entity it returns is a
// copy; every mutation persists the full collection before it becomes visible.
type Catalog interface {
	List() []*domain.Entity
	Get(id string) (*domain.Entity, error)
	Create(ctx context.Context, draft domain.Draft) (*domain.Entity, error)
	Update(ctx context.Context, id string, patch domain.Patch) (*domain.Entity, error)
	Mutate(ctx context.Context, id string, fn func(*domain.Entity) (*domain.Entity, error)) (*domain.Entity, error)
	Delete(ctx context.Context, id string) error
}
