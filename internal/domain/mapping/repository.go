package mapping

import "context"

type Repository interface {
	List(ctx context.Context) ([]Mapping, error)
	Create(ctx context.Context, m Mapping) (Mapping, error)
	Delete(ctx context.Context, id string) error
}
