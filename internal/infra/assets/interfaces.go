package assets

import "context"

type StoreInterface interface {
	Save(ctx context.Context, kind string, up *Upload) (string, error)
	Delete(ctx context.Context, kind, name string) error
}

var _ StoreInterface = (*LocalStore)(nil)
