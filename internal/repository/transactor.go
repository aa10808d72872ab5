package repository

import "context"

// Repositories groups the repositories bound to one unit of work.
type Repositories struct {
	Products ProductRepository
	Carts    CartRepository
	Orders   OrderRepository
	Users    UserRepository
}

// Transactor runs fn inside a single database transaction. If fn returns an
// error every write made through the given repositories is rolled back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(r Repositories) error) error
}
