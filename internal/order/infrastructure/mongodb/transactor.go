package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	pkgmongo "github.com/marketplace/seller-portal/pkg/mongodb"
)

// Transactor runs application callbacks inside a MongoDB transaction.
// The session context it hands down satisfies context.Context, so
// repository calls made with it join the transaction automatically.
type Transactor struct {
	client *pkgmongo.InstrumentedClient
}

// NewTransactor creates a new Transactor
func NewTransactor(client *pkgmongo.InstrumentedClient) *Transactor {
	return &Transactor{client: client}
}

// WithinTransaction executes fn inside a transaction
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.client.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return fn(sessCtx)
	})
}
