package store

import (
	"context"

	"teebay-client/internal/domain"
)

// Scope selects which logical catalog feed a store is bound to. Each
// listing screen owns one store with one fixed scope.
type Scope string

const (
	ScopeAll      Scope = "all"      // every listing on the marketplace
	ScopeMine     Scope = "mine"     // listings owned by the signed-in user
	ScopeBought   Scope = "bought"   // activity tabs
	ScopeSold     Scope = "sold"
	ScopeBorrowed Scope = "borrowed"
	ScopeLent     Scope = "lent"
)

// PageResult is one fetched page of a catalog feed. Order of Items is
// server-assigned and preserved as-is.
type PageResult struct {
	Items         []domain.Product
	TotalPages    int
	TotalElements int
	CurrentPage   int
}

// PageQuerier is the remote catalog-query collaborator.
type PageQuerier interface {
	FetchPage(ctx context.Context, page, size int, scope Scope) (PageResult, error)
}

// ProductDeleter is the slice of the product-mutation collaborator the
// coordinator needs for optimistic deletes.
type ProductDeleter interface {
	DeleteProduct(ctx context.Context, productID int64) (domain.MutationStatus, error)
}
