package api

import (
	"context"
	"fmt"

	"teebay-client/internal/domain"
	"teebay-client/internal/store"
)

// productFields is the selection set shared by every catalog query.
const productFields = `
        id
        title
        description
        categories
        sellingPrice
        rent
        typeOfRent
        availabilityStatus
        createdAt
        rentStartTime
        rentEndTime`

const pageQueryTemplate = `
  query ($page: Int!, $size: Int!) {
    %s(page: $page, size: $size) {
      totalPages
      totalElements
      currentPage
      products {` + productFields + `
      }
    }
  }
`

// rootField maps a feed scope to the server's query name for it.
var rootField = map[store.Scope]string{
	store.ScopeAll:      "allProductsPaginated",
	store.ScopeMine:     "productsByUserPaginated",
	store.ScopeBought:   "boughtProductsPaginated",
	store.ScopeSold:     "soldProductsPaginated",
	store.ScopeBorrowed: "borrowedProductsPaginated",
	store.ScopeLent:     "lentProductsPaginated",
}

type pageDTO struct {
	TotalPages    int              `json:"totalPages"`
	TotalElements int              `json:"totalElements"`
	CurrentPage   int              `json:"currentPage"`
	Products      []domain.Product `json:"products"`
}

// FetchPage retrieves one page of the scoped catalog feed. It implements
// store.PageQuerier.
func (c *Client) FetchPage(ctx context.Context, page, size int, scope store.Scope) (store.PageResult, error) {
	field, ok := rootField[scope]
	if !ok {
		return store.PageResult{}, fmt.Errorf("api: unknown catalog scope %q", scope)
	}

	var data map[string]pageDTO
	err := c.do(ctx, fmt.Sprintf(pageQueryTemplate, field), map[string]any{
		"page": page,
		"size": size,
	}, &data)
	if err != nil {
		return store.PageResult{}, err
	}

	dto := data[field]
	return store.PageResult{
		Items:         dto.Products,
		TotalPages:    dto.TotalPages,
		TotalElements: dto.TotalElements,
		CurrentPage:   dto.CurrentPage,
	}, nil
}

const productByIDQuery = `
  query ($productId: ID!) {
    productById(productId: $productId) {` + productFields + `
    }
  }
`

// ProductByID fetches one listing, used by the edit form and to refresh a
// detail view after a booking.
func (c *Client) ProductByID(ctx context.Context, productID int64) (*domain.Product, error) {
	var data struct {
		ProductByID *domain.Product `json:"productById"`
	}
	if err := c.do(ctx, productByIDQuery, map[string]any{"productId": productID}, &data); err != nil {
		return nil, err
	}
	if data.ProductByID == nil {
		return nil, fmt.Errorf("api: product %d not found", productID)
	}
	return data.ProductByID, nil
}
