package api

import (
	"context"
	"fmt"

	"teebay-client/internal/domain"
)

// ProductFields carries the user-entered fields of a create or edit
// mutation. Validation runs client-side before dispatch; the server
// re-validates. Rent and TypeOfRent must be both present or both absent.
type ProductFields struct {
	Title        string             `json:"title" validate:"required,max=255"`
	Description  string             `json:"description" validate:"required"`
	Categories   []string           `json:"categoriesList" validate:"required,min=1,dive,required"`
	SellingPrice float64            `json:"sellingPrice" validate:"gte=0"`
	Rent         *float64           `json:"rent" validate:"omitempty,gte=0,required_with=TypeOfRent"`
	TypeOfRent   *domain.TypeOfRent `json:"typeOfRent" validate:"omitempty,oneof=PER_HOUR PER_DAY,required_with=Rent"`
}

const statusFields = `{ statusCode statusMessage }`

const bookForRentMutation = `
  mutation ($productId: ID!, $rentStart: String!, $rentEnd: String!, $noOfHours: Int!) {
    bookForRent(productId: $productId, rentStart: $rentStart, rentEnd: $rentEnd, noOfHours: $noOfHours) ` + statusFields + `
  }
`

// SubmitBooking issues the booking mutation with wire-format timestamps.
// It implements booking.Submitter. A non-success status is returned as
// data, not as an error; the resolver decides how to surface it.
func (c *Client) SubmitBooking(ctx context.Context, productID int64, start, end string, durationHours int) (domain.MutationStatus, error) {
	var data struct {
		BookForRent domain.MutationStatus `json:"bookForRent"`
	}
	err := c.do(ctx, bookForRentMutation, map[string]any{
		"productId": productID,
		"rentStart": start,
		"rentEnd":   end,
		"noOfHours": durationHours,
	}, &data)
	if err != nil {
		return domain.MutationStatus{}, err
	}
	return data.BookForRent, nil
}

const buyProductMutation = `
  mutation ($productId: ID!, $status: String!) {
    buyProduct(productId: $productId, status: $status) ` + statusFields + `
  }
`

// BuyProduct purchases a listing outright.
func (c *Client) BuyProduct(ctx context.Context, productID int64) (domain.MutationStatus, error) {
	var data struct {
		BuyProduct domain.MutationStatus `json:"buyProduct"`
	}
	err := c.do(ctx, buyProductMutation, map[string]any{
		"productId": productID,
		"status":    string(domain.StatusSold),
	}, &data)
	if err != nil {
		return domain.MutationStatus{}, err
	}
	return data.BuyProduct, nil
}

const addProductMutation = `
  mutation ($input: AddProductRequest!) {
    addProduct(addProductRequest: $input) ` + statusFields + `
  }
`

// CreateProduct validates the fields and issues the create mutation.
func (c *Client) CreateProduct(ctx context.Context, fields ProductFields) (domain.MutationStatus, error) {
	if err := c.validate.Struct(fields); err != nil {
		return domain.MutationStatus{}, fmt.Errorf("api: invalid product fields: %w", err)
	}
	var data struct {
		AddProduct domain.MutationStatus `json:"addProduct"`
	}
	err := c.do(ctx, addProductMutation, map[string]any{"input": fields}, &data)
	if err != nil {
		return domain.MutationStatus{}, err
	}
	return data.AddProduct, nil
}

const editProductMutation = `
  mutation ($productId: ID!, $input: AddProductRequest!) {
    editProduct(productId: $productId, editRequest: $input) ` + statusFields + `
  }
`

// EditProduct validates the fields and issues the edit mutation.
func (c *Client) EditProduct(ctx context.Context, productID int64, fields ProductFields) (domain.MutationStatus, error) {
	if err := c.validate.Struct(fields); err != nil {
		return domain.MutationStatus{}, fmt.Errorf("api: invalid product fields: %w", err)
	}
	var data struct {
		EditProduct domain.MutationStatus `json:"editProduct"`
	}
	err := c.do(ctx, editProductMutation, map[string]any{
		"productId": productID,
		"input":     fields,
	}, &data)
	if err != nil {
		return domain.MutationStatus{}, err
	}
	return data.EditProduct, nil
}

const deleteProductMutation = `
  mutation ($productId: ID!) {
    deleteProduct(productId: $productId) ` + statusFields + `
  }
`

// DeleteProduct issues the delete mutation. It implements
// store.ProductDeleter.
func (c *Client) DeleteProduct(ctx context.Context, productID int64) (domain.MutationStatus, error) {
	var data struct {
		DeleteProduct domain.MutationStatus `json:"deleteProduct"`
	}
	err := c.do(ctx, deleteProductMutation, map[string]any{"productId": productID}, &data)
	if err != nil {
		return domain.MutationStatus{}, err
	}
	return data.DeleteProduct, nil
}
