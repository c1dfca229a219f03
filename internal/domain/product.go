package domain

// TypeOfRent is the rental granularity a product is offered at.
// A product with no TypeOfRent is not for rent at all.
type TypeOfRent string

const (
	RentPerHour TypeOfRent = "PER_HOUR"
	RentPerDay  TypeOfRent = "PER_DAY"
)

// AvailabilityStatus is server-owned; the client only displays it.
type AvailabilityStatus string

const (
	StatusAvailable AvailabilityStatus = "AVAILABLE"
	StatusSold      AvailabilityStatus = "SOLD"
	StatusRented    AvailabilityStatus = "RENTED"
)

// Product represents a marketplace listing as returned by the catalog service.
// The json tags correspond to the GraphQL field names in API responses.
// The entity is read-only from this client's perspective and never carries
// client-side UI state (see store.PageStore for the expanded-description flags).
type Product struct {
	ID                 int64              `json:"id"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	Categories         []string           `json:"categories"`
	SellingPrice       float64            `json:"sellingPrice"`
	Rent               *float64           `json:"rent,omitempty"`       // Pointer for nullable fields; nil means not for rent
	TypeOfRent         *TypeOfRent        `json:"typeOfRent,omitempty"` // Present exactly when Rent is present
	AvailabilityStatus AvailabilityStatus `json:"availabilityStatus"`
	RentStartTime      *string            `json:"rentStartTime,omitempty"` // Set only while the product is (or was last) booked
	RentEndTime        *string            `json:"rentEndTime,omitempty"`
	CreatedAt          string             `json:"createdAt"` // Display-only, server-formatted
}

// ForRent reports whether the product can be booked at all.
// Rent and TypeOfRent are both present or both absent on a well-formed
// listing, so checking both guards against malformed server data too.
func (p *Product) ForRent() bool {
	return p.Rent != nil && p.TypeOfRent != nil
}

// ForSale reports whether the product has a selling price.
func (p *Product) ForSale() bool {
	return p.SellingPrice > 0
}
