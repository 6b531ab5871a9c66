package catalog

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound             = errors.New("product not found")
	ErrInvalidPage          = errors.New("page index must be zero or greater")
	ErrInvalidPageSize      = errors.New("page size must be between 1 and 100")
	ErrInvalidSortField     = errors.New("unknown sort field")
	ErrInvalidSortDirection = errors.New("sort direction must be asc or desc")
)

const (
	EventsQueue  = "catalog.events"
	EventCreated = "product_created"
	EventUpdated = "product_updated"
	EventDeleted = "product_deleted"
)

// Sort fields accepted by List. Anything else is rejected before the
// store is touched.
const (
	SortByID    = "id"
	SortByName  = "name"
	SortByPrice = "price"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

type Product struct {
	ID          int64           `json:"id" example:"1"`
	Name        string          `json:"name" example:"Widget"`
	Description string          `json:"description" example:"A very fine widget"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"9.99"`
}

type ProductEvent struct {
	EventType string          `json:"event_type"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}
