package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"product-catalog/internal/catalog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const maxPageSize = 100

type Repository interface {
	Get(ctx context.Context, id int64) (catalog.Product, error)
	Upsert(ctx context.Context, p catalog.Product) (catalog.Product, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Scan(ctx context.Context, pageIndex, pageSize int, sortField, sortDirection string) ([]catalog.Product, int64, error)
}

type Cache interface {
	Get(id int64) (catalog.Product, bool)
	Put(p catalog.Product)
	Evict(id int64)
}

type Publisher interface {
	Publish(ctx context.Context, event catalog.ProductEvent) error
}

// ProductInput carries the caller-supplied fields of a product. The
// store assigns ids; any id in the input is ignored.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
}

type Metrics struct {
	Created     prometheus.Counter
	Updated     prometheus.Counter
	Deleted     prometheus.Counter
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

type Service struct {
	repo      Repository
	cache     Cache
	publisher Publisher
	logger    *slog.Logger
	metrics   Metrics
}

func New(repo Repository, cache Cache, publisher Publisher, logger *slog.Logger, metrics Metrics) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// ListProducts returns one page of products plus the total record
// count. Pagination arguments are validated up front; nothing reaches
// the store on bad input. Listings bypass the cache entirely, only
// point reads are cached.
func (s *Service) ListProducts(ctx context.Context, pageIndex, pageSize int, sortField, sortDirection string) ([]catalog.Product, int64, error) {
	if pageIndex < 0 {
		return nil, 0, catalog.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return nil, 0, catalog.ErrInvalidPageSize
	}
	switch sortField {
	case catalog.SortByID, catalog.SortByName, catalog.SortByPrice:
	default:
		return nil, 0, catalog.ErrInvalidSortField
	}
	switch sortDirection {
	case catalog.SortAsc, catalog.SortDesc:
	default:
		return nil, 0, catalog.ErrInvalidSortDirection
	}

	items, total, err := s.repo.Scan(ctx, pageIndex, pageSize, sortField, sortDirection)
	if err != nil {
		return nil, 0, fmt.Errorf("repo scan: %w", err)
	}

	return items, total, nil
}

// GetProduct is a cache-aside read: cache hit short-circuits the store,
// a miss reads the store and fills the cache. This is the only path
// that populates the cache.
func (s *Service) GetProduct(ctx context.Context, id int64) (catalog.Product, error) {
	if product, ok := s.cache.Get(id); ok {
		s.metrics.CacheHits.Inc()
		return product, nil
	}
	s.metrics.CacheMisses.Inc()

	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("repo get: %w", err)
	}

	s.cache.Put(product)
	return product, nil
}

// CreateProduct persists a new record and returns it with its assigned
// id. The cache is left alone; the first read fills it lazily.
func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (catalog.Product, error) {
	product, err := s.repo.Upsert(ctx, catalog.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
	})
	if err != nil {
		return catalog.Product{}, fmt.Errorf("repo upsert: %w", err)
	}

	s.publish(ctx, catalog.EventCreated, product)
	s.metrics.Created.Inc()
	return product, nil
}

// UpdateProduct replaces the record's fields in whole. Existence is
// checked against the store, never the cache: a cache entry surviving
// an out-of-band delete must not resurrect the record. The store write
// happens before the cache write, so a read issued after UpdateProduct
// returns can never see the old value.
func (s *Service) UpdateProduct(ctx context.Context, id int64, input ProductInput) (catalog.Product, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("repo get: %w", err)
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.Price = input.Price

	product, err := s.repo.Upsert(ctx, existing)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("repo upsert: %w", err)
	}

	s.cache.Put(product)

	s.publish(ctx, catalog.EventUpdated, product)
	s.metrics.Updated.Inc()
	return product, nil
}

// DeleteProduct removes the record and its cache entry. Deleting an
// absent id succeeds, so retries are always safe. The store delete
// happens before the eviction: evicting first would let a racing read
// re-fill the cache with the doomed value.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("repo exists: %w", err)
	}

	if !exists {
		s.cache.Evict(id)
		return nil
	}

	if _, err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("repo delete: %w", err)
	}

	s.cache.Evict(id)

	s.publish(ctx, catalog.EventDeleted, catalog.Product{ID: id})
	s.metrics.Deleted.Inc()
	return nil
}

func (s *Service) publish(ctx context.Context, eventType string, product catalog.Product) {
	err := s.publisher.Publish(ctx, catalog.ProductEvent{
		EventType: eventType,
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("publish event failed",
			"event_type", eventType,
			"product_id", product.ID,
			"error", err,
		)
	}
}
