package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"product-catalog/internal/catalog"
	"product-catalog/internal/catalog/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type stubService struct {
	createFn func(ctx context.Context, input service.ProductInput) (catalog.Product, error)
	getFn    func(ctx context.Context, id int64) (catalog.Product, error)
	updateFn func(ctx context.Context, id int64, input service.ProductInput) (catalog.Product, error)
	deleteFn func(ctx context.Context, id int64) error
	listFn   func(ctx context.Context, pageIndex, pageSize int, sortField, sortDirection string) ([]catalog.Product, int64, error)
}

func (s *stubService) CreateProduct(ctx context.Context, input service.ProductInput) (catalog.Product, error) {
	return s.createFn(ctx, input)
}
func (s *stubService) GetProduct(ctx context.Context, id int64) (catalog.Product, error) {
	return s.getFn(ctx, id)
}
func (s *stubService) UpdateProduct(ctx context.Context, id int64, input service.ProductInput) (catalog.Product, error) {
	return s.updateFn(ctx, id, input)
}
func (s *stubService) DeleteProduct(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}
func (s *stubService) ListProducts(ctx context.Context, pageIndex, pageSize int, sortField, sortDirection string) ([]catalog.Product, int64, error) {
	return s.listFn(ctx, pageIndex, pageSize, sortField, sortDirection)
}

func setupRouter(svc CatalogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc)
	r.POST("/products", h.CreateProduct)
	r.GET("/products", h.ListProducts)
	r.GET("/products/:id", h.GetProduct)
	r.PUT("/products/:id", h.UpdateProduct)
	r.DELETE("/products/:id", h.DeleteProduct)
	return r
}

func sampleProduct() catalog.Product {
	return catalog.Product{
		ID:          1,
		Name:        "Widget",
		Description: "A very fine widget",
		Price:       decimal.RequireFromString("9.99"),
	}
}

func TestHandler_CreateProduct(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
	}{
		{
			name:       "success",
			body:       `{"name":"Widget","description":"A very fine widget","price":"9.99"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "numeric price also binds",
			body:       `{"name":"Widget","price":9.99}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "empty body",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "name too short",
			body:       `{"name":"ab","price":"9.99"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero price",
			body:       `{"name":"Widget","price":"0"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative price",
			body:       `{"name":"Widget","price":"-1.00"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid json",
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "service failure",
			body:       `{"name":"Widget","price":"9.99"}`,
			svcErr:     context.DeadlineExceeded,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{
				createFn: func(_ context.Context, input service.ProductInput) (catalog.Product, error) {
					if tt.svcErr != nil {
						return catalog.Product{}, tt.svcErr
					}
					return catalog.Product{
						ID:          1,
						Name:        input.Name,
						Description: input.Description,
						Price:       input.Price,
					}, nil
				},
			}
			router := setupRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("want status %d, got %d (%s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus == http.StatusCreated {
				var got catalog.Product
				if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if got.ID != 1 {
					t.Fatalf("want id 1 in response, got %d", got.ID)
				}
			}
		})
	}
}

func TestHandler_GetProduct(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		svcErr     error
		wantStatus int
	}{
		{name: "success", path: "/products/1", wantStatus: http.StatusOK},
		{name: "not found", path: "/products/999", svcErr: catalog.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "bad id", path: "/products/abc", wantStatus: http.StatusBadRequest},
		{name: "store failure", path: "/products/1", svcErr: context.DeadlineExceeded, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{
				getFn: func(_ context.Context, _ int64) (catalog.Product, error) {
					if tt.svcErr != nil {
						return catalog.Product{}, tt.svcErr
					}
					return sampleProduct(), nil
				},
			}
			router := setupRouter(svc)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("want status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestHandler_UpdateProduct(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		svcErr     error
		wantStatus int
	}{
		{
			name:       "success",
			path:       "/products/1",
			body:       `{"name":"Widget","price":"12.50"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "not found",
			path:       "/products/999",
			body:       `{"name":"Widget","price":"12.50"}`,
			svcErr:     catalog.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "bad id",
			path:       "/products/abc",
			body:       `{"name":"Widget","price":"12.50"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid body",
			path:       "/products/1",
			body:       `{"price":"12.50"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{
				updateFn: func(_ context.Context, id int64, input service.ProductInput) (catalog.Product, error) {
					if tt.svcErr != nil {
						return catalog.Product{}, tt.svcErr
					}
					return catalog.Product{ID: id, Name: input.Name, Price: input.Price}, nil
				},
			}
			router := setupRouter(svc)

			req := httptest.NewRequest(http.MethodPut, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("want status %d, got %d (%s)", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestHandler_DeleteProduct(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		svcErr     error
		wantStatus int
	}{
		{name: "success", path: "/products/1", wantStatus: http.StatusNoContent},
		{name: "absent id still succeeds", path: "/products/999", wantStatus: http.StatusNoContent},
		{name: "bad id", path: "/products/abc", wantStatus: http.StatusBadRequest},
		{name: "store failure", path: "/products/1", svcErr: context.DeadlineExceeded, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{
				deleteFn: func(_ context.Context, _ int64) error {
					return tt.svcErr
				},
			}
			router := setupRouter(svc)

			req := httptest.NewRequest(http.MethodDelete, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("want status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestHandler_ListProducts(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		svcErr     error
		wantStatus int
		wantPage   int
		wantSize   int
		wantSort   string
		wantOrder  string
	}{
		{
			name:       "defaults",
			query:      "",
			wantStatus: http.StatusOK,
			wantPage:   0,
			wantSize:   10,
			wantSort:   catalog.SortByID,
			wantOrder:  catalog.SortAsc,
		},
		{
			name:       "explicit paging and sort",
			query:      "?page=2&size=5&sort=price&order=desc",
			wantStatus: http.StatusOK,
			wantPage:   2,
			wantSize:   5,
			wantSort:   catalog.SortByPrice,
			wantOrder:  catalog.SortDesc,
		},
		{
			name:       "invalid sort field maps to 400",
			query:      "?sort=nonexistentField",
			svcErr:     catalog.ErrInvalidSortField,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid page size maps to 400",
			query:      "?size=500",
			svcErr:     catalog.ErrInvalidPageSize,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store failure maps to 500",
			query:      "",
			svcErr:     context.DeadlineExceeded,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{
				listFn: func(_ context.Context, pageIndex, pageSize int, sortField, sortDirection string) ([]catalog.Product, int64, error) {
					if tt.svcErr != nil {
						return nil, 0, tt.svcErr
					}
					if pageIndex != tt.wantPage || pageSize != tt.wantSize {
						t.Fatalf("want (%d, %d), got (%d, %d)", tt.wantPage, tt.wantSize, pageIndex, pageSize)
					}
					if sortField != tt.wantSort || sortDirection != tt.wantOrder {
						t.Fatalf("want (%q, %q), got (%q, %q)", tt.wantSort, tt.wantOrder, sortField, sortDirection)
					}
					return []catalog.Product{sampleProduct()}, 1, nil
				},
			}
			router := setupRouter(svc)

			req := httptest.NewRequest(http.MethodGet, "/products"+tt.query, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("want status %d, got %d (%s)", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				var resp listProductsResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.Pagination.Total != 1 || len(resp.Items) != 1 {
					t.Fatalf("unexpected list response: %+v", resp)
				}
			}
		})
	}
}
