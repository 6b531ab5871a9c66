package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"product-catalog/internal/catalog"
	"product-catalog/internal/catalog/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	defaultPage = 0
	defaultSize = 10
)

type CatalogService interface {
	CreateProduct(ctx context.Context, input service.ProductInput) (catalog.Product, error)
	GetProduct(ctx context.Context, id int64) (catalog.Product, error)
	UpdateProduct(ctx context.Context, id int64, input service.ProductInput) (catalog.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, pageIndex, pageSize int, sortField, sortDirection string) ([]catalog.Product, int64, error)
}

type Handler struct {
	service CatalogService
}

func NewHandler(svc CatalogService) *Handler {
	return &Handler{service: svc}
}

type productRequest struct {
	Name        string          `json:"name" binding:"required,min=3,max=100" example:"Widget"`
	Description string          `json:"description" binding:"max=500" example:"A very fine widget"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"9.99"`
}

type errorResponse struct {
	Error string `json:"error" example:"product not found"`
}

type listProductsResponse struct {
	Items      []catalog.Product `json:"items"`
	Pagination paginationMeta    `json:"pagination"`
}

type paginationMeta struct {
	Page  int   `json:"page" example:"0"`
	Size  int   `json:"size" example:"10"`
	Total int64 `json:"total" example:"42"`
}

// CreateProduct godoc
// @Summary      Create a new product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body      productRequest  true  "Product data"
// @Success      201   {object}  catalog.Product
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /products [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	input, ok := bindProductInput(c)
	if !ok {
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProduct godoc
// @Summary      Get a product by ID
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  catalog.Product
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /products/{id} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Error: catalog.ErrNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to get product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct godoc
// @Summary      Replace a product's fields
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path      int             true  "Product ID"
// @Param        body  body      productRequest  true  "Product data"
// @Success      200   {object}  catalog.Product
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /products/{id} [put]
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	input, ok := bindProductInput(c)
	if !ok {
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), id, input)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Error: catalog.ErrNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to update product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary      Delete a product by ID
// @Description  Idempotent: deleting an absent product still succeeds.
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /products/{id} [delete]
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to delete product"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ListProducts godoc
// @Summary      List products with pagination and sorting
// @Tags         products
// @Produce      json
// @Param        page   query     int     false  "Page index (zero-based)"  default(0)
// @Param        size   query     int     false  "Items per page"           default(10)
// @Param        sort   query     string  false  "Sort field (id, name, price)"  default(id)
// @Param        order  query     string  false  "Sort direction (asc, desc)"    default(asc)
// @Success      200    {object}  listProductsResponse
// @Failure      400    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	page := parseQueryInt(c.Query("page"), defaultPage)
	size := parseQueryInt(c.Query("size"), defaultSize)
	sort := c.DefaultQuery("sort", catalog.SortByID)
	order := c.DefaultQuery("order", catalog.SortAsc)

	items, total, err := h.service.ListProducts(c.Request.Context(), page, size, sort, order)
	if err != nil {
		if isInvalidArgument(err) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to get products"})
		return
	}

	c.JSON(http.StatusOK, listProductsResponse{
		Items: items,
		Pagination: paginationMeta{
			Page:  page,
			Size:  size,
			Total: total,
		},
	})
}

func bindProductInput(c *gin.Context) (service.ProductInput, bool) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return service.ProductInput{}, false
	}
	if !req.Price.IsPositive() {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "price must be greater than zero"})
		return service.ProductInput{}, false
	}

	return service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}, true
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid product id"})
		return 0, false
	}
	return id, true
}

func isInvalidArgument(err error) bool {
	return errors.Is(err, catalog.ErrInvalidPage) ||
		errors.Is(err, catalog.ErrInvalidPageSize) ||
		errors.Is(err, catalog.ErrInvalidSortField) ||
		errors.Is(err, catalog.ErrInvalidSortDirection)
}

func parseQueryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
