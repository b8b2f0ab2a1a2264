package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/inventory-api/internal/api/metrics"
	"github.com/99minutos/inventory-api/internal/api/middleware"
	"github.com/99minutos/inventory-api/internal/core/domain"
	"github.com/99minutos/inventory-api/internal/core/ports"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /api/products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        category  query     string  false  "Exact category"
// @Param        inStock   query     bool    false  "Availability flag"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Page size (default 10, max 100)"
// @Success      200       {object}  successResponse{data=[]domain.Product}
// @Failure      500       {object}  ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), ports.ListProductsInput{
		Category: c.QueryParam("category"),
		InStock:  queryBool(c, "inStock"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", ports.DefaultPageLimit),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paged(page))
}

// Get handles GET /api/products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  successResponse{data=domain.Product}
// @Failure      404  {object}  ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success(p))
}

// Create handles POST /api/products. Admin only.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product"
// @Success      201   {object}  successResponse{data=domain.Product}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req createProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), req.toInput(), actor)
	if err != nil {
		return err
	}
	metrics.ProductMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, success(p))
}

// Update handles PUT /api/products/:id. Only the fields present are changed.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Product id"
// @Param        body  body      updateProductRequest  true  "Fields to change"
// @Success      200   {object}  successResponse{data=domain.Product}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req updateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toPatch(), actor)
	if err != nil {
		return err
	}
	metrics.ProductMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, success(p))
}

// Delete handles DELETE /api/products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id   path  string  true  "Product id"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), actor); err != nil {
		return err
	}
	metrics.ProductMutationsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
