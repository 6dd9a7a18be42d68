package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/transport"
	"github.com/Skotchmaster/techstore/internal/util"
	"github.com/Skotchmaster/techstore/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func floatParam(c echo.Context, name string) *float64 {
	if v, ok := util.ParseFloat(c.QueryParam(name)); ok {
		return &v
	}
	return nil
}

func page(c echo.Context) (int, int, int) {
	p := util.ParseIntDefault(c.QueryParam("page"), 1)
	if p < 1 {
		p = 1
	}
	offset, limit := util.Calculate(p, util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize))
	return p, offset, limit
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	f := repo.ProductFilter{
		Category:  c.QueryParam("category"),
		Brand:     c.QueryParam("brand"),
		MinPrice:  floatParam(c, "min_price"),
		MaxPrice:  floatParam(c, "max_price"),
		MinRating: floatParam(c, "min_rating"),
		Search:    c.QueryParam("search"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}
	p, offset, limit := page(c)

	total, items, err := h.Svc.List(ctx, f, offset, limit)
	if err != nil {
		return fail(l, "get_products", err)
	}

	l.Info("get_products_success")
	return c.JSON(http.StatusOK, map[string]any{"data": items, "meta": util.Meta(p, limit, total)})
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	p, offset, limit := page(c)
	total, items, err := h.Svc.Search(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_products", err)
	}

	l.Info("search_products_success")
	return c.JSON(http.StatusOK, map[string]any{"data": items, "meta": util.Meta(p, limit, total)})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := paramID(c)
	if err != nil {
		return badRequest(l, "get_product", "id is not a uuid", err)
	}
	product, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_product", err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "product_create", "invalid body", err)
	}
	product, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "product_create", err)
	}

	l.Info("product_create_success", "product_id", product.ID.String())
	return c.JSON(http.StatusCreated, product)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	id, err := paramID(c)
	if err != nil {
		return badRequest(l, "product_patch", "id is not a uuid", err)
	}
	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "product_patch", "invalid body", err)
	}
	product, err := h.Svc.Patch(ctx, id, req)
	if err != nil {
		return fail(l, "product_patch", err)
	}

	l.Info("product_patch_success", "product_id", id.String())
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := paramID(c)
	if err != nil {
		return badRequest(l, "product_delete", "id is not a uuid", err)
	}
	if _, err := h.Svc.Deactivate(ctx, id); err != nil {
		return fail(l, "product_delete", err)
	}

	l.Info("product_delete_success", "product_id", id.String())
	return c.JSON(http.StatusOK, echo.Map{"message": "product deactivated"})
}

func (h *CatalogHTTP) Categories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.categories")

	out, err := h.Svc.Categories(ctx)
	if err != nil {
		return fail(l, "categories", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

func (h *CatalogHTTP) Brands(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.brands")

	out, err := h.Svc.Brands(ctx)
	if err != nil {
		return fail(l, "brands", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}
