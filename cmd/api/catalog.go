package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SameerRifat/e-commerce-sub001/internal/domain/catalog"
	"github.com/SameerRifat/e-commerce-sub001/internal/domain/products"
	"github.com/SameerRifat/e-commerce-sub001/internal/domain/variants"
	"github.com/SameerRifat/e-commerce-sub001/internal/params"
	"github.com/go-chi/chi/v5"
)

type ProductListResponse struct {
	Products   []catalog.ProductSummary `json:"products"`
	TotalCount int                      `json:"total_count"`
	Pagination params.Pagination        `json:"pagination"`
	Filters    catalog.Filters          `json:"filters"`
}

type ProductDetailResponse struct {
	*products.ProductDetail
	DiscountPercentage *int                `json:"discount_percentage,omitempty"`
	Selection          *variants.Selection `json:"selection,omitempty"`
}

// parseIDParam reads a positive int64 URL parameter.
func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// parseOptionalID reads an optional positive int64 query value; empty means nil.
func parseOptionalID(q url.Values, key string) (*int64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &id, nil
}

// listProductsHandler godoc
//
//	@Summary		List storefront products
//	@Description	Filtered, sorted, paginated product grid. Unknown or malformed filter values are ignored, never rejected.
//	@Tags			Store-Products
//	@Produce		json
//	@Param			search		query		string	false	"Name/description search"
//	@Param			gender		query		string	false	"Comma separated gender slugs"
//	@Param			brand		query		string	false	"Comma separated brand slugs"
//	@Param			category	query		string	false	"Comma separated category slugs"
//	@Param			size		query		string	false	"Comma separated size slugs"
//	@Param			color		query		string	false	"Comma separated color slugs"
//	@Param			priceMin	query		number	false	"Minimum effective price"
//	@Param			priceMax	query		number	false	"Maximum effective price"
//	@Param			priceRanges	query		string	false	"Comma separated min-max buckets, e.g. 0-50,100-"
//	@Param			sort		query		string	false	"newest|price_asc|price_desc"
//	@Param			page		query		int		false	"Page number (default: 1)"
//	@Param			limit		query		int		false	"Items per page (default: 24, max: 60)"
//	@Success		200			{object}	envelope{data=ProductListResponse}
//	@Failure		500			{object}	error
//	@Router			/store/products [get]
func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	f := catalog.ParseFilters(r.URL.Query()).Normalize()

	page, err := app.store.Catalog.GetProducts(ctx, f)
	if err != nil {
		app.catalogLoadError(w, r, err)
		return
	}

	p := params.New(f.Page, f.Limit, params.CatalogBounds)
	p.ComputeMeta(page.TotalCount)

	app.jsonResponse(w, http.StatusOK, ProductListResponse{
		Products:   page.Products,
		TotalCount: page.TotalCount,
		Pagination: p,
		Filters:    f,
	})
}

// GET /v1/store/products/filters
func (app *application) filterOptionsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts, err := app.store.Catalog.FilterOptions(ctx)
	if err != nil {
		app.catalogLoadError(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, opts)
}

// getProductHandler godoc
//
//	@Summary		Get product detail
//	@Description	Product with variants, ordered images, per-color galleries, review summary and the initial variant selection.
//	@Tags			Store-Products
//	@Produce		json
//	@Param			productID	path		int64	true	"Product ID"
//	@Success		200			{object}	envelope{data=ProductDetailResponse}
//	@Failure		400			{object}	error
//	@Failure		404			{object}	error
//	@Failure		500			{object}	error
//	@Router			/store/products/{productID} [get]
func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID, err := parseIDParam(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	detail, err := app.store.Products.GetProductDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, products.ErrProductNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	resp := ProductDetailResponse{ProductDetail: detail}
	if detail.Product.IsSimple() {
		if detail.Product.Price != nil {
			resp.DiscountPercentage = variants.DiscountPercentage(*detail.Product.Price, detail.Product.SalePrice)
		}
	} else {
		sel := variants.Replay(detail.Variants, detail.Galleries, nil, nil, "")
		resp.Selection = &sel
	}

	app.jsonResponse(w, http.StatusOK, resp)
}

// resolveSelectionHandler godoc
//
//	@Summary		Resolve a variant selection
//	@Description	Applies a color or size change to the current selection and returns the repaired selection, the matching variant and the gallery to show.
//	@Tags			Store-Products
//	@Produce		json
//	@Param			productID	path		int64	true	"Product ID"
//	@Param			color_id	query		int64	false	"Currently selected color"
//	@Param			size_id		query		int64	false	"Currently selected size"
//	@Param			changed		query		string	false	"color|size: the axis the shopper just changed"
//	@Success		200			{object}	envelope{data=variants.Selection}
//	@Failure		400			{object}	error
//	@Failure		404			{object}	error
//	@Router			/store/products/{productID}/selection [get]
func (app *application) resolveSelectionHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID, err := parseIDParam(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	q := r.URL.Query()
	colorID, err := parseOptionalID(q, "color_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	sizeID, err := parseOptionalID(q, "size_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	changedRaw := strings.TrimSpace(q.Get("changed"))
	changed := variants.ParseAxis(changedRaw)
	if changedRaw != "" && changed == "" {
		app.badRequestResponse(w, r, fmt.Errorf("changed must be color or size"))
		return
	}

	detail, err := app.store.Products.GetProductDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, products.ErrProductNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, variants.Replay(detail.Variants, detail.Galleries, colorID, sizeID, changed))
}

// GET /v1/store/products/{productID}/reviews?page=1&limit=15
func (app *application) listReviewsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID, err := parseIDParam(r, "productID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	p := params.ParsePagination(r.URL.Query())

	reviews, total, err := app.store.Products.ListReviews(ctx, productID, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	summary, err := app.store.Products.GetReviewSummary(ctx, productID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	p.ComputeMeta(total)

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"reviews":    reviews,
		"summary":    summary,
		"pagination": p,
	})
}
