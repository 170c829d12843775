package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SameerRifat/e-commerce-sub001/internal/domain/carts"
	"github.com/SameerRifat/e-commerce-sub001/internal/domain/products"
	"github.com/SameerRifat/e-commerce-sub001/internal/domain/variants"
	"github.com/shopspring/decimal"
)

// cartTokenHeader carries the guest cart token both ways.
const cartTokenHeader = "X-Cart-Token"

var (
	errOutOfStock         = errors.New("selected item is out of stock")
	errUnavailableVariant = errors.New("selected combination is not available")
)

type AddCartItemRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	ColorID   *int64 `json:"color_id" validate:"omitempty,gt=0"`
	SizeID    *int64 `json:"size_id" validate:"omitempty,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,gt=0,lte=100"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0,lte=100"`
}

func cartToken(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(cartTokenHeader))
}

// selectionError asks the shopper to choose the axes still missing.
type selectionError struct {
	missing []variants.Axis
}

func (e selectionError) Error() string {
	names := make([]string, len(e.missing))
	for i, a := range e.missing {
		names[i] = string(a)
	}
	return "please select a " + strings.Join(names, " and ")
}

// resolveCartLine turns an add-to-cart request into a priced line. Simple
// products are added as is; configurable products must resolve to exactly
// one in-stock variant for the requested color and size.
func resolveCartLine(p *products.Product, vs []variants.Variant, in AddCartItemRequest) (carts.Line, error) {
	line := carts.Line{ProductID: p.ID, Quantity: in.Quantity}

	if p.IsSimple() {
		if p.Price == nil {
			return carts.Line{}, errUnavailableVariant
		}
		if p.StockQuantity == nil || *p.StockQuantity < in.Quantity {
			return carts.Line{}, errOutOfStock
		}
		line.UnitPrice = variants.EffectivePrice(*p.Price, p.SalePrice)
		return line, nil
	}

	sel := variants.NewSelector(vs, variants.WithInitialSelection(in.ColorID, in.SizeID))
	v := sel.SelectedVariant()
	if v == nil {
		if missing := sel.MissingAxes(); len(missing) > 0 {
			return carts.Line{}, selectionError{missing: missing}
		}
		return carts.Line{}, errUnavailableVariant
	}
	if !v.InStock() || v.StockQuantity < in.Quantity {
		return carts.Line{}, errOutOfStock
	}

	id := v.ID
	line.VariantID = &id
	line.UnitPrice = v.EffectivePrice()
	return line, nil
}

// getCartHandler godoc
//
//	@Summary		Get guest cart
//	@Description	Returns the cart for X-Cart-Token, opening a new cart (and token) when there is none.
//	@Tags			Store-Cart
//	@Produce		json
//	@Param			X-Cart-Token	header		string	false	"Guest cart token"
//	@Success		200				{object}	envelope{data=carts.CartView}
//	@Failure		500				{object}	error
//	@Router			/store/cart [get]
func (app *application) getCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	view, err := app.store.Sales.Carts.GetView(ctx, cartToken(r))
	if errors.Is(err, carts.ErrCartNotFound) {
		cart, cerr := app.store.Sales.Carts.EnsureCart(ctx, "")
		if cerr != nil {
			app.internalServerError(w, r, cerr)
			return
		}
		view, err = &carts.CartView{Cart: *cart, Items: []carts.CartLine{}, Total: decimal.Zero}, nil
	}
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.Header().Set(cartTokenHeader, view.Cart.GuestToken)
	app.jsonResponse(w, http.StatusOK, view)
}

// addCartItemHandler godoc
//
//	@Summary		Add to cart
//	@Description	Resolves color_id/size_id to a variant and adds it. 400 when the selection is incomplete, 409 when out of stock.
//	@Tags			Store-Cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Cart-Token	header		string				false	"Guest cart token"
//	@Param			body			body		AddCartItemRequest	true	"Item"
//	@Success		201				{object}	envelope{data=carts.CartView}
//	@Failure		400				{object}	error
//	@Failure		404				{object}	error
//	@Failure		409				{object}	error
//	@Router			/store/cart/items [post]
func (app *application) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var in AddCartItemRequest
	if err := readJSON(w, r, &in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	product, err := app.store.Products.GetProductByID(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, products.ErrProductNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	var vs []variants.Variant
	if !product.IsSimple() {
		vs, err = app.store.Products.ListVariantsByProduct(ctx, product.ID)
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
	}

	line, err := resolveCartLine(product, vs, in)
	if err != nil {
		var selErr selectionError
		switch {
		case errors.As(err, &selErr), errors.Is(err, errUnavailableVariant):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, errOutOfStock):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	cart, err := app.store.Sales.Carts.EnsureCart(ctx, cartToken(r))
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if err := app.store.Sales.Carts.AddItem(ctx, cart.GuestToken, line); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	view, err := app.store.Sales.Carts.GetView(ctx, cart.GuestToken)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.Header().Set(cartTokenHeader, cart.GuestToken)
	app.jsonResponse(w, http.StatusCreated, view)
}

// PATCH /v1/store/cart/items/{itemID}  {quantity}
func (app *application) updateCartItemQtyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	itemID, err := parseIDParam(r, "itemID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var in UpdateCartItemRequest
	if err := readJSON(w, r, &in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Sales.Carts.UpdateItemQty(ctx, cartToken(r), itemID, in.Quantity); err != nil {
		app.cartErrorResponse(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "updated"})
}

// DELETE /v1/store/cart/items/{itemID}
func (app *application) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	itemID, err := parseIDParam(r, "itemID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Sales.Carts.RemoveItem(ctx, cartToken(r), itemID); err != nil {
		app.cartErrorResponse(w, r, err)
		return
	}
	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "removed"})
}

// DELETE /v1/store/cart
func (app *application) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := app.store.Sales.Carts.Clear(ctx, cartToken(r)); err != nil {
		app.cartErrorResponse(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]string{
		"message": "cart cleared",
	})
}

func (app *application) cartErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, carts.ErrCartNotFound), errors.Is(err, carts.ErrItemNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, carts.ErrInvalidQuantity):
		app.badRequestResponse(w, r, err)
	default:
		app.internalServerError(w, r, fmt.Errorf("cart: %w", err))
	}
}
