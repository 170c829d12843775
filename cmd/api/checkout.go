package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/SameerRifat/e-commerce-sub001/internal/domain/orders"
	"github.com/SameerRifat/e-commerce-sub001/internal/domain/storage"
)

type CheckoutRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	Name       string  `json:"name" validate:"required,min=2,max=255"`
	Phone      string  `json:"phone" validate:"required,min=6,max=32"`
	Address    string  `json:"address" validate:"required,min=5"`
	City       string  `json:"city" validate:"required,max=100"`
	PostalCode *string `json:"postal_code" validate:"omitempty,max=20"`
	Country    *string `json:"country" validate:"omitempty,max=100"`
}

// checkoutHandler godoc
//
//	@Summary		Checkout
//	@Description	Turns the guest cart into an order, pricing each line at its current effective price and reserving stock.
//	@Tags			Store-Checkout
//	@Accept			json
//	@Produce		json
//	@Param			X-Cart-Token	header		string			true	"Guest cart token"
//	@Param			body			body		CheckoutRequest	true	"Contact and shipping"
//	@Success		201				{object}	envelope{data=orders.Order}
//	@Failure		400				{object}	error
//	@Failure		404				{object}	error
//	@Failure		409				{object}	error
//	@Router			/store/checkout [post]
func (app *application) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var in CheckoutRequest
	if err := readJSON(w, r, &in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	token := cartToken(r)
	ship := orders.ShippingInfo{
		Email:      in.Email,
		Name:       in.Name,
		Phone:      in.Phone,
		Address:    in.Address,
		City:       in.City,
		PostalCode: in.PostalCode,
		Country:    in.Country,
	}

	var order *orders.Order
	err := app.store.WithSalesTx(ctx, func(s *storage.SalesTx) error {
		var err error
		order, err = s.Orders.CreateFromCart(ctx, token, ship)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrNoActiveCart):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, orders.ErrEmptyCart):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, orders.ErrInsufficientStock), errors.Is(err, orders.ErrUnpricedLine):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logger.Infow("order placed", "order_number", order.OrderNumber, "total", order.Total.String())
	app.jsonResponse(w, http.StatusCreated, order)
}
