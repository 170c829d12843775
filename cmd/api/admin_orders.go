package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SameerRifat/e-commerce-sub001/internal/domain/orders"
	"github.com/SameerRifat/e-commerce-sub001/internal/params"
)

// AdminOrderListResponse is the payload inside your standard envelope { "data": ... }.
type AdminOrderListResponse struct {
	Orders     []orders.Order    `json:"orders"`
	Pagination params.Pagination `json:"pagination"`
	Status     string            `json:"status"` // applied filter (echoed back)
}

// AdminOrderDetailResponse is the payload inside { "data": ... }.
type AdminOrderDetailResponse = orders.OrderDetail

// AdminUpdateOrderStatusRequest is PATCH body.
type AdminUpdateOrderStatusRequest struct {
	Status          string  `json:"status" validate:"required" example:"shipped"`
	CancelledReason *string `json:"cancelled_reason,omitempty" validate:"omitempty,max=500" example:"Customer requested"`
}

// AdminBulkUpdateOrderStatusRequest moves many orders at once.
type AdminBulkUpdateOrderStatusRequest struct {
	OrderIDs        []int64 `json:"order_ids" validate:"required,min=1,max=200,dive,gt=0"`
	Status          string  `json:"status" validate:"required" example:"processing"`
	CancelledReason *string `json:"cancelled_reason,omitempty" validate:"omitempty,max=500"`
}

// AdminUpdateOrderStatusResponse is the payload inside { "data": ... }.
type AdminUpdateOrderStatusResponse struct {
	Message string `json:"message" example:"status updated"`
	Status  string `json:"status" example:"shipped"`
}

type envelope struct {
	Data any `json:"data"`
}

// It creates and immediately discards a value of type envelope. since i am getting unused error through staticcheck
var _ = envelope{}

// statusUpdateOpts checks the target status and keeps cancelled_reason for
// cancellations only.
func statusUpdateOpts(status string, reason *string) (orders.Status, orders.UpdateStatusOpts, error) {
	to, err := orders.ParseStatus(status)
	if err != nil {
		return "", orders.UpdateStatusOpts{}, err
	}

	hasReason := reason != nil && strings.TrimSpace(*reason) != ""
	if to != orders.StatusCancelled && hasReason {
		return "", orders.UpdateStatusOpts{}, fmt.Errorf("cancelled_reason is only valid when status='cancelled'")
	}

	var opts orders.UpdateStatusOpts
	if hasReason {
		r := strings.TrimSpace(*reason)
		opts.CancelledReason = &r
	}
	return to, opts, nil
}

// adminListOrdersHandler godoc
//
//	@Summary		List orders (admin)
//	@Description	List all orders for the admin dashboard. Supports optional status filter and pagination.
//	@Tags			Store-Admin-Orders
//	@Produce		json
//	@Param			status	query		string	false	"Filter by status"	Enums(pending,processing,shipped,delivered,cancelled)
//	@Param			page	query		int		false	"Page number (default: 1)"
//	@Param			limit	query		int		false	"Items per page (default: 15, max: 30)"
//	@Success		200		{object}	envelope{data=AdminOrderListResponse}
//	@Failure		400		{object}	error	"Bad Request"
//	@Failure		500		{object}	error	"Internal Server Error"
//	@Router			/store/admin/orders [get]
//	@Security		BasicAuth
func (app *application) adminListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	p := params.ParsePagination(r.URL.Query())

	var status orders.Status
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		st, err := orders.ParseStatus(raw)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		status = st
	}

	ordersList, total, err := app.store.Sales.Orders.ListAll(ctx, status, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	p.ComputeMeta(total)

	app.jsonResponse(w, http.StatusOK, AdminOrderListResponse{
		Orders:     ordersList,
		Pagination: p,
		Status:     string(status),
	})
}

// adminGetOrderHandler godoc
//
//	@Summary		Get order detail (admin)
//	@Description	Get a single order with its line items for the admin dashboard.
//	@Tags			Store-Admin-Orders
//	@Produce		json
//	@Param			orderID	path		int64	true	"Order ID"
//	@Success		200		{object}	envelope{data=AdminOrderDetailResponse}
//	@Failure		400		{object}	error	"Bad Request: invalid orderID"
//	@Failure		404		{object}	error	"Not Found: order not found"
//	@Failure		500		{object}	error	"Internal Server Error"
//	@Router			/store/admin/orders/{orderID} [get]
//	@Security		BasicAuth
func (app *application) adminGetOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	orderID, err := parseIDParam(r, "orderID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	detail, err := app.store.Sales.Orders.GetDetail(ctx, orderID)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, detail)
}

// adminUpdateOrderStatusHandler godoc
//
//	@Summary		Update order status (admin)
//	@Description	Moves an order forward one step, or cancels it while it is still pending or processing.
//	@Tags			Store-Admin-Orders
//	@Accept			json
//	@Produce		json
//	@Param			orderID	path		int64							true	"Order ID"
//	@Param			body	body		AdminUpdateOrderStatusRequest	true	"Status update payload"
//	@Success		200		{object}	envelope{data=AdminUpdateOrderStatusResponse}
//	@Failure		400		{object}	error	"Bad Request: invalid payload/status"
//	@Failure		404		{object}	error	"Not Found: order not found"
//	@Failure		409		{object}	error	"Conflict: transition not allowed"
//	@Failure		500		{object}	error	"Internal Server Error"
//	@Router			/store/admin/orders/{orderID}/status [patch]
//	@Security		BasicAuth
func (app *application) adminUpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	orderID, err := parseIDParam(r, "orderID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var in AdminUpdateOrderStatusRequest
	if err := readJSON(w, r, &in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	to, opts, err := statusUpdateOpts(in.Status, in.CancelledReason)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Sales.Orders.UpdateStatus(ctx, orderID, to, opts); err != nil {
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, orders.ErrInvalidTransition):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	app.logger.Infow("order status updated", "order_id", orderID, "status", to)
	app.jsonResponse(w, http.StatusOK, AdminUpdateOrderStatusResponse{
		Message: "status updated",
		Status:  string(to),
	})
}

// adminBulkUpdateOrderStatusHandler godoc
//
//	@Summary		Bulk update order status (admin)
//	@Description	Applies one status to many orders. Orders that are missing or cannot make the transition are reported as skipped.
//	@Tags			Store-Admin-Orders
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AdminBulkUpdateOrderStatusRequest	true	"Bulk payload"
//	@Success		200		{object}	envelope{data=orders.BulkResult}
//	@Failure		400		{object}	error	"Bad Request"
//	@Failure		500		{object}	error	"Internal Server Error"
//	@Router			/store/admin/orders/status [patch]
//	@Security		BasicAuth
func (app *application) adminBulkUpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var in AdminBulkUpdateOrderStatusRequest
	if err := readJSON(w, r, &in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(in); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	to, opts, err := statusUpdateOpts(in.Status, in.CancelledReason)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	res, err := app.store.Sales.Orders.BulkUpdateStatus(ctx, in.OrderIDs, to, opts)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, res)
}
