package api

import (
	"database/sql"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/retailapi/internal/model"
	"github.com/erazemk/retailapi/internal/store"
)

// OrdersHandler handles order endpoints.
type OrdersHandler struct {
	Validate *validator.Validate
}

type orderItemRequest struct {
	ItemID    *int64   `json:"item_id" validate:"required"`
	Quantity  *int64   `json:"quantity"`
	UnitPrice *float64 `json:"unit_price" validate:"required"`
	Subtotal  *float64 `json:"subtotal" validate:"required"`
}

// createOrderRequest is the body of POST /orders.
type createOrderRequest struct {
	CustomerID  *int64             `json:"customer_id" validate:"required"`
	PickedKeyID *int64             `json:"picked_key_id"`
	OrderNumber string             `json:"order_number" validate:"required"`
	OrderItems  []orderItemRequest `json:"order_items" validate:"required,dive"`
}

func (req createOrderRequest) input() model.OrderInput {
	in := model.OrderInput{
		CustomerID:  *req.CustomerID,
		PickedKeyID: req.PickedKeyID,
		OrderNumber: req.OrderNumber,
		Items:       make([]model.OrderItemInput, len(req.OrderItems)),
	}
	for i, line := range req.OrderItems {
		quantity := int64(1)
		if line.Quantity != nil {
			quantity = *line.Quantity
		}
		in.Items[i] = model.OrderItemInput{
			ItemID:    *line.ItemID,
			Quantity:  quantity,
			UnitPrice: *line.UnitPrice,
			Subtotal:  *line.Subtotal,
		}
	}
	return in
}

// List handles GET /orders.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request, conn *sql.Conn) error {
	q := r.URL.Query()
	status, verr := queryStatus(q, false)
	if verr != nil {
		return verr
	}
	page, verr := pageRequest(q)
	if verr != nil {
		return verr
	}

	orders, err := store.ListOrders(r.Context(), conn, status, page)
	if err != nil {
		return err
	}
	jsonResponse(w, http.StatusOK, orders)
	return nil
}

// Create handles POST /orders.
func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request, conn *sql.Conn) error {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if err := validateStruct(h.Validate, req); err != nil {
		return err
	}

	order, err := store.CreateOrder(r.Context(), conn, req.input())
	if err != nil {
		return err
	}
	jsonResponse(w, http.StatusCreated, order)
	return nil
}

// Get handles GET /orders/{id}.
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request, conn *sql.Conn) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	order, err := store.GetOrder(r.Context(), conn, id)
	if err != nil {
		return notFound(err, "Order not found")
	}
	jsonResponse(w, http.StatusOK, order)
	return nil
}

// UpdateStatus handles PUT /orders/{id}/status?status=.
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, conn *sql.Conn) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	status, verr := queryStatus(r.URL.Query(), true)
	if verr != nil {
		return verr
	}

	if err := store.UpdateOrderStatus(r.Context(), conn, id, *status); err != nil {
		return notFound(err, "Order not found")
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Order status updated successfully"})
	return nil
}
