package api

import (
	"database/sql"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/retailapi/internal/model"
	"github.com/erazemk/retailapi/internal/store"
)

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	Validate *validator.Validate
}

// itemRequest is the body of POST /items and PUT /items/{id}.
type itemRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description *string  `json:"description"`
	Barcode     string   `json:"barcode" validate:"required"`
	Price       *float64 `json:"price" validate:"required"`
	IsActive    *bool    `json:"is_active"`
}

func (req itemRequest) input() model.ItemInput {
	in := model.ItemInput{
		Title:       req.Title,
		Description: req.Description,
		Barcode:     req.Barcode,
		Price:       *req.Price,
		IsActive:    true,
	}
	if req.IsActive != nil {
		in.IsActive = *req.IsActive
	}
	return in
}

func (h *ItemsHandler) decode(r *http.Request) (model.ItemInput, error) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		return model.ItemInput{}, err
	}
	if err := validateStruct(h.Validate, req); err != nil {
		return model.ItemInput{}, err
	}
	return req.input(), nil
}

// List handles GET /items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request, conn *sql.Conn) error {
	q := r.URL.Query()
	isActive, verr := queryBool(q, "is_active", true)
	if verr != nil {
		return verr
	}
	page, verr := pageRequest(q)
	if verr != nil {
		return verr
	}

	items, err := store.ListItems(r.Context(), conn, isActive, page)
	if err != nil {
		return err
	}
	jsonResponse(w, http.StatusOK, items)
	return nil
}

// Create handles POST /items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request, conn *sql.Conn) error {
	in, err := h.decode(r)
	if err != nil {
		return err
	}

	item, err := store.CreateItem(r.Context(), conn, in)
	if err != nil {
		return err
	}
	jsonResponse(w, http.StatusCreated, item)
	return nil
}

// Get handles GET /items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request, conn *sql.Conn) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	item, err := store.GetItem(r.Context(), conn, id)
	if err != nil {
		return notFound(err, "Item not found")
	}
	jsonResponse(w, http.StatusOK, item)
	return nil
}

// Update handles PUT /items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request, conn *sql.Conn) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	in, err := h.decode(r)
	if err != nil {
		return err
	}

	item, err := store.UpdateItem(r.Context(), conn, id, in)
	if err != nil {
		return notFound(err, "Item not found")
	}
	jsonResponse(w, http.StatusOK, item)
	return nil
}

// Delete handles DELETE /items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request, conn *sql.Conn) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := store.DeleteItem(r.Context(), conn, id); err != nil {
		return notFound(err, "Item not found")
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Item deleted successfully"})
	return nil
}
