package handlers

import (
	"errors"
	"net/http"

	"partsapi/httputil"
	"partsapi/middleware"
	"partsapi/models"
	"partsapi/storage"
	"partsapi/validators"
)

// CreateOrder is public. Payment fields in the payload are ignored; only the
// confirmation endpoint sets them.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var o models.Order
	if err := decodeJSON(r, &o); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := validators.ValidateOrder(&o); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	o.Paid = false
	o.TransactionID = ""
	o.Status = ""

	id, err := h.Store.InsertOrder(r.Context(), &o)
	if err != nil {
		h.internalError(w, r, err, "insert order")
		return
	}
	httputil.JSON(w, http.StatusCreated, map[string]interface{}{"insertedId": id})
}

// MyOrders lists the orders of ?email=, which must be the caller's own.
func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.EmailFrom(r.Context())
	email := r.URL.Query().Get("email")
	if email != caller {
		httputil.Error(w, http.StatusForbidden, "Forbidden access")
		return
	}
	orders, err := h.Store.ListOrdersByEmail(r.Context(), email)
	if err != nil {
		h.internalError(w, r, err, "list orders by email")
		return
	}
	httputil.JSON(w, http.StatusOK, orders)
}

// GetOrder serves the payment page. Only the owner or an admin may read it.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid order id")
		return
	}
	order, err := h.Store.FindOrder(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.JSON(w, http.StatusOK, nil)
		return
	} else if err != nil {
		h.internalError(w, r, err, "find order")
		return
	}

	caller, _ := middleware.EmailFrom(r.Context())
	if order.Email != caller {
		user, err := h.Store.FindUser(r.Context(), caller)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			h.internalError(w, r, err, "find caller")
			return
		}
		if user == nil || !user.IsAdmin() {
			httputil.Error(w, http.StatusForbidden, "Forbidden access")
			return
		}
	}
	httputil.JSON(w, http.StatusOK, order)
}

// DeleteMyOrder only removes orders placed by the caller.
func (h *Handler) DeleteMyOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid order id")
		return
	}
	caller, _ := middleware.EmailFrom(r.Context())
	n, err := h.Store.DeleteOrderOwnedBy(r.Context(), id, caller)
	if err != nil {
		h.internalError(w, r, err, "delete own order")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]int64{"deletedCount": n})
}

func (h *Handler) AllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Store.ListOrders(r.Context())
	if err != nil {
		h.internalError(w, r, err, "list orders")
		return
	}
	httputil.JSON(w, http.StatusOK, orders)
}

// DeleteAnyOrder is the admin variant; ownership is not checked.
func (h *Handler) DeleteAnyOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid order id")
		return
	}
	n, err := h.Store.DeleteOrder(r.Context(), id)
	if err != nil {
		h.internalError(w, r, err, "delete order")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]int64{"deletedCount": n})
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var req models.OrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := validators.ValidateStatus(req.Status); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	err = h.Store.SetOrderStatus(r.Context(), id, req.Status)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.Error(w, http.StatusNotFound, "order not found")
		return
	} else if err != nil {
		h.internalError(w, r, err, "set order status")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]int64{"modifiedCount": 1})
}
