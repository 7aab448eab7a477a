package handlers

import (
	"errors"
	"net/http"
	"strings"

	"partsapi/httputil"
	"partsapi/middleware"
	"partsapi/models"
	"partsapi/payments"
	"partsapi/storage"
)

func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentIntentRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	amount, err := payments.MinorUnits(req.Price)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	secret, err := h.Gateway.CreateIntent(r.Context(), amount)
	if err != nil {
		h.Log.WithError(err).WithField("amount", amount).Error("create payment intent")
		httputil.Error(w, http.StatusBadGateway, "payment gateway unavailable")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]string{"clientSecret": secret})
}

// ConfirmPayment marks order {id} paid and appends to the payment log. An
// order can be confirmed once.
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var req models.PaymentConfirmation
	if err := decodeJSON(r, &req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.TransactionID = strings.TrimSpace(req.TransactionID)
	if req.TransactionID == "" {
		httputil.Error(w, http.StatusBadRequest, "transactionId is required")
		return
	}
	if req.Status == "" {
		req.Status = models.StatusPending
	}

	err = h.Store.MarkOrderPaid(r.Context(), id, req.TransactionID, req.Status)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		httputil.Error(w, http.StatusNotFound, "order not found")
		return
	case errors.Is(err, storage.ErrAlreadyPaid):
		httputil.Error(w, http.StatusConflict, "order is already paid")
		return
	case err != nil:
		h.internalError(w, r, err, "mark order paid")
		return
	}

	payer, _ := middleware.EmailFrom(r.Context())
	payment := models.Payment{
		OrderID:       id,
		TransactionID: req.TransactionID,
		Status:        req.Status,
		Email:         payer,
		Price:         req.Price,
	}
	paymentID, err := h.Store.InsertPayment(r.Context(), &payment)
	if err != nil {
		h.internalError(w, r, err, "insert payment")
		return
	}
	h.Log.WithField("orderId", id.Hex()).WithField("transactionId", req.TransactionID).Info("order paid")
	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"modifiedCount": 1,
		"paymentId":     paymentID,
	})
}
