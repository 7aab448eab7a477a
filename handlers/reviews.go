package handlers

import (
	"net/http"

	"partsapi/httputil"
	"partsapi/middleware"
	"partsapi/models"
	"partsapi/validators"
)

// AddReview stores a review of part {id} written by the caller.
func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid part id")
		return
	}
	var review models.Review
	if err := decodeJSON(r, &review); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := validators.ValidateReview(&review); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	review.Email, _ = middleware.EmailFrom(r.Context())
	review.ProductID = productID

	id, err := h.Store.InsertReview(r.Context(), &review)
	if err != nil {
		h.internalError(w, r, err, "insert review")
		return
	}
	httputil.JSON(w, http.StatusCreated, map[string]interface{}{"insertedId": id})
}

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Store.ListReviews(r.Context())
	if err != nil {
		h.internalError(w, r, err, "list reviews")
		return
	}
	httputil.JSON(w, http.StatusOK, reviews)
}
