package handlers

import (
	"errors"
	"net/http"

	"partsapi/httputil"
	"partsapi/models"
	"partsapi/storage"
	"partsapi/validators"
)

func (h *Handler) ListParts(w http.ResponseWriter, r *http.Request) {
	parts, err := h.Store.ListProducts(r.Context())
	if err != nil {
		h.internalError(w, r, err, "list parts")
		return
	}
	httputil.JSON(w, http.StatusOK, parts)
}

// GetPart answers with JSON null when the part does not exist.
func (h *Handler) GetPart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid part id")
		return
	}
	part, err := h.Store.FindProduct(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.JSON(w, http.StatusOK, nil)
		return
	} else if err != nil {
		h.internalError(w, r, err, "find part")
		return
	}
	httputil.JSON(w, http.StatusOK, part)
}

func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := decodeJSON(r, &p); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := validators.ValidateProduct(&p); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.Store.InsertProduct(r.Context(), &p)
	if err != nil {
		h.internalError(w, r, err, "insert part")
		return
	}
	httputil.JSON(w, http.StatusCreated, map[string]interface{}{"insertedId": id})
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid part id")
		return
	}
	n, err := h.Store.DeleteProduct(r.Context(), id)
	if err != nil {
		h.internalError(w, r, err, "delete part")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]int64{"deletedCount": n})
}
