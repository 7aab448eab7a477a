package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"partsapi/httputil"
	"partsapi/models"
	"partsapi/storage"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		h.internalError(w, r, err, "list users")
		return
	}
	httputil.JSON(w, http.StatusOK, users)
}

func (h *Handler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]
	matched, modified, err := h.Store.SetRole(r.Context(), email, models.RoleAdmin)
	if err != nil {
		h.internalError(w, r, err, "promote user")
		return
	}
	h.Log.WithField("email", email).Info("user promoted to admin")
	httputil.JSON(w, http.StatusOK, map[string]int64{
		"matchedCount":  matched,
		"modifiedCount": modified,
	})
}

// IsAdmin reports whether email belongs to an admin. Unknown emails are not.
func (h *Handler) IsAdmin(w http.ResponseWriter, r *http.Request) {
	user, err := h.Store.FindUser(r.Context(), mux.Vars(r)["email"])
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.internalError(w, r, err, "find user")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]bool{"admin": user != nil && user.IsAdmin()})
}
