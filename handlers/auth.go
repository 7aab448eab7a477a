package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"partsapi/httputil"
	"partsapi/models"
	"partsapi/validators"
)

// Login upserts the user named in the path and hands back a fresh token for
// that email. Non-empty body fields overwrite the stored ones.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := decodeJSON(r, &u); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	u.Email = strings.TrimSpace(mux.Vars(r)["email"])
	if err := validators.ValidateEmail(u.Email); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validators.ValidateRole(u.Role); err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.Store.UpsertUser(r.Context(), u)
	if err != nil {
		h.internalError(w, r, err, "upsert user")
		return
	}
	token, err := h.Tokens.Issue(saved.Email)
	if err != nil {
		h.internalError(w, r, err, "issue token")
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"result": saved,
		"token":  token,
	})
}
