package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"partsapi/httputil"
	"partsapi/payments"
	"partsapi/storage"
)

// TokenService issues tokens at login and verifies them in the route guards.
type TokenService interface {
	Issue(email string) (string, error)
	Verify(token string) (string, error)
}

// Handler carries the dependencies every route shares. It is built once at
// startup.
type Handler struct {
	Store   storage.Store
	Tokens  TokenService
	Gateway payments.Gateway
	Log     log.FieldLogger
}

func New(store storage.Store, tokens TokenService, gateway payments.Gateway, logger log.FieldLogger) *Handler {
	return &Handler{Store: store, Tokens: tokens, Gateway: gateway, Log: logger}
}

// internalError logs err and answers with a generic 500.
func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	h.Log.WithError(err).WithFields(log.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error(msg)
	httputil.Error(w, http.StatusInternalServerError, "internal server error")
}

// decodeJSON reads the request body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		return nil
	}
	return err
}

func pathID(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(mux.Vars(r)["id"])
}
