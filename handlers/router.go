package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"partsapi/middleware"
)

func Router(h *Handler) http.Handler {
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.Protect(next, middleware.Authenticated(h.Tokens))
	}
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.Protect(next, middleware.Authenticated(h.Tokens), middleware.Admin(h.Store))
	}

	r := mux.NewRouter()
	r.HandleFunc("/", h.Root).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	r.HandleFunc("/parts", h.ListParts).Methods(http.MethodGet)
	r.HandleFunc("/parts/{id}", h.GetPart).Methods(http.MethodGet)
	r.HandleFunc("/addproduct", admin(h.AddProduct)).Methods(http.MethodPost)
	r.HandleFunc("/manageproducts", admin(h.ListParts)).Methods(http.MethodGet)
	r.HandleFunc("/manageproducts/{id}", admin(h.DeleteProduct)).Methods(http.MethodDelete)

	r.HandleFunc("/orders", h.CreateOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders", authed(h.MyOrders)).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", authed(h.GetOrder)).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", authed(h.DeleteMyOrder)).Methods(http.MethodDelete)
	r.HandleFunc("/allorders", admin(h.AllOrders)).Methods(http.MethodGet)
	r.HandleFunc("/allorders/{id}", admin(h.DeleteAnyOrder)).Methods(http.MethodDelete)
	r.HandleFunc("/orderStatus/{id}", authed(h.UpdateOrderStatus)).Methods(http.MethodPatch)

	r.HandleFunc("/user", admin(h.ListUsers)).Methods(http.MethodGet)
	r.HandleFunc("/user/admin/{email}", admin(h.MakeAdmin)).Methods(http.MethodPut)
	r.HandleFunc("/user/{email}", h.Login).Methods(http.MethodPut)
	r.HandleFunc("/admin/{email}", h.IsAdmin).Methods(http.MethodGet)

	r.HandleFunc("/review/{id}", authed(h.AddReview)).Methods(http.MethodPost)
	r.HandleFunc("/review", h.ListReviews).Methods(http.MethodGet)

	r.HandleFunc("/create-payment-intent", authed(h.CreatePaymentIntent)).Methods(http.MethodPost)
	r.HandleFunc("/product/{id}", authed(h.ConfirmPayment)).Methods(http.MethodPatch)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return logMiddleware(h.Log, c.Handler(r))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// logMiddleware logs one entry per request. A client X-Request-ID is reused
// only when it is a canonical UUID.
func logMiddleware(logger log.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(requestID); err != nil || len(requestID) != 36 {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.WithFields(log.Fields{
			"requestId":  requestID,
			"method":     r.Method,
			"url":        r.URL.String(),
			"status":     rec.status,
			"duration":   time.Since(start).String(),
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("handled request")
	})
}
