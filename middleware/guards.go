// Package middleware gates handlers behind an ordered list of guards. A
// guard either lets the request through, possibly enriching its context, or
// denies it with a status and a reason.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"partsapi/httputil"
	"partsapi/models"
	"partsapi/storage"
)

const (
	msgUnauthorized = "UnAuthorized access"
	msgForbidden    = "Forbidden access"
)

type Denial struct {
	Status int
	Reason string
	// Err is logged, never sent to the client.
	Err error
}

type Guard func(r *http.Request) (*http.Request, *Denial)

type TokenVerifier interface {
	Verify(token string) (string, error)
}

type UserFinder interface {
	FindUser(ctx context.Context, email string) (*models.User, error)
}

type emailKey struct{}

// WithEmail attaches the authenticated email to ctx.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey{}, email)
}

// EmailFrom returns the email attached by Authenticated.
func EmailFrom(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey{}).(string)
	return email, ok && email != ""
}

// Protect runs guards in order before next. The first denial is written to
// the client and ends the request.
func Protect(next http.HandlerFunc, guards ...Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, guard := range guards {
			var denial *Denial
			r, denial = guard(r)
			if denial != nil {
				if denial.Err != nil {
					log.WithError(denial.Err).WithField("path", r.URL.Path).Error("guard failed")
				}
				httputil.Error(w, denial.Status, denial.Reason)
				return
			}
		}
		next(w, r)
	}
}

// Authenticated requires a valid bearer token. A missing header is
// Unauthorized; anything else that does not verify is Forbidden.
func Authenticated(tokens TokenVerifier) Guard {
	return func(r *http.Request) (*http.Request, *Denial) {
		header := r.Header.Get("Authorization")
		if header == "" {
			return r, &Denial{Status: http.StatusUnauthorized, Reason: msgUnauthorized}
		}
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			return r, &Denial{Status: http.StatusForbidden, Reason: msgForbidden}
		}
		email, err := tokens.Verify(tokenStr)
		if err != nil {
			return r, &Denial{Status: http.StatusForbidden, Reason: msgForbidden}
		}
		return r.WithContext(WithEmail(r.Context(), email)), nil
	}
}

// Admin must run after Authenticated. Callers without a user record are
// treated like customers.
func Admin(users UserFinder) Guard {
	return func(r *http.Request) (*http.Request, *Denial) {
		email, ok := EmailFrom(r.Context())
		if !ok {
			return r, &Denial{Status: http.StatusUnauthorized, Reason: msgUnauthorized}
		}
		user, err := users.FindUser(r.Context(), email)
		if errors.Is(err, storage.ErrNotFound) {
			return r, &Denial{Status: http.StatusForbidden, Reason: msgForbidden}
		} else if err != nil {
			return r, &Denial{Status: http.StatusInternalServerError, Reason: "internal server error", Err: err}
		}
		if !user.IsAdmin() {
			return r, &Denial{Status: http.StatusForbidden, Reason: msgForbidden}
		}
		return r, nil
	}
}
