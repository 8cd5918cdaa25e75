package perkhub

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/perkhub/perkhub/chttp"
	perkCtx "github.com/perkhub/perkhub/context"
	"github.com/perkhub/perkhub/db"
	"github.com/perkhub/perkhub/perkhub/cookies"
)

// ContextKey represents a string key for request context.
type ContextKey string

const (
	userContextKey = ContextKey("user")
)

// PerkAPI implements an HTTP server for PerkHub functionality using `chttp.API`
type PerkAPI struct {
	*chttp.API
	APIContext perkCtx.APIContext
	DBClient   db.Datastore
}

// NewPerkAPI returns a `PerkAPI` instance populated with a DB client
func NewPerkAPI(apiCtx perkCtx.APIContext) *PerkAPI {
	pa := PerkAPI{
		API:        chttp.NewAPI(apiCtx),
		APIContext: apiCtx,
		DBClient:   db.NewDBClient(apiCtx.Config),
	}

	return &pa
}

// WrapHandler wraps a chttp.Handler and returns a standard http.Handler
func WrapHandler(h chttp.Handler) http.Handler {
	return h.HandlerFunc()
}

// WithUser sets the user in the context that will be passed down to handlers.
func WithUser(apiCtx perkCtx.APIContext) mux.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth, err := cookies.GetAuthenticatedUser(apiCtx, r)
			if err != nil {
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, auth)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithRequestLogger logs every request with the service logger
func WithRequestLogger(apiCtx perkCtx.APIContext) mux.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			h.ServeHTTP(w, r)
			apiCtx.Logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Info("request served")
		})
	}
}

// currentUser pulls the authenticated user out of the request context
func currentUser(r *http.Request) (*cookies.AuthenticatedUser, bool) {
	user, ok := r.Context().Value(userContextKey).(*cookies.AuthenticatedUser)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// BasicAuth wraps a handler requiring HTTP basic auth for it using the
// admin username and password from the config.
func BasicAuth(apiCtx perkCtx.APIContext, handler http.Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(user), []byte(apiCtx.Config.Admin.Username)) != 1 || subtle.ConstantTimeCompare([]byte(pass), []byte(apiCtx.Config.Admin.Password)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm=please authenticate`)
			w.WriteHeader(401)
			_, _ = w.Write([]byte("Unauthorised.\n"))
			return
		}

		handler.ServeHTTP(w, r)
	})
}

// errorStatus maps the storage layer's sentinel errors onto HTTP statuses
func errorStatus(err error) int {
	switch err {
	case db.ErrNotFound:
		return http.StatusNotFound
	case db.ErrAlreadyProcessed, db.ErrOutOfStock:
		return http.StatusConflict
	case db.ErrInsufficientBalance, db.ErrInvalidTransition, db.ErrContestClosed,
		db.ErrVotingClosed, db.ErrSurveyClosed, db.ErrVoteLimitReached, db.ErrCouponNotUsable:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
