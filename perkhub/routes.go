package perkhub

import (
	"net/http"

	"github.com/gorilla/handlers"

	"github.com/perkhub/perkhub/chttp"
	perkCtx "github.com/perkhub/perkhub/context"
	"github.com/perkhub/perkhub/perkhub/cookies"
)

// RegisterRoutes applies the PerkHub API routes to the `chttp.API` router
func (pa *PerkAPI) RegisterRoutes(apiCtx perkCtx.APIContext) {
	sessionHandler := cookies.AnonymousSessionHandler(pa.APIContext)
	pa.Use(sessionHandler)
	pa.Use(WithRequestLogger(pa.APIContext))
	pa.Use(handlers.CORS(
		handlers.AllowedOrigins([]string{apiCtx.Config.App.URL}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
	))

	api := pa.Subrouter("/api/v1")

	// Enable gzip compression
	api.Use(handlers.CompressHandler)
	api.Use(chttp.JSONResponseMiddleware)
	api.Use(WithUser(pa.APIContext))
	api.Handle("/ping", WrapHandler(pa.HandlePing))

	// users
	api.HandleFunc("/register", pa.HandleRegistration)
	api.HandleFunc("/users/authentication", pa.HandleUserAuthentication)
	api.Handle("/users/logout", Logout(pa.APIContext))
	api.Handle("/user", WrapHandler(pa.HandleUserDetails))
	api.Handle("/user/transactions", WrapHandler(pa.HandlePointTransactions))

	// catalog and orders
	api.Handle("/products", WrapHandler(pa.HandleProducts))
	api.HandleFunc("/orders", pa.HandleOrders)
	api.Handle("/orders/{id:[0-9]+}", WrapHandler(pa.HandleOrderDetails))
	api.HandleFunc("/orders/{id:[0-9]+}/pay", pa.HandleOrderPayment)
	api.HandleFunc("/orders/{id:[0-9]+}/cancel", pa.HandleOrderCancellation)
	api.HandleFunc("/orders/{id:[0-9]+}/status", BasicAuth(apiCtx, http.HandlerFunc(pa.HandleOrderStatus)))
	api.HandleFunc("/coupons/preview", pa.HandleCouponPreview)

	// contests
	api.Handle("/contests", WrapHandler(pa.HandleContests))
	api.HandleFunc("/contests/{id:[0-9]+}/submissions", pa.HandleContestSubmission).Methods(http.MethodPost)
	api.HandleFunc("/contests/{id:[0-9]+}/submissions", BasicAuth(apiCtx, http.HandlerFunc(pa.HandleContestSubmissions))).Methods(http.MethodGet)
	api.HandleFunc("/contests/{id:[0-9]+}/publish", BasicAuth(apiCtx, http.HandlerFunc(pa.HandleContestPublish)))

	// voting
	api.Handle("/campaigns", WrapHandler(pa.HandleVotingCampaigns))
	api.Handle("/campaigns/{id:[0-9]+}/entries", WrapHandler(pa.HandleVoteEntries))
	api.HandleFunc("/campaigns/{id:[0-9]+}/votes", pa.HandleVotes)

	// reviews and surveys
	api.Handle("/products/{id:[0-9]+}/reviews", WrapHandler(pa.HandleProductReviews))
	api.HandleFunc("/reviews", pa.HandleReviewSubmission)
	api.HandleFunc("/reviews/{id:[0-9]+}/approve", BasicAuth(apiCtx, http.HandlerFunc(pa.HandleReviewApproval)))
	api.HandleFunc("/surveys/{id:[0-9]+}/responses", pa.HandleSurveyResponse)

	// admin
	api.HandleFunc("/gift", BasicAuth(apiCtx, http.HandlerFunc(pa.HandleGift)))
}
