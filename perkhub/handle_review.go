package perkhub

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/perkhub/perkhub/chttp"
	"github.com/perkhub/perkhub/db"
	"github.com/perkhub/perkhub/perkhub/render"
)

// ReviewRequest represents the http request to review a product
type ReviewRequest struct {
	ProductID int64  `json:"product_id"`
	Rating    int    `json:"rating"`
	Body      string `json:"body"`
}

// ReviewApprovalRequest represents the http request to approve a review
type ReviewApprovalRequest struct {
	AdminID int64 `json:"admin_id"`
}

// HandleProductReviews returns the approved reviews of a product
func (pa *PerkAPI) HandleProductReviews(r *http.Request) chttp.Response {
	productID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return chttp.SimpleErrorResponse(400, err)
	}

	reviews, err := pa.DBClient.ReviewsByProduct(productID)
	if err != nil {
		return chttp.SimpleErrorResponse(500, err)
	}

	responseBytes, _ := json.Marshal(reviews)

	return chttp.SimpleResponse(200, responseBytes)
}

// HandleReviewSubmission records a review pending approval
func (pa *PerkAPI) HandleReviewSubmission(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	auth, ok := currentUser(r)
	if !ok {
		render.Error(w, r, Err401NotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	var request ReviewRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if request.Rating < 1 || request.Rating > 5 {
		render.Error(w, r, "rating must be between 1 and 5", http.StatusBadRequest)
		return
	}

	product, err := pa.DBClient.ProductByID(request.ProductID)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusInternalServerError)
		return
	}
	if product == nil {
		render.Error(w, r, db.ErrNotFound.Error(), http.StatusNotFound)
		return
	}

	review := &db.Review{
		ProductID: request.ProductID,
		UserID:    auth.ID,
		Rating:    request.Rating,
		Body:      request.Body,
	}
	err = pa.DBClient.AddReview(review)
	if err != nil {
		render.Error(w, r, err.Error(), errorStatus(err))
		return
	}

	render.Response(w, r, review, http.StatusCreated)
}

// HandleReviewApproval approves a review and credits the reward once.
// Reserved to operators behind basic auth.
func (pa *PerkAPI) HandleReviewApproval(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reviewID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	var request ReviewApprovalRequest
	err = json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	review, err := pa.DBClient.ApproveReview(reviewID, request.AdminID, pa.APIContext.Config.Params.ReviewRewardPoints)
	if err != nil {
		render.Error(w, r, err.Error(), errorStatus(err))
		return
	}

	render.Response(w, r, review, http.StatusOK)
}
