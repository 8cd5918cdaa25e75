package perkhub

import (
	"encoding/json"
	"net/http"

	"github.com/perkhub/perkhub/db"
	"github.com/perkhub/perkhub/perkhub/render"
)

// GiftRequest represents the request to grant points to a user. Reference
// identifies the grant; repeating a request with the same reference settles
// nothing twice.
type GiftRequest struct {
	UserID    int64  `json:"user_id"`
	AdminID   int64  `json:"admin_id"`
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
	Notes     string `json:"notes"`
}

// HandleGift grants points to a user by an admin decision
func (pa *PerkAPI) HandleGift(w http.ResponseWriter, r *http.Request) {
	// only supports POST requests
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request GiftRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	if request.Reference == "" {
		render.Error(w, r, "reference is required", http.StatusBadRequest)
		return
	}

	user, err := pa.DBClient.UserByID(request.UserID)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	if user == nil {
		render.Error(w, r, db.ErrNotFound.Error(), http.StatusNotFound)
		return
	}

	result, err := pa.DBClient.GrantPoints(request.UserID, request.AdminID, request.Amount,
		db.AdminGrantKey(request.Reference), request.Notes)
	if err != nil {
		render.Error(w, r, err.Error(), errorStatus(err))
		return
	}

	render.Response(w, r, result, http.StatusOK)
}
