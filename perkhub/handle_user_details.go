package perkhub

import (
	"encoding/json"
	"net/http"

	"github.com/perkhub/perkhub/chttp"
)

// UserResponse is a JSON response body representing the logged in user
type UserResponse struct {
	UserID       int64  `json:"userId"`
	FullName     string `json:"fullName"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Points       int64  `json:"points"`
	ReferralCode string `json:"referralCode"`
}

// HandleUserDetails returns the logged in user with their current balance
func (pa *PerkAPI) HandleUserDetails(r *http.Request) chttp.Response {
	auth, ok := currentUser(r)
	if !ok {
		return chttp.SimpleErrorResponse(401, Err401NotAuthenticated)
	}

	user, err := pa.DBClient.UserByID(auth.ID)
	if err != nil {
		return chttp.SimpleErrorResponse(500, err)
	}
	if user == nil {
		return chttp.SimpleErrorResponse(401, Err401NotAuthenticated)
	}

	responseBytes, _ := json.Marshal(UserResponse{
		UserID:       user.ID,
		FullName:     user.FullName,
		Username:     user.Username,
		Email:        user.Email,
		Points:       user.Points,
		ReferralCode: user.ReferralCode,
	})

	return chttp.SimpleResponse(200, responseBytes)
}
