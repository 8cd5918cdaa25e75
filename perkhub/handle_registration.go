package perkhub

import (
	"encoding/json"
	"net/http"

	"github.com/perkhub/perkhub/db"
	"github.com/perkhub/perkhub/perkhub/cookies"
	"github.com/perkhub/perkhub/perkhub/render"
)

// RegistrationRequest represents the http request to register a new user
type RegistrationRequest struct {
	FullName     string `json:"full_name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code"`
}

// HandleRegistration registers a new user and logs them in
func (pa *PerkAPI) HandleRegistration(w http.ResponseWriter, r *http.Request) {
	// only support POST requests
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request RegistrationRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if request.Username == "" || request.Email == "" || request.Password == "" {
		render.Error(w, r, "username, email and password are required", http.StatusBadRequest)
		return
	}

	existing, err := pa.DBClient.UserByEmail(request.Email)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusInternalServerError)
		return
	}
	if existing != nil {
		render.Error(w, r, "email is already registered", http.StatusConflict)
		return
	}
	existing, err = pa.DBClient.UserByUsername(request.Username)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusInternalServerError)
		return
	}
	if existing != nil {
		render.Error(w, r, "username is already taken", http.StatusConflict)
		return
	}

	user := &db.User{
		FullName: request.FullName,
		Username: request.Username,
		Email:    request.Email,
		Password: request.Password,
	}
	err = pa.DBClient.SignupUser(user, request.ReferralCode, pa.APIContext.Config.Params.ReferralRewardPoints)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusInternalServerError)
		return
	}

	cookie, err := cookies.GetLoginCookie(pa.APIContext, user)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, cookie)

	render.Response(w, r, user, http.StatusCreated)
}
