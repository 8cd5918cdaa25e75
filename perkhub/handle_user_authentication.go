package perkhub

import (
	"encoding/json"
	"net/http"

	"github.com/perkhub/perkhub/perkhub/cookies"
	"github.com/perkhub/perkhub/perkhub/render"
)

// AuthenticationRequest represents the http request to authenticate a user's account
type AuthenticationRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// HandleUserAuthentication logs a user in with their email or username
func (pa *PerkAPI) HandleUserAuthentication(w http.ResponseWriter, r *http.Request) {
	// only support POST requests
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request AuthenticationRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	user, err := pa.DBClient.GetAuthenticatedUser(request.Identifier, request.Password)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusUnauthorized)
		return
	}

	cookie, err := cookies.GetLoginCookie(pa.APIContext, user)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, cookie)
	w.WriteHeader(http.StatusNoContent)
}
