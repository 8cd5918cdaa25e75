package perkhub

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/perkhub/perkhub/perkhub/render"
)

// SurveyResponseRequest represents the http request to complete a survey
type SurveyResponseRequest struct {
	Answers string `json:"answers"`
}

// HandleSurveyResponse records a survey completion and credits the reward
func (pa *PerkAPI) HandleSurveyResponse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	auth, ok := currentUser(r)
	if !ok {
		render.Error(w, r, Err401NotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	surveyID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	var request SurveyResponseRequest
	err = json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	response, err := pa.DBClient.SubmitSurveyResponse(surveyID, auth.ID, request.Answers)
	if err != nil {
		render.Error(w, r, err.Error(), errorStatus(err))
		return
	}

	render.Response(w, r, response, http.StatusCreated)
}
