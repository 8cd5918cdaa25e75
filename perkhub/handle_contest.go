package perkhub

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/perkhub/perkhub/chttp"
	"github.com/perkhub/perkhub/perkhub/render"
)

// ContestSubmissionRequest represents the http request to answer a contest
type ContestSubmissionRequest struct {
	Answer string `json:"answer"`
}

// ContestPublishRequest represents the http request to publish the answer
// and settle a contest
type ContestPublishRequest struct {
	Answer  string `json:"answer"`
	AdminID int64  `json:"admin_id"`
}

// HandleContests returns all contests, newest first
func (pa *PerkAPI) HandleContests(r *http.Request) chttp.Response {
	contests, err := pa.DBClient.Contests()
	if err != nil {
		return chttp.SimpleErrorResponse(500, err)
	}

	responseBytes, _ := json.Marshal(contests)

	return chttp.SimpleResponse(200, responseBytes)
}

// HandleContestSubmission records an answer, debiting the entry fee
func (pa *PerkAPI) HandleContestSubmission(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	auth, ok := currentUser(r)
	if !ok {
		render.Error(w, r, Err401NotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	contestID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	var request ContestSubmissionRequest
	err = json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if request.Answer == "" {
		render.Error(w, r, "answer is required", http.StatusBadRequest)
		return
	}

	submission, err := pa.DBClient.SubmitContestAnswer(contestID, auth.ID, request.Answer)
	if err != nil {
		render.Error(w, r, err.Error(), errorStatus(err))
		return
	}

	render.Response(w, r, submission, http.StatusCreated)
}

// HandleContestSubmissions lists every submission of a contest. Reserved
// to operators behind basic auth.
func (pa *PerkAPI) HandleContestSubmissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	contestID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	submissions, err := pa.DBClient.SubmissionsByContest(contestID)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusInternalServerError)
		return
	}

	render.Response(w, r, submissions, http.StatusOK)
}

// HandleContestPublish publishes the answer and awards every correct
// submission in one pass. Reserved to operators behind basic auth.
func (pa *PerkAPI) HandleContestPublish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	contestID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	var request ContestPublishRequest
	err = json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if request.Answer == "" {
		render.Error(w, r, "answer is required", http.StatusBadRequest)
		return
	}

	result, err := pa.DBClient.PublishContestAnswer(contestID, request.Answer, request.AdminID)
	if err != nil {
		render.Error(w, r, err.Error(), errorStatus(err))
		return
	}

	render.Response(w, r, result, http.StatusOK)
}
