package perkhub

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/perkhub/perkhub/chttp"
	"github.com/perkhub/perkhub/perkhub/render"
)

// VoteRequest represents the http request to cast or remove a vote
type VoteRequest struct {
	EntryID int64 `json:"entry_id"`
}

// HandleVotingCampaigns returns all campaigns, newest first
func (pa *PerkAPI) HandleVotingCampaigns(r *http.Request) chttp.Response {
	campaigns, err := pa.DBClient.VotingCampaigns()
	if err != nil {
		return chttp.SimpleErrorResponse(500, err)
	}

	responseBytes, _ := json.Marshal(campaigns)

	return chttp.SimpleResponse(200, responseBytes)
}

// HandleVoteEntries returns the approved entries of a campaign
func (pa *PerkAPI) HandleVoteEntries(r *http.Request) chttp.Response {
	campaignID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return chttp.SimpleErrorResponse(400, err)
	}

	entries, err := pa.DBClient.VoteEntriesByCampaign(campaignID)
	if err != nil {
		return chttp.SimpleErrorResponse(500, err)
	}

	responseBytes, _ := json.Marshal(entries)

	return chttp.SimpleResponse(200, responseBytes)
}

// HandleVotes casts a vote on POST and removes one on DELETE
func (pa *PerkAPI) HandleVotes(w http.ResponseWriter, r *http.Request) {
	auth, ok := currentUser(r)
	if !ok {
		render.Error(w, r, Err401NotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	campaignID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	var request VoteRequest
	err = json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	switch r.Method {
	case http.MethodPost:
		vote, err := pa.DBClient.CastVote(campaignID, request.EntryID, auth.ID)
		if err != nil {
			render.Error(w, r, err.Error(), errorStatus(err))
			return
		}
		render.Response(w, r, vote, http.StatusCreated)
	case http.MethodDelete:
		err := pa.DBClient.RemoveVote(campaignID, request.EntryID, auth.ID)
		if err != nil {
			render.Error(w, r, err.Error(), errorStatus(err))
			return
		}
		render.Response(w, r, true, http.StatusOK)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
