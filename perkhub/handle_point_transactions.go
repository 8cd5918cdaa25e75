package perkhub

import (
	"encoding/json"
	"net/http"

	"github.com/perkhub/perkhub/chttp"
)

// HandlePointTransactions returns the logged in user's ledger history,
// newest first
func (pa *PerkAPI) HandlePointTransactions(r *http.Request) chttp.Response {
	auth, ok := currentUser(r)
	if !ok {
		return chttp.SimpleErrorResponse(401, Err401NotAuthenticated)
	}

	transactions, err := pa.DBClient.PointTransactionsByUser(auth.ID)
	if err != nil {
		return chttp.SimpleErrorResponse(500, err)
	}

	responseBytes, _ := json.Marshal(transactions)

	return chttp.SimpleResponse(200, responseBytes)
}
