package perkhub

import (
	"encoding/json"
	"net/http"

	"github.com/perkhub/perkhub/chttp"
)

// PingResponse is a JSON response body representing the result of Ping
type PingResponse struct {
	Pong bool `json:"pong"`
}

// HandlePing returns a `PingResponse`
func (pa *PerkAPI) HandlePing(r *http.Request) chttp.Response {
	responseBytes, _ := json.Marshal(PingResponse{
		Pong: true,
	})

	return chttp.SimpleResponse(200, responseBytes)
}
