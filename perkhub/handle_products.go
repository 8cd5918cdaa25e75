package perkhub

import (
	"encoding/json"
	"net/http"

	"github.com/perkhub/perkhub/chttp"
)

// HandleProducts returns the active catalog
func (pa *PerkAPI) HandleProducts(r *http.Request) chttp.Response {
	products, err := pa.DBClient.Products()
	if err != nil {
		return chttp.SimpleErrorResponse(500, err)
	}

	responseBytes, _ := json.Marshal(products)

	return chttp.SimpleResponse(200, responseBytes)
}
