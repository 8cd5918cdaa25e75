package perkhub

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/perkhub/perkhub/chttp"
	"github.com/perkhub/perkhub/db"
	"github.com/perkhub/perkhub/perkhub/render"
)

// OrderRequest represents the http request to place an order
type OrderRequest struct {
	Items      []OrderItemRequest `json:"items"`
	CouponCode string             `json:"coupon_code"`
	PointsUsed int64              `json:"points_used"`
}

// OrderItemRequest is one requested order line
type OrderItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// OrderStatusRequest represents the http request to move an order along
// its lifecycle
type OrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderDetailsResponse is an order with its lines
type OrderDetailsResponse struct {
	Order *db.Order      `json:"order"`
	Items []db.OrderItem `json:"items"`
}

// HandleOrders places an order or lists the user's orders
func (pa *PerkAPI) HandleOrders(w http.ResponseWriter, r *http.Request) {
	auth, ok := currentUser(r)
	if !ok {
		render.Error(w, r, Err401NotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		orders, err := pa.DBClient.OrdersByUser(auth.ID)
		if err != nil {
			render.Error(w, r, err.Error(), http.StatusInternalServerError)
			return
		}
		render.Response(w, r, orders, http.StatusOK)
	case http.MethodPost:
		pa.placeOrder(w, r, auth.ID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (pa *PerkAPI) placeOrder(w http.ResponseWriter, r *http.Request, userID int64) {
	var request OrderRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if len(request.Items) == 0 {
		render.Error(w, r, "order has no items", http.StatusBadRequest)
		return
	}
	for _, item := range request.Items {
		if item.Quantity <= 0 {
			render.Error(w, r, "item quantity must be positive", http.StatusBadRequest)
			return
		}
	}
	if request.PointsUsed < 0 {
		render.Error(w, r, "points_used must not be negative", http.StatusBadRequest)
		return
	}

	input := db.OrderInput{
		UserID:     userID,
		CouponCode: request.CouponCode,
		PointsUsed: request.PointsUsed,
	}
	for _, item := range request.Items {
		input.Items = append(input.Items, db.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := pa.DBClient.CreateOrder(input)
	if err != nil {
		render.Error(w, r, err.Error(), errorStatus(err))
		return
	}

	render.Response(w, r, order, http.StatusCreated)
}

// HandleOrderDetails returns one order with its lines
func (pa *PerkAPI) HandleOrderDetails(r *http.Request) chttp.Response {
	auth, ok := currentUser(r)
	if !ok {
		return chttp.SimpleErrorResponse(401, Err401NotAuthenticated)
	}

	orderID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return chttp.SimpleErrorResponse(400, err)
	}

	order, err := pa.DBClient.OrderByID(orderID)
	if err != nil {
		return chttp.SimpleErrorResponse(500, err)
	}
	if order == nil {
		return chttp.SimpleErrorResponse(404, db.ErrNotFound)
	}
	if order.UserID != auth.ID {
		return chttp.SimpleErrorResponse(403, Err403NotAuthorized)
	}

	items, err := pa.DBClient.OrderItemsByOrder(orderID)
	if err != nil {
		return chttp.SimpleErrorResponse(500, err)
	}

	responseBytes, _ := json.Marshal(OrderDetailsResponse{
		Order: order,
		Items: items,
	})

	return chttp.SimpleResponse(200, responseBytes)
}

// HandleOrderPayment confirms the payment of the user's own order
func (pa *PerkAPI) HandleOrderPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	auth, ok := currentUser(r)
	if !ok {
		render.Error(w, r, Err401NotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	orderID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := pa.DBClient.OrderByID(orderID)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusInternalServerError)
		return
	}
	if order == nil {
		render.Error(w, r, db.ErrNotFound.Error(), http.StatusNotFound)
		return
	}
	if order.UserID != auth.ID {
		render.Error(w, r, Err403NotAuthorized.Error(), http.StatusForbidden)
		return
	}

	order, err = pa.DBClient.MarkOrderPaid(orderID)
	if err != nil {
		render.Error(w, r, err.Error(), errorStatus(err))
		return
	}

	render.Response(w, r, order, http.StatusOK)
}

// HandleOrderCancellation cancels the user's own order
func (pa *PerkAPI) HandleOrderCancellation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	auth, ok := currentUser(r)
	if !ok {
		render.Error(w, r, Err401NotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	orderID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	order, err := pa.DBClient.OrderByID(orderID)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusInternalServerError)
		return
	}
	if order == nil {
		render.Error(w, r, db.ErrNotFound.Error(), http.StatusNotFound)
		return
	}
	if order.UserID != auth.ID {
		render.Error(w, r, Err403NotAuthorized.Error(), http.StatusForbidden)
		return
	}

	order, err = pa.DBClient.CancelOrder(orderID, nil)
	if err != nil {
		render.Error(w, r, err.Error(), errorStatus(err))
		return
	}

	render.Response(w, r, order, http.StatusOK)
}

// HandleOrderStatus moves an order along the fulfillment lifecycle.
// Reserved to operators behind basic auth.
func (pa *PerkAPI) HandleOrderStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	orderID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	var request OrderStatusRequest
	err = json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	order, err := pa.DBClient.UpdateOrderStatus(orderID, db.OrderStatus(request.Status), nil)
	if err != nil {
		render.Error(w, r, err.Error(), errorStatus(err))
		return
	}

	render.Response(w, r, order, http.StatusOK)
}
