package perkhub

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/perkhub/perkhub/db"
	"github.com/perkhub/perkhub/perkhub/render"
)

// CouponPreviewRequest represents the http request to preview a coupon
// against a prospective order
type CouponPreviewRequest struct {
	Code  string             `json:"code"`
	Items []OrderItemRequest `json:"items"`
}

// CouponPreviewResponse reports whether the coupon would apply and for how much
type CouponPreviewResponse struct {
	Usable      bool  `json:"usable"`
	Discount    int64 `json:"discount"`
	OrderAmount int64 `json:"order_amount"`
	FinalAmount int64 `json:"final_amount"`
}

// HandleCouponPreview prices a coupon against a prospective order without
// placing it. Usage counters are untouched; only order creation settles them.
func (pa *PerkAPI) HandleCouponPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	auth, ok := currentUser(r)
	if !ok {
		render.Error(w, r, Err401NotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	var request CouponPreviewRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	coupon, err := pa.DBClient.CouponByCode(request.Code)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusInternalServerError)
		return
	}
	if coupon == nil {
		render.Error(w, r, db.ErrNotFound.Error(), http.StatusNotFound)
		return
	}

	var orderAmount int64
	items := make([]db.OrderItem, 0, len(request.Items))
	for _, line := range request.Items {
		product, err := pa.DBClient.ProductByID(line.ProductID)
		if err != nil {
			render.Error(w, r, err.Error(), http.StatusInternalServerError)
			return
		}
		if product == nil {
			render.Error(w, r, db.ErrNotFound.Error(), http.StatusNotFound)
			return
		}
		items = append(items, db.OrderItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
		})
		orderAmount += product.Price * line.Quantity
	}

	response := CouponPreviewResponse{
		OrderAmount: orderAmount,
		FinalAmount: orderAmount,
	}
	if coupon.CanBeUsedBy(auth.ID, orderAmount, items, time.Now()) {
		response.Usable = true
		response.Discount = coupon.ComputeDiscount(orderAmount, items)
		response.FinalAmount = orderAmount - response.Discount
	}

	render.Response(w, r, response, http.StatusOK)
}
