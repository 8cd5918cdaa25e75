package db

import (
	"math/rand"
	"time"

	"github.com/go-pg/pg"
	"github.com/oklog/ulid"
)

// OrderStatus is a stage in the order lifecycle
type OrderStatus string

// Order lifecycle states
const (
	OrderPending             OrderStatus = "pending"
	OrderWaitingPayment      OrderStatus = "waiting_payment"
	OrderProcessing          OrderStatus = "processing"
	OrderWaitingConfirmation OrderStatus = "waiting_confirmation"
	OrderShipped             OrderStatus = "shipped"
	OrderDelivered           OrderStatus = "delivered"
	OrderCompleted           OrderStatus = "completed"
	OrderCancelled           OrderStatus = "cancelled"
)

// PaymentStatus of an order
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// orderTransitions lists the permitted next states per state
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:             {OrderWaitingPayment, OrderProcessing, OrderCancelled},
	OrderWaitingPayment:      {OrderProcessing, OrderCancelled},
	OrderProcessing:          {OrderWaitingConfirmation, OrderShipped, OrderCancelled},
	OrderWaitingConfirmation: {OrderShipped, OrderCancelled},
	OrderShipped:             {OrderDelivered, OrderCancelled},
	OrderDelivered:           {OrderCompleted, OrderCancelled},
	OrderCompleted:           {OrderCancelled},
	OrderCancelled:           {},
}

// paidOnlyStatuses cannot be entered until the order is paid
var paidOnlyStatuses = map[OrderStatus]bool{
	OrderProcessing: true,
	OrderShipped:    true,
	OrderDelivered:  true,
	OrderCompleted:  true,
}

// CanTransition reports whether an order may move from one status to another
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RequiresPayment reports whether entering the status requires a paid order
func RequiresPayment(status OrderStatus) bool {
	return paidOnlyStatuses[status]
}

// Order is a shop order moving through the fulfillment lifecycle. Points
// settlement happens on the completed and cancelled transitions, always
// through the ledger.
type Order struct {
	Timestamps

	ID             int64       `json:"id"`
	UserID         int64       `json:"user_id"`
	OrderNumber    string      `json:"order_number"`
	Status         OrderStatus `json:"status"`
	PaymentStatus  string      `json:"payment_status"`
	TotalAmount    int64       `json:"total_amount" sql:"type:,notnull"`
	DiscountAmount int64       `json:"discount_amount" sql:"type:,notnull"`
	CouponID       *int64      `json:"coupon_id,omitempty"`
	PointsEarned   int64       `json:"points_earned" sql:"type:,notnull"`
	PointsUsed     int64       `json:"points_used" sql:"type:,notnull"`
	PointsRefunded bool        `json:"points_refunded" sql:"type:,notnull"`
}

// OrderItem is one order line. UnitPrice and PointsReward are snapshots
// taken at creation time.
type OrderItem struct {
	Timestamps

	ID           int64 `json:"id"`
	OrderID      int64 `json:"order_id"`
	ProductID    int64 `json:"product_id"`
	Quantity     int64 `json:"quantity"`
	UnitPrice    int64 `json:"unit_price" sql:"type:,notnull"`
	PointsReward int64 `json:"points_reward" sql:"type:,notnull"`
	TotalPrice   int64 `json:"total_price" sql:"type:,notnull"`
}

// OrderInput is the request to place an order
type OrderInput struct {
	UserID     int64
	Items      []OrderItemInput
	CouponCode string
	PointsUsed int64
}

// OrderItemInput is one requested order line
type OrderItemInput struct {
	ProductID int64
	Quantity  int64
}

// CreateOrder places an order in one transaction: stock is reserved with a
// conditional decrement per line, prices and points rewards are snapshotted
// from the catalog, the coupon gates and counters are settled, and any
// points spent as discount are debited through the ledger.
func (c *Client) CreateOrder(input OrderInput) (*Order, error) {
	order := &Order{
		UserID:        input.UserID,
		OrderNumber:   generateOrderNumber(),
		Status:        OrderPending,
		PaymentStatus: PaymentPending,
		PointsUsed:    input.PointsUsed,
	}

	err := c.RunInTransaction(func(tx *pg.Tx) error {
		var totalAmount int64
		items := make([]OrderItem, 0, len(input.Items))
		for _, line := range input.Items {
			product := new(Product)
			err := tx.Model(product).Where("id = ?", line.ProductID).First()
			if err == pg.ErrNoRows {
				return ErrNotFound
			}
			if err != nil {
				return err
			}

			err = reserveStockInTx(tx, product.ID, line.Quantity)
			if err != nil {
				return err
			}

			items = append(items, OrderItem{
				ProductID:    product.ID,
				Quantity:     line.Quantity,
				UnitPrice:    product.Price,
				PointsReward: product.PointsReward,
				TotalPrice:   product.Price * line.Quantity,
			})
			totalAmount += product.Price * line.Quantity
		}
		order.TotalAmount = totalAmount

		if input.CouponCode != "" {
			coupon, err := couponByCodeInTx(tx, input.CouponCode)
			if err != nil {
				return err
			}
			if coupon == nil {
				return ErrNotFound
			}
			if !coupon.CanBeUsedBy(input.UserID, totalAmount, items, time.Now()) {
				return ErrCouponNotUsable
			}
			discount := coupon.ComputeDiscount(totalAmount, items)
			order.DiscountAmount = discount
			order.TotalAmount = totalAmount - discount
			order.CouponID = &coupon.ID

			err = recordCouponUsageInTx(tx, coupon.ID, discount)
			if err != nil {
				return err
			}
		}

		err := tx.Insert(order)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
			err = tx.Insert(&items[i])
			if err != nil {
				return err
			}
		}

		if input.PointsUsed > 0 {
			_, err = c.applyLedgerEntryInTx(tx, LedgerEntry{
				UserID:         input.UserID,
				Amount:         -input.PointsUsed,
				Reason:         ReasonOrderPointsUsed,
				IdempotencyKey: OrderPointsUsedKey(order.ID),
				Notes:          "order " + order.OrderNumber,
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// OrderByID finds an order by id
func (c *Client) OrderByID(ID int64) (*Order, error) {
	order := new(Order)
	err := c.Model(order).Where("id = ?", ID).First()
	if err == pg.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return order, nil
}

// OrdersByUser returns a user's orders, newest first
func (c *Client) OrdersByUser(userID int64) ([]Order, error) {
	orders := make([]Order, 0)
	err := c.Model(&orders).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Select()
	if err != nil {
		return nil, err
	}

	return orders, nil
}

// OrderItemsByOrder returns the lines of an order
func (c *Client) OrderItemsByOrder(orderID int64) ([]OrderItem, error) {
	items := make([]OrderItem, 0)
	err := c.Model(&items).Where("order_id = ?", orderID).Order("id").Select()
	if err != nil {
		return nil, err
	}

	return items, nil
}

// MarkOrderPaid flips the payment status once payment is confirmed
func (c *Client) MarkOrderPaid(orderID int64) (*Order, error) {
	order := new(Order)
	result, err := c.Model(order).
		Where("id = ?", orderID).
		Where("payment_status = ?", PaymentPending).
		Where("status <> ?", OrderCancelled).
		Set("payment_status = ?", PaymentPaid).
		Update()
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		existing, err := c.OrderByID(orderID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrNotFound
		}
		if existing.Status == OrderCancelled {
			return nil, ErrInvalidTransition
		}
		return nil, ErrAlreadyProcessed
	}

	return c.OrderByID(orderID)
}

// UpdateOrderStatus moves an order along the lifecycle. Entering completed
// settles the earned points exactly once: the guard is the conditional
// status update itself, and the ledger's idempotency key backs it up.
func (c *Client) UpdateOrderStatus(orderID int64, newStatus OrderStatus, adminID *int64) (*Order, error) {
	if newStatus == OrderCancelled {
		return c.CancelOrder(orderID, adminID)
	}

	var order *Order
	err := c.RunInTransaction(func(tx *pg.Tx) error {
		var err error
		order, err = orderForUpdateInTx(tx, orderID)
		if err != nil {
			return err
		}

		if !CanTransition(order.Status, newStatus) {
			return ErrInvalidTransition
		}
		if RequiresPayment(newStatus) && order.PaymentStatus != PaymentPaid {
			return ErrInvalidTransition
		}

		oldStatus := order.Status
		result, err := tx.Model(order).
			Where("id = ?", orderID).
			Where("status = ?", oldStatus).
			Set("status = ?", newStatus).
			Update()
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrAlreadyProcessed
		}
		order.Status = newStatus

		if newStatus == OrderCompleted && oldStatus != OrderCompleted {
			pointsEarned, err := earnedPointsInTx(tx, orderID)
			if err != nil {
				return err
			}
			if pointsEarned > 0 {
				_, err = c.applyLedgerEntryInTx(tx, LedgerEntry{
					UserID:         order.UserID,
					AdminID:        adminID,
					Amount:         pointsEarned,
					Reason:         ReasonOrderCompletion,
					IdempotencyKey: OrderCompletionKey(orderID),
					Notes:          "order " + order.OrderNumber,
				})
				if err != nil {
					return err
				}
			}
			_, err = tx.Model(order).
				Where("id = ?", orderID).
				Set("points_earned = ?", pointsEarned).
				Update()
			if err != nil {
				return err
			}
			order.PointsEarned = pointsEarned
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// CancelOrder cancels an order from any state. Cancelling after completion
// revokes the earned points; cancelling with unspent points_used refunds
// them exactly once; every line gets restocked.
func (c *Client) CancelOrder(orderID int64, adminID *int64) (*Order, error) {
	var order *Order
	err := c.RunInTransaction(func(tx *pg.Tx) error {
		var err error
		order, err = orderForUpdateInTx(tx, orderID)
		if err != nil {
			return err
		}
		if order.Status == OrderCancelled {
			return ErrAlreadyProcessed
		}

		oldStatus := order.Status
		result, err := tx.Model(order).
			Where("id = ?", orderID).
			Where("status = ?", oldStatus).
			Set("status = ?", OrderCancelled).
			Update()
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrAlreadyProcessed
		}
		order.Status = OrderCancelled

		if oldStatus == OrderCompleted && order.PointsEarned > 0 {
			completion, err := c.pointTransactionByKeyInTx(tx, OrderCompletionKey(orderID))
			if err != nil {
				return err
			}
			if completion != nil {
				_, err = c.reverseLedgerEntryInTx(tx, completion.ID, OrderCompletionReversalKey(orderID))
				if err != nil {
					return err
				}
			}
		}

		if order.PointsUsed > 0 && !order.PointsRefunded {
			refundResult, err := c.applyLedgerEntryInTx(tx, LedgerEntry{
				UserID:         order.UserID,
				AdminID:        adminID,
				Amount:         order.PointsUsed,
				Reason:         ReasonOrderPointsRefund,
				IdempotencyKey: OrderPointsRefundKey(orderID),
				Notes:          "order " + order.OrderNumber,
			})
			if err != nil {
				return err
			}
			if refundResult.Applied {
				_, err = tx.Model(order).
					Where("id = ?", orderID).
					Where("points_refunded is false").
					Set("points_refunded = true").
					Update()
				if err != nil {
					return err
				}
				order.PointsRefunded = true
			}
		}

		items, err := orderItemsInTx(tx, orderID)
		if err != nil {
			return err
		}
		for _, item := range items {
			err = restockInTx(tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func orderForUpdateInTx(tx *pg.Tx, orderID int64) (*Order, error) {
	order := new(Order)
	err := tx.Model(order).Where("id = ?", orderID).For("UPDATE").First()
	if err == pg.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func orderItemsInTx(tx *pg.Tx, orderID int64) ([]OrderItem, error) {
	items := make([]OrderItem, 0)
	err := tx.Model(&items).Where("order_id = ?", orderID).Select()
	if err != nil {
		return nil, err
	}
	return items, nil
}

// earnedPointsInTx sums the points snapshot over the order lines. The
// snapshot was taken at creation, so this is the only source of truth.
func earnedPointsInTx(tx *pg.Tx, orderID int64) (int64, error) {
	var earned int64
	_, err := tx.Query(pg.Scan(&earned),
		`SELECT COALESCE(SUM(quantity * points_reward), 0) FROM order_items WHERE order_id = ?`,
		orderID)
	if err != nil {
		return 0, err
	}
	return earned, nil
}

func (c *Client) pointTransactionByKeyInTx(tx *pg.Tx, key string) (*PointTransaction, error) {
	transaction := new(PointTransaction)
	err := tx.Model(transaction).Where("idempotency_key = ?", key).First()
	if err == pg.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// generateOrderNumber returns an order number derived from a ULID
func generateOrderNumber() string {
	t := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return "ORD-" + ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
