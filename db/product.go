package db

import (
	"github.com/go-pg/pg"
)

// Product is an item in the shop catalog. PointsReward is the number of
// points one unit earns on order completion; it gets snapshotted into order
// items at creation time so later catalog edits never change what an
// in-flight order pays out.
type Product struct {
	Timestamps

	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         int64  `json:"price"`
	PointsReward  int64  `json:"points_reward" sql:"type:,notnull"`
	Stock         int64  `json:"stock" sql:"type:,notnull"`
	PurchaseCount int64  `json:"purchase_count" sql:"type:,notnull"`
	IsActive      bool   `json:"is_active"`
}

// Products returns all active products
func (c *Client) Products() ([]Product, error) {
	products := make([]Product, 0)
	err := c.Model(&products).
		Where("is_active is true").
		Where("deleted_at IS NULL").
		Order("id").
		Select()
	if err != nil {
		return nil, err
	}

	return products, nil
}

// ProductByID finds a product by id
func (c *Client) ProductByID(ID int64) (*Product, error) {
	product := new(Product)
	err := c.Model(product).Where("id = ?", ID).First()
	if err == pg.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return product, nil
}

// reserveStockInTx takes quantity units off the shelf. The predicate keeps
// concurrent orders from overselling; zero rows means not enough stock.
func reserveStockInTx(tx *pg.Tx, productID int64, quantity int64) error {
	result, err := tx.Model((*Product)(nil)).
		Where("id = ?", productID).
		Where("stock >= ?", quantity).
		Where("is_active is true").
		Set("stock = stock - ?", quantity).
		Set("purchase_count = purchase_count + ?", quantity).
		Update()
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrOutOfStock
	}
	return nil
}

// restockInTx puts quantity units back on cancellation
func restockInTx(tx *pg.Tx, productID int64, quantity int64) error {
	_, err := tx.Model((*Product)(nil)).
		Where("id = ?", productID).
		Set("stock = stock + ?", quantity).
		Set("purchase_count = GREATEST(purchase_count - ?, 0)", quantity).
		Update()
	return err
}
