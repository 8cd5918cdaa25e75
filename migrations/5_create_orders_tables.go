package main

import (
	"fmt"

	"github.com/go-pg/migrations"
)

func init() {
	migrations.MustRegisterTx(func(db migrations.DB) error {
		fmt.Println("creating orders and order_items tables...")
		_, err := db.Exec(`CREATE TABLE orders(
			id BIGSERIAL PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			user_id BIGINT NOT NULL REFERENCES users (id),
			status VARCHAR (35) NOT NULL DEFAULT 'pending',
			payment_status VARCHAR (35) NOT NULL DEFAULT 'pending',
			total_amount BIGINT NOT NULL DEFAULT 0,
			discount_amount BIGINT NOT NULL DEFAULT 0,
			points_earned BIGINT NOT NULL DEFAULT 0,
			points_used BIGINT NOT NULL DEFAULT 0,
			points_refunded BOOLEAN NOT NULL DEFAULT FALSE,
			coupon_id BIGINT REFERENCES coupons (id),
			shipping_address TEXT,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		);
		CREATE INDEX orders_user_id_idx ON orders (user_id);
		CREATE TABLE order_items(
			id BIGSERIAL PRIMARY KEY,
			order_id BIGINT NOT NULL REFERENCES orders (id),
			product_id BIGINT NOT NULL REFERENCES products (id),
			quantity BIGINT NOT NULL CHECK (quantity > 0),
			unit_price BIGINT NOT NULL DEFAULT 0,
			points_reward BIGINT NOT NULL DEFAULT 0,
			total_price BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		);
		CREATE INDEX order_items_order_id_idx ON order_items (order_id);`)
		return err
	}, func(db migrations.DB) error {
		fmt.Println("dropping orders and order_items tables...")
		_, err := db.Exec(`DROP TABLE order_items; DROP TABLE orders`)
		return err
	})
}
