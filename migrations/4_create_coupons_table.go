package main

import (
	"fmt"

	"github.com/go-pg/migrations"
)

func init() {
	migrations.MustRegisterTx(func(db migrations.DB) error {
		fmt.Println("creating coupons table...")
		_, err := db.Exec(`CREATE TABLE coupons(
			id BIGSERIAL PRIMARY KEY,
			code TEXT NOT NULL,
			discount_type VARCHAR (35) NOT NULL,
			discount_value BIGINT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			valid_from TIMESTAMP NOT NULL,
			valid_until TIMESTAMP NOT NULL,
			usage_limit BIGINT,
			used_count BIGINT NOT NULL DEFAULT 0,
			min_order_amount BIGINT NOT NULL DEFAULT 0,
			min_quantity BIGINT NOT NULL DEFAULT 0,
			allowed_user_ids BIGINT[],
			applicable_product_ids BIGINT[],
			excluded_product_ids BIGINT[],
			total_discount_given BIGINT NOT NULL DEFAULT 0,
			total_orders_affected BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		);
		CREATE UNIQUE INDEX coupons_code_key ON coupons (LOWER(code));`)
		return err
	}, func(db migrations.DB) error {
		fmt.Println("dropping coupons table...")
		_, err := db.Exec(`DROP TABLE coupons`)
		return err
	})
}
