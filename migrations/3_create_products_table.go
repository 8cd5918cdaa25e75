package main

import (
	"fmt"

	"github.com/go-pg/migrations"
)

func init() {
	migrations.MustRegisterTx(func(db migrations.DB) error {
		fmt.Println("creating products table...")
		_, err := db.Exec(`CREATE TABLE products(
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			price BIGINT NOT NULL DEFAULT 0,
			points_reward BIGINT NOT NULL DEFAULT 0,
			stock BIGINT NOT NULL DEFAULT 0 CHECK (stock >= 0),
			purchase_count BIGINT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		)`)
		return err
	}, func(db migrations.DB) error {
		fmt.Println("dropping products table...")
		_, err := db.Exec(`DROP TABLE products`)
		return err
	})
}
