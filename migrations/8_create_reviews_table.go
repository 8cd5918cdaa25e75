package main

import (
	"fmt"

	"github.com/go-pg/migrations"
)

func init() {
	migrations.MustRegisterTx(func(db migrations.DB) error {
		fmt.Println("creating reviews table...")
		_, err := db.Exec(`CREATE TABLE reviews(
			id BIGSERIAL PRIMARY KEY,
			product_id BIGINT NOT NULL REFERENCES products (id),
			user_id BIGINT NOT NULL REFERENCES users (id),
			rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
			body TEXT,
			is_approved BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		);
		CREATE UNIQUE INDEX reviews_product_id_user_id_key ON reviews (product_id,user_id);`)
		return err
	}, func(db migrations.DB) error {
		fmt.Println("dropping reviews table...")
		_, err := db.Exec(`DROP TABLE reviews`)
		return err
	})
}
