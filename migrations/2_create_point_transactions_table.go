package main

import (
	"fmt"

	"github.com/go-pg/migrations"
)

func init() {
	migrations.MustRegisterTx(func(db migrations.DB) error {
		fmt.Println("creating point_transactions table...")
		_, err := db.Exec(`CREATE TABLE point_transactions(
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users (id),
			admin_id BIGINT,
			amount BIGINT NOT NULL,
			reason VARCHAR (65) NOT NULL,
			idempotency_key TEXT NOT NULL,
			notes TEXT,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		);
		CREATE UNIQUE INDEX point_transactions_idempotency_key_key ON point_transactions (idempotency_key);
		CREATE INDEX point_transactions_user_id_idx ON point_transactions (user_id);`)
		return err
	}, func(db migrations.DB) error {
		fmt.Println("dropping point_transactions table...")
		_, err := db.Exec(`DROP TABLE point_transactions`)
		return err
	})
}
