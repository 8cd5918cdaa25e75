package main

import (
	"fmt"

	"github.com/go-pg/migrations"
)

func init() {
	migrations.MustRegisterTx(func(db migrations.DB) error {
		fmt.Println("creating users table...")
		_, err := db.Exec(`CREATE TABLE users(
			id BIGSERIAL PRIMARY KEY,
			full_name TEXT,
			username TEXT NOT NULL,
			email TEXT NOT NULL,
			password TEXT NOT NULL,
			points BIGINT NOT NULL DEFAULT 0 CHECK (points >= 0),
			referral_code TEXT NOT NULL,
			referred_by BIGINT,
			role VARCHAR (25) NOT NULL DEFAULT 'member',
			last_authenticated_at TIMESTAMP,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		);
		CREATE UNIQUE INDEX users_username_key ON users (LOWER(username));
		CREATE UNIQUE INDEX users_email_key ON users (LOWER(email));
		CREATE UNIQUE INDEX users_referral_code_key ON users (referral_code);`)
		return err
	}, func(db migrations.DB) error {
		fmt.Println("dropping users table...")
		_, err := db.Exec(`DROP TABLE users`)
		return err
	})
}
