package main

import (
	"fmt"

	"github.com/go-pg/migrations"
)

func init() {
	migrations.MustRegisterTx(func(db migrations.DB) error {
		fmt.Println("creating contests and contest_submissions tables...")
		_, err := db.Exec(`CREATE TABLE contests(
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			question TEXT NOT NULL,
			points_per_answer BIGINT NOT NULL DEFAULT 0,
			reward_points BIGINT NOT NULL DEFAULT 0,
			answer TEXT,
			is_answer_published BOOLEAN NOT NULL DEFAULT FALSE,
			status VARCHAR (35) NOT NULL DEFAULT 'active',
			start_date TIMESTAMP NOT NULL,
			end_date TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		);
		CREATE TABLE contest_submissions(
			id BIGSERIAL PRIMARY KEY,
			contest_id BIGINT NOT NULL REFERENCES contests (id),
			user_id BIGINT NOT NULL REFERENCES users (id),
			answer TEXT NOT NULL,
			points_spent BIGINT NOT NULL DEFAULT 0,
			is_correct BOOLEAN NOT NULL DEFAULT FALSE,
			reward_points_earned BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		);
		CREATE INDEX contest_submissions_contest_id_idx ON contest_submissions (contest_id);`)
		return err
	}, func(db migrations.DB) error {
		fmt.Println("dropping contests and contest_submissions tables...")
		_, err := db.Exec(`DROP TABLE contest_submissions; DROP TABLE contests`)
		return err
	})
}
