package main

import (
	"fmt"

	"github.com/go-pg/migrations"
)

func init() {
	migrations.MustRegisterTx(func(db migrations.DB) error {
		fmt.Println("creating surveys and survey_responses tables...")
		_, err := db.Exec(`CREATE TABLE surveys(
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			reward_points BIGINT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			start_date TIMESTAMP NOT NULL,
			end_date TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		);
		CREATE TABLE survey_responses(
			id BIGSERIAL PRIMARY KEY,
			survey_id BIGINT NOT NULL REFERENCES surveys (id),
			user_id BIGINT NOT NULL REFERENCES users (id),
			answers TEXT,
			points_earned BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		);
		CREATE UNIQUE INDEX survey_responses_survey_id_user_id_key ON survey_responses (survey_id,user_id);`)
		return err
	}, func(db migrations.DB) error {
		fmt.Println("dropping surveys and survey_responses tables...")
		_, err := db.Exec(`DROP TABLE survey_responses; DROP TABLE surveys`)
		return err
	})
}
