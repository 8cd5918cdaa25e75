package main

import (
	"fmt"

	"github.com/go-pg/migrations"
)

func init() {
	migrations.MustRegisterTx(func(db migrations.DB) error {
		fmt.Println("creating voting tables...")
		_, err := db.Exec(`CREATE TABLE voting_campaigns(
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			status VARCHAR (35) NOT NULL DEFAULT 'active',
			start_date TIMESTAMP NOT NULL,
			end_date TIMESTAMP NOT NULL,
			points_per_vote BIGINT NOT NULL DEFAULT 0,
			max_votes_per_user BIGINT NOT NULL DEFAULT 0,
			voting_frequency VARCHAR (25) NOT NULL DEFAULT 'unlimited',
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		);
		CREATE TABLE vote_entries(
			id BIGSERIAL PRIMARY KEY,
			campaign_id BIGINT NOT NULL REFERENCES voting_campaigns (id),
			title TEXT NOT NULL,
			is_approved BOOLEAN NOT NULL DEFAULT FALSE,
			vote_count BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		);
		CREATE INDEX vote_entries_campaign_id_idx ON vote_entries (campaign_id);
		CREATE TABLE user_votes(
			id BIGSERIAL PRIMARY KEY,
			campaign_id BIGINT NOT NULL REFERENCES voting_campaigns (id),
			entry_id BIGINT NOT NULL REFERENCES vote_entries (id),
			user_id BIGINT NOT NULL REFERENCES users (id),
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		);
		CREATE UNIQUE INDEX user_votes_campaign_entry_user_key ON user_votes (campaign_id,entry_id,user_id);`)
		return err
	}, func(db migrations.DB) error {
		fmt.Println("dropping voting tables...")
		_, err := db.Exec(`DROP TABLE user_votes; DROP TABLE vote_entries; DROP TABLE voting_campaigns`)
		return err
	})
}
