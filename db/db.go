package db

import (
	"fmt"
	"os"

	"github.com/go-pg/pg"

	perkCtx "github.com/perkhub/perkhub/context"
)

// Client is a Postgres client.
// It wraps a pool of Postgres DB connections.
type Client struct {
	*pg.DB
	config perkCtx.Config
}

type dbLogger struct{}

func (d dbLogger) BeforeQuery(q *pg.QueryEvent) {
}

func (d dbLogger) AfterQuery(q *pg.QueryEvent) {
	fmt.Println(q.FormattedQuery())
}

// NewDBClient creates a Postgres client
func NewDBClient(config perkCtx.Config) *Client {
	db := pg.Connect(&pg.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Database.Host, config.Database.Port),
		User:     config.Database.User,
		Password: config.Database.Pass,
		Database: config.Database.Name,
		PoolSize: config.Database.Pool,
	})
	if os.Getenv("PG_DEBUG_QUERY") == "true" {
		db.AddQueryHook(dbLogger{})
	}

	return &Client{db, config}
}

