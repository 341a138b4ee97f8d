// 文件路径: internal/repository/sqlite/store.go
// 模块说明: 本地 SQLite 文档库，供未接入托管内容存储时使用。
package sqlite

import (
	"context"
	"database/sql"

	"github.com/creamcroissant/shopadmin/internal/repository"
)

// Store wires SQLite-backed repository implementations.
type Store struct {
	db     *sql.DB
	orders *orderRepo
}

// NewStore constructs a SQLite-backed repository store.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:     db,
		orders: &orderRepo{db: db, now: nowUnix},
	}
}

func (s *Store) Orders() repository.OrderRepository {
	return s.orders
}

// Seed inserts or replaces orders together with their cart items.
func (s *Store) Seed(ctx context.Context, orders []*repository.Order) (int, error) {
	return s.orders.upsertAll(ctx, orders)
}

// Ping implements repository.HealthChecker.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB exposes the underlying handle for maintenance commands.
func (s *Store) DB() *sql.DB {
	return s.db
}
