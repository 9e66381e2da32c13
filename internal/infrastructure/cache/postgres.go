package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"visual-search/internal/domain/port"
)

const schema = `
create table if not exists similar_products (
  item_id     text primary key,
  product_ids jsonb not null,
  created_at  timestamptz not null default now()
)`

// OpenPostgres открывает пул соединений через драйвер pgx и проверяет связь.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	return db, nil
}

// PostgresCache хранит списки похожих товаров в таблице similar_products.
type PostgresCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewPostgresCache(db *sql.DB, ttl time.Duration) *PostgresCache {
	return &PostgresCache{DB: db, TTL: ttl}
}

// EnsureSchema создаёт таблицу, если её нет.
func (c *PostgresCache) EnsureSchema(ctx context.Context) error {
	_, err := c.DB.ExecContext(ctx, schema)
	return err
}

// Get достаёт запись по id предмета. Если TTL > 0, проверяет "свежесть".
func (c *PostgresCache) Get(ctx context.Context, itemID string) ([]string, bool, error) {
	const q = `select product_ids, created_at from similar_products where item_id = $1`

	var (
		js []byte
		ts time.Time
	)
	if err := c.DB.QueryRowContext(ctx, q, itemID).Scan(&js, &ts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if c.TTL > 0 && time.Since(ts) > c.TTL {
		return nil, false, nil
	}

	var ids []string
	if err := json.Unmarshal(js, &ids); err != nil {
		// битый JSON считаем промахом
		return nil, false, nil
	}
	return ids, true, nil
}

// Put сохраняет или обновляет запись.
func (c *PostgresCache) Put(ctx context.Context, itemID string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	js, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	const q = `
insert into similar_products (item_id, product_ids, created_at)
values ($1, $2, now())
on conflict (item_id) do update
set product_ids = excluded.product_ids,
    created_at = excluded.created_at`
	_, err = c.DB.ExecContext(ctx, q, itemID, js)
	return err
}

// PurgeOlderThan удаляет устаревшие записи.
func (c *PostgresCache) PurgeOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, errors.New("olderThan must be > 0")
	}
	const q = `delete from similar_products where created_at < $1`
	res, err := c.DB.ExecContext(ctx, q, time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	aff, _ := res.RowsAffected()
	return aff, nil
}

var _ port.SimilarityCache = (*PostgresCache)(nil)
