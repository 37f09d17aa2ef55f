//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"parkgate/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// TestPassword is the plaintext behind every fixture operator's hash.
const TestPassword = "password123"

var (
	testHashOnce sync.Once
	testHash     string
)

func testPasswordHash(t *testing.T) string {
	t.Helper()
	testHashOnce.Do(func() {
		h, err := password.HashPassword(TestPassword)
		require.NoError(t, err)
		testHash = h
	})
	return testHash
}

func CreateTestOperator(t *testing.T, db DBLike, username, operatorType string, partnerID *uuid.UUID) uuid.UUID {
	t.Helper()

	operatorID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, `
		INSERT INTO operators (id, username, password_hash, operator_type, partner_id, state)
		VALUES ($1, $2, $3, $4, $5, 'active')
		ON CONFLICT (username) DO NOTHING`,
		operatorID, username, testPasswordHash(t), operatorType, partnerID)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM operators WHERE username = $1", username).Scan(&operatorID)
	}

	return operatorID
}

// CreateTestProduct inserts a product with its empty inventory row.
func CreateTestProduct(t *testing.T, db DBLike, name string, sellableCap, online, ota, onsite int) uuid.UUID {
	t.Helper()

	productID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO products (id, name, sellable_cap, alloc_online, alloc_ota, alloc_onsite, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'active')`,
		productID, name, sellableCap, online, ota, onsite)
	require.NoError(t, err)

	_, err = db.Exec(ctx, "INSERT INTO product_inventories (product_id) VALUES ($1)", productID)
	require.NoError(t, err)

	return productID
}

func CreateTestSlot(t *testing.T, db DBLike, venueID uuid.UUID, start, end time.Time, capacity int) uuid.UUID {
	t.Helper()

	slotID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO reservation_slots (id, venue_id, slot_date, start_time, end_time, capacity, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'active')`,
		slotID, venueID, start.Truncate(24*time.Hour), start, end, capacity)
	require.NoError(t, err)

	return slotID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between subtests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
