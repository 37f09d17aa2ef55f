package readstore

import (
	"context"
	"time"

	"parkgate/internal/domain/operator"
	"parkgate/internal/infra"
	"parkgate/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OperatorReadStore struct {
	db db.DBTX
}

func NewOperatorReadStore(dbtx db.DBTX) *OperatorReadStore {
	return &OperatorReadStore{db: dbtx}
}

const operatorColumns = `id, username, password_hash, operator_type, partner_id, state, created_at, updated_at`

func (r *OperatorReadStore) FindByID(ctx context.Context, id uuid.UUID) (*operator.Operator, error) {
	query := `SELECT ` + operatorColumns + ` FROM operators WHERE id = $1`
	return scanOperatorRow(r.db.QueryRow(ctx, query, id))
}

func (r *OperatorReadStore) FindByUsername(ctx context.Context, username string) (*operator.Operator, error) {
	query := `SELECT ` + operatorColumns + ` FROM operators WHERE username = $1`
	return scanOperatorRow(r.db.QueryRow(ctx, query, username))
}

func scanOperatorRow(row pgx.Row) (*operator.Operator, error) {
	var (
		id                   uuid.UUID
		username, hash       string
		opType, state        string
		partnerID            *uuid.UUID
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &username, &hash, &opType, &partnerID, &state, &createdAt, &updatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("operator not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find operator", err)
	}

	return operator.Reconstruct(
		id, username, hash,
		operator.Type(opType), partnerID, operator.State(state),
		createdAt, updatedAt,
	), nil
}
