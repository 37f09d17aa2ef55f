package repository

import (
	"context"
	"time"

	"parkgate/internal/domain/operator"
	"parkgate/internal/infra"
	"parkgate/internal/infra/db"

	"github.com/google/uuid"
)

type OperatorRepository struct {
	db db.DBTX
}

func NewOperatorRepository(dbtx db.DBTX) *OperatorRepository {
	return &OperatorRepository{db: dbtx}
}

func (r *OperatorRepository) Create(ctx context.Context, o *operator.Operator) error {
	const query = `
		INSERT INTO operators (id, username, password_hash, operator_type, partner_id, state)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		o.ID(), o.Username(), o.PasswordHash(), string(o.OperatorType()), o.PartnerID(), string(o.State()),
	)
	if err != nil {
		return classifyWriteErr("failed to create operator", err)
	}
	return nil
}

func (r *OperatorRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*operator.Operator, error) {
	const query = `
		SELECT id, username, password_hash, operator_type, partner_id, state, created_at, updated_at
		FROM operators
		WHERE id = $1
		FOR UPDATE`

	return scanOperator(r.db.QueryRow(ctx, query, id))
}

func (r *OperatorRepository) Update(ctx context.Context, o *operator.Operator) error {
	const query = `
		UPDATE operators
		SET password_hash = $2, state = $3, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, o.ID(), o.PasswordHash(), string(o.State()))
	if err != nil {
		return infra.WrapRepoErr("failed to update operator", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("operator not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanOperator(row interface{ Scan(dest ...any) error }) (*operator.Operator, error) {
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
