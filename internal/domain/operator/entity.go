package operator

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyUsername   = errors.New("operator username must not be empty")
	ErrPartnerRequired = errors.New("ota operator requires a partner id")
)

type Operator struct {
	id           uuid.UUID
	username     string
	passwordHash string
	operatorType Type
	partnerID    *uuid.UUID
	state        State
	createdAt    time.Time
	updatedAt    time.Time
}

func NewOperator(username, passwordHash string, operatorType Type, partnerID *uuid.UUID) (*Operator, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if operatorType == TypeOTA && partnerID == nil {
		return nil, ErrPartnerRequired
	}
	if operatorType == TypeInternal {
		// partnerId is meaningful only for OTA operators
		partnerID = nil
	}

	return &Operator{
		id:           uuid.New(),
		username:     username,
		passwordHash: passwordHash,
		operatorType: operatorType,
		partnerID:    partnerID,
		state:        StateActive,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	username, passwordHash string,
	operatorType Type,
	partnerID *uuid.UUID,
	state State,
	createdAt, updatedAt time.Time,
) *Operator {
	return &Operator{
		id:           id,
		username:     username,
		passwordHash: passwordHash,
		operatorType: operatorType,
		partnerID:    partnerID,
		state:        state,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (o *Operator) ID() uuid.UUID         { return o.id }
func (o *Operator) Username() string      { return o.username }
func (o *Operator) PasswordHash() string  { return o.passwordHash }
func (o *Operator) OperatorType() Type    { return o.operatorType }
func (o *Operator) PartnerID() *uuid.UUID { return o.partnerID }
func (o *Operator) State() State          { return o.state }
func (o *Operator) CreatedAt() time.Time  { return o.createdAt }
func (o *Operator) UpdatedAt() time.Time  { return o.updatedAt }

func (o *Operator) IsActive() bool {
	return o.state == StateActive
}

func (o *Operator) Disable() {
	o.state = StateDisabled
}

func (o *Operator) Delete() {
	o.state = StateDeleted
}
