package operator

import (
	"errors"

	"parkgate/internal/domain/product"

	"github.com/google/uuid"
)

var (
	ErrUnauthorized     = errors.New("operator not authorized for this ticket")
	ErrOperatorDisabled = errors.New("operator is disabled")
)

// Authorize decides whether the operator may verify a ticket sold through the
// given channel for the given partner. Internal operators may verify anything;
// OTA operators only tickets from their own partner. Disabled or deleted
// operators are always denied, and denial is an error, never a silent skip.
func Authorize(op *Operator, channel product.Channel, partnerID *uuid.UUID) error {
	if op.State() != StateActive {
		return ErrOperatorDisabled
	}
	if op.OperatorType() == TypeInternal {
		return nil
	}

	if channel != product.ChannelOTA {
		return ErrUnauthorized
	}
	if partnerID == nil || op.PartnerID() == nil || *partnerID != *op.PartnerID() {
		return ErrUnauthorized
	}
	return nil
}
