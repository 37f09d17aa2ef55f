package commands

import (
	"context"

	"parkgate/internal/infra"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/pkg/jwt"
	"parkgate/internal/pkg/password"
	"parkgate/internal/usecase/shared"
)

type LoginResult struct {
	AccessToken string
}

type AuthCommands interface {
	Login(ctx context.Context, username, plainPassword string) (*LoginResult, error)
}

type authCommandsImpl struct {
	uow shared.UnitOfWork
	jwt *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{uow: uow, jwt: jwtService}
}

func (c *authCommandsImpl) Login(ctx context.Context, username, plainPassword string) (*LoginResult, error) {
	op, err := c.uow.Reads().OperatorByUsername(ctx, username)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrInvalidCredentials
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if !op.IsActive() {
		return nil, errs.ErrInvalidCredentials
	}
	if err := password.ComparePassword(op.PasswordHash(), plainPassword); err != nil {
		return nil, errs.ErrInvalidCredentials
	}

	token, err := c.jwt.GenerateToken(op.ID(), op.OperatorType())
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate token")
	}

	return &LoginResult{AccessToken: token}, nil
}
