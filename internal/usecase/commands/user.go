package commands

import (
	"context"

	"github.com/google/uuid"

	"gearlend/internal/domain/user"
	"gearlend/internal/infra"
	"gearlend/internal/infra/db"
	"gearlend/internal/pkg/errs"
	"gearlend/internal/pkg/jwt"
	"gearlend/internal/pkg/password"
	"gearlend/internal/usecase/shared"
)

var (
	ErrUsernameTaken      = errs.New("username already taken")
	ErrInvalidCredentials = errs.New("invalid credentials")
	ErrInvalidRole        = errs.New("invalid role")
)

type LoginResult struct {
	Token    string
	UserID   uuid.UUID
	Username string
	Role     user.Role
}

type UserCommands interface {
	// Register creates the account on first login, mirroring how external
	// identities are synced into the local users table.
	Register(ctx context.Context, username, email, plainPassword string) (uuid.UUID, error)
	Login(ctx context.Context, username, plainPassword string) (*LoginResult, error)
	UpdateRole(ctx context.Context, userID uuid.UUID, role string) error
}

type userUseCaseImpl struct {
	userRepo UserRepository
	jwt      *jwt.Service
	uow      shared.UnitOfWork
}

func NewUserUseCase(userRepo UserRepository, jwtService *jwt.Service, uow shared.UnitOfWork) UserCommands {
	return &userUseCaseImpl{
		userRepo: userRepo,
		jwt:      jwtService,
		uow:      uow,
	}
}

func (u *userUseCaseImpl) Register(ctx context.Context, username, email, plainPassword string) (uuid.UUID, error) {
	hash, err := password.HashPassword(plainPassword)
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "failed to hash password")
	}

	account := user.NewUser(username, email, hash, user.RoleUser)

	err = u.uow.Within(ctx, func(tx db.DBTX) error {
		return u.userRepo.Create(ctx, tx, account)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, errs.Mark(err, ErrUsernameTaken)
		}
		return uuid.Nil, err
	}
	return account.ID(), nil
}

func (u *userUseCaseImpl) Login(ctx context.Context, username, plainPassword string) (*LoginResult, error) {
	var account *user.User
	err := u.uow.WithDB(ctx, func(dbtx db.DBTX) error {
		var findErr error
		account, findErr = u.userRepo.FindByUsername(ctx, dbtx, username)
		return findErr
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrInvalidCredentials)
		}
		return nil, err
	}

	if err := password.ComparePassword(account.PasswordHash(), plainPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := u.jwt.GenerateToken(account.ID(), account.Username(), account.Role())
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate token")
	}

	return &LoginResult{
		Token:    token,
		UserID:   account.ID(),
		Username: account.Username(),
		Role:     account.Role(),
	}, nil
}

func (u *userUseCaseImpl) UpdateRole(ctx context.Context, userID uuid.UUID, role string) error {
	newRole, err := user.NewRole(role)
	if err != nil {
		return errs.Mark(err, ErrInvalidRole)
	}

	return u.uow.Within(ctx, func(tx db.DBTX) error {
		if err := u.userRepo.UpdateRole(ctx, tx, userID, newRole); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrUserNotFound)
			}
			return err
		}
		return nil
	})
}
