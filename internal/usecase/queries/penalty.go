package queries

import (
	"context"

	"github.com/google/uuid"
)

type PenaltyViewRepo interface {
	ListAll(ctx context.Context) ([]*PenaltyView, error)
	ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*PenaltyView, error)
}

type UserViewRepo interface {
	ListAll(ctx context.Context) ([]*UserView, error)
	FindByID(ctx context.Context, id uuid.UUID) (*UserView, error)
}

type PenaltyQueries interface {
	ListPenalties(ctx context.Context) ([]*PenaltyView, error)
	PenaltiesByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*PenaltyView, error)
}

type UserQueries interface {
	ListUsers(ctx context.Context) ([]*UserView, error)
	GetUser(ctx context.Context, id uuid.UUID) (*UserView, error)
}

type penaltyQueriesImpl struct {
	repo PenaltyViewRepo
}

func NewPenaltyQueries(repo PenaltyViewRepo) PenaltyQueries {
	return &penaltyQueriesImpl{repo: repo}
}

func (q *penaltyQueriesImpl) ListPenalties(ctx context.Context) ([]*PenaltyView, error) {
	return q.repo.ListAll(ctx)
}

func (q *penaltyQueriesImpl) PenaltiesByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]*PenaltyView, error) {
	return q.repo.ListByBorrower(ctx, borrowerID)
}

type userQueriesImpl struct {
	repo UserViewRepo
}

func NewUserQueries(repo UserViewRepo) UserQueries {
	return &userQueriesImpl{repo: repo}
}

func (q *userQueriesImpl) ListUsers(ctx context.Context) ([]*UserView, error) {
	return q.repo.ListAll(ctx)
}

func (q *userQueriesImpl) GetUser(ctx context.Context, id uuid.UUID) (*UserView, error) {
	return q.repo.FindByID(ctx, id)
}
