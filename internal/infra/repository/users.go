package repository

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"gearlend/internal/domain/user"
	"gearlend/internal/infra"
	"gearlend/internal/infra/db"
	"gearlend/internal/pkg/pgconv"
	"gearlend/internal/usecase/queries"
)

type UserRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewUserRepository(pool db.DBTX, logger *slog.Logger) *UserRepository {
	return &UserRepository{db: pool, logger: logger}
}

const userColumns = `id, username, email, password_hash, role, total_strikes, is_banned, ban_until, ban_reason, created_at, updated_at`

func (r *UserRepository) scanUser(row interface{ Scan(dest ...any) error }) (*user.User, error) {
	var (
		id                   uuid.UUID
		username, email      string
		passwordHash, role   string
		totalStrikes         int
		isBanned             bool
		banUntil             pgtype.Timestamptz
		banReason            pgtype.Text
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &username, &email, &passwordHash, &role, &totalStrikes, &isBanned, &banUntil, &banReason, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return user.ReconstructUser(
		id, username, email, passwordHash,
		user.Role(role),
		totalStrikes, isBanned,
		pgconv.TimePtrFromPgtype(banUntil),
		pgconv.StringPtrFromPgtype(banReason),
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func (r *UserRepository) Create(ctx context.Context, tx db.DBTX, u *user.User) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID(), u.Username(), u.Email(), u.PasswordHash(), u.Role().String())
	if err != nil {
		return wrapPgErr(r.logger, "failed to create user", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*user.User, error) {
	u, err := r.scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, wrapPgErr(r.logger, "failed to find user", err)
	}
	return u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, tx db.DBTX, username string) (*user.User, error) {
	u, err := r.scanUser(tx.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, wrapPgErr(r.logger, "failed to find user by username", err)
	}
	return u, nil
}

func (r *UserRepository) UpdatePenaltyState(ctx context.Context, tx db.DBTX, u *user.User) error {
	tag, err := tx.Exec(ctx,
		`UPDATE users
		 SET total_strikes = $2, is_banned = $3, ban_until = $4, ban_reason = $5, updated_at = now()
		 WHERE id = $1`,
		u.ID(), u.TotalStrikes(), u.IsBanned(),
		pgconv.TimePtrToPgtype(u.BanUntil()), pgconv.StringPtrToPgtype(u.BanReason()))
	if err != nil {
		return wrapPgErr(r.logger, "failed to update penalty state", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "user not found for penalty update", nil)
	}
	return nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, tx db.DBTX, id uuid.UUID, role user.Role) error {
	tag, err := tx.Exec(ctx,
		`UPDATE users SET role = $2, updated_at = now() WHERE id = $1`, id, role.String())
	if err != nil {
		return wrapPgErr(r.logger, "failed to update role", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "user not found for role update", nil)
	}
	return nil
}

// UserViewRepository lists accounts for admin screens. Password hashes never
// cross this boundary.
type UserViewRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewUserViewRepository(pool db.DBTX, logger *slog.Logger) *UserViewRepository {
	return &UserViewRepository{db: pool, logger: logger}
}

const userViewQuery = `
	SELECT id, username, email, role, total_strikes, is_banned, ban_until, ban_reason, created_at
	FROM users`

func (r *UserViewRepository) ListAll(ctx context.Context) ([]*queries.UserView, error) {
	rows, err := r.db.Query(ctx, userViewQuery+` ORDER BY username`)
	if err != nil {
		return nil, wrapPgErr(r.logger, "failed to list users", err)
	}
	defer rows.Close()

	var out []*queries.UserView
	for rows.Next() {
		v, err := r.scanView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgErr(r.logger, "failed to iterate users", err)
	}
	return out, nil
}

func (r *UserViewRepository) FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	return r.scanView(r.db.QueryRow(ctx, userViewQuery+` WHERE id = $1`, id))
}

func (r *UserViewRepository) scanView(row interface{ Scan(dest ...any) error }) (*queries.UserView, error) {
	var (
		v         queries.UserView
		banUntil  pgtype.Timestamptz
		banReason pgtype.Text
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&v.ID, &v.Username, &v.Email, &v.Role, &v.TotalStrikes, &v.IsBanned, &banUntil, &banReason, &createdAt); err != nil {
		return nil, wrapPgErr(r.logger, "failed to scan user view", err)
	}
	v.BanUntil = pgconv.TimePtrFromPgtype(banUntil)
	v.BanReason = pgconv.StringPtrFromPgtype(banReason)
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	return &v, nil
}
