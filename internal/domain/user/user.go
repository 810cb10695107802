package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidRole     = errors.New("invalid role")
	ErrNegativeStrikes = errors.New("strikes must be non-negative")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func NewRole(value string) (Role, error) {
	switch Role(value) {
	case RoleUser, RoleAdmin:
		return Role(value), nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) String() string {
	return string(r)
}

// Level orders roles for RequireRoleAtLeast checks.
func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// User is a borrower account. Ban fields are mutated only by the penalty
// engine and by the lazy expiry in ClearBanIfExpired; strikes only grow.
type User struct {
	id           uuid.UUID
	username     string
	email        string
	passwordHash string
	role         Role
	totalStrikes int
	isBanned     bool
	banUntil     *time.Time
	banReason    *string
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(username, email, passwordHash string, role Role) *User {
	return &User{
		id:           uuid.New(),
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
	}
}

func ReconstructUser(
	id uuid.UUID,
	username, email, passwordHash string,
	role Role,
	totalStrikes int,
	isBanned bool,
	banUntil *time.Time,
	banReason *string,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		totalStrikes: totalStrikes,
		isBanned:     isBanned,
		banUntil:     banUntil,
		banReason:    banReason,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// AddStrikes raises the strike total. There is no subtraction operation;
// strikes are monotonic by design of the penalty policy.
func (u *User) AddStrikes(n int) error {
	if n < 0 {
		return ErrNegativeStrikes
	}
	u.totalStrikes += n
	return nil
}

// Ban suspends borrowing. until == nil means no expiry.
func (u *User) Ban(until *time.Time, reason string) {
	u.isBanned = true
	u.banUntil = until
	u.banReason = &reason
}

// ClearBanIfExpired is the lazy self-heal: a ban with an expiry in the past
// is lifted on the next gate check. Permanent bans (nil banUntil) never
// expire.
func (u *User) ClearBanIfExpired(now time.Time) bool {
	if !u.isBanned || u.banUntil == nil {
		return false
	}
	if u.banUntil.After(now) {
		return false
	}
	u.isBanned = false
	u.banUntil = nil
	u.banReason = nil
	return true
}

func (u *User) ChangeRole(role Role) {
	u.role = role
}

func (u *User) IsAdmin() bool {
	return u.role == RoleAdmin
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Username() string     { return u.username }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() Role           { return u.role }
func (u *User) TotalStrikes() int    { return u.totalStrikes }
func (u *User) IsBanned() bool       { return u.isBanned }
func (u *User) BanUntil() *time.Time { return u.banUntil }
func (u *User) BanReason() *string   { return u.banReason }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }
