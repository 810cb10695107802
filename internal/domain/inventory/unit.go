package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyPoolName     = errors.New("pool name must not be empty")
	ErrInvalidUnitStatus = errors.New("invalid unit status")
)

type UnitStatus string

const (
	UnitAvailable UnitStatus = "available"
	UnitReserved  UnitStatus = "reserved"
)

func (s UnitStatus) String() string {
	return string(s)
}

// Unit is one physical item. Units sharing a name form a pool; the pool is
// derived at query time and never persisted.
//
// The status field is a convenience projection of "reserved right now". It is
// written only by the reserve and return flows and must never be read to
// answer range-scoped availability questions; those re-derive from
// reservation overlap.
type Unit struct {
	id        uuid.UUID
	name      string
	category  string
	imageRef  *string
	status    UnitStatus
	createdAt time.Time
	updatedAt time.Time
}

func NewUnit(name, category string, imageRef *string) (*Unit, error) {
	if name == "" {
		return nil, ErrEmptyPoolName
	}
	return &Unit{
		id:       uuid.New(),
		name:     name,
		category: category,
		imageRef: imageRef,
		status:   UnitAvailable,
	}, nil
}

func ReconstructUnit(
	id uuid.UUID,
	name, category string,
	imageRef *string,
	status UnitStatus,
	createdAt, updatedAt time.Time,
) *Unit {
	return &Unit{
		id:        id,
		name:      name,
		category:  category,
		imageRef:  imageRef,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (u *Unit) MarkReserved()  { u.status = UnitReserved }
func (u *Unit) MarkAvailable() { u.status = UnitAvailable }

func (u *Unit) IsAvailableNow() bool {
	return u.status == UnitAvailable
}

func (u *Unit) Rename(name, category string, imageRef *string) error {
	if name == "" {
		return ErrEmptyPoolName
	}
	u.name = name
	u.category = category
	u.imageRef = imageRef
	return nil
}

func (u *Unit) ID() uuid.UUID        { return u.id }
func (u *Unit) Name() string         { return u.name }
func (u *Unit) Category() string     { return u.category }
func (u *Unit) ImageRef() *string    { return u.imageRef }
func (u *Unit) Status() UnitStatus   { return u.status }
func (u *Unit) CreatedAt() time.Time { return u.createdAt }
func (u *Unit) UpdatedAt() time.Time { return u.updatedAt }
