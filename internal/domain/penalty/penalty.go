package penalty

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeLateReturn   Type = "late_return"
	TypeMinorDamage  Type = "minor_damage"
	TypeMajorDamage  Type = "major_damage"
	TypeSevereDamage Type = "severe_damage"
	TypeLost         Type = "lost"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type CompensationStatus string

const (
	CompensationNone    CompensationStatus = "none"
	CompensationPending CompensationStatus = "pending"
	CompensationPaid    CompensationStatus = "paid"
)

// Assess maps an incident to strikes and severity.
//
//	late_return  daysLate <= 3   1 low
//	late_return  daysLate <= 7   2 medium
//	late_return  daysLate >  7   3 high
//	minor_damage                 1 low
//	major_damage                 2 medium
//	severe_damage                3 high
//	lost                         3 critical
//	anything else                1 low
func Assess(penaltyType Type, daysLate int) (strikes int, severity Severity) {
	switch penaltyType {
	case TypeLateReturn:
		switch {
		case daysLate <= 3:
			return 1, SeverityLow
		case daysLate <= 7:
			return 2, SeverityMedium
		default:
			return 3, SeverityHigh
		}
	case TypeMinorDamage:
		return 1, SeverityLow
	case TypeMajorDamage:
		return 2, SeverityMedium
	case TypeSevereDamage:
		return 3, SeverityHigh
	case TypeLost:
		return 3, SeverityCritical
	default:
		return 1, SeverityLow
	}
}

// PermanentBanUntil is the far-future sentinel stored for permanent bans, so
// the ban column stays non-null and comparisons keep working.
var PermanentBanUntil = time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)

// BanDecision is the outcome of recomputing the ban tier from a borrower's
// cumulative strike total.
type BanDecision struct {
	Banned    bool
	Permanent bool
	Until     *time.Time
	Reason    string
}

// DecideBan applies the cumulative thresholds: 6+ strikes permanent, 4-5
// strikes 60 days, 3 strikes 30 days, below that no ban.
func DecideBan(totalStrikes int, now time.Time) BanDecision {
	switch {
	case totalStrikes >= 6:
		until := PermanentBanUntil
		return BanDecision{
			Banned:    true,
			Permanent: true,
			Until:     &until,
			Reason:    fmt.Sprintf("Permanently banned after accumulating %d strikes", totalStrikes),
		}
	case totalStrikes >= 4:
		until := now.AddDate(0, 0, 60)
		return BanDecision{
			Banned: true,
			Until:  &until,
			Reason: fmt.Sprintf("Banned for 60 days after accumulating %d strikes", totalStrikes),
		}
	case totalStrikes == 3:
		until := now.AddDate(0, 0, 30)
		return BanDecision{
			Banned: true,
			Until:  &until,
			Reason: fmt.Sprintf("Banned for 30 days after accumulating %d strikes", totalStrikes),
		}
	default:
		return BanDecision{}
	}
}

// Penalty is one immutable incident record. Only the compensation status may
// change after creation.
type Penalty struct {
	id                 uuid.UUID
	borrowerID         uuid.UUID
	reservationID      *uuid.UUID
	unitID             *uuid.UUID
	penaltyType        Type
	daysLate           int
	strikesGiven       int
	severity           Severity
	description        *string
	compensationAmount float64
	compensationStatus CompensationStatus
	createdAt          time.Time
}

// NewPenalty assesses the incident and builds the record. daysLate only
// matters for late returns and is stored as given for the audit trail.
func NewPenalty(
	borrowerID uuid.UUID,
	reservationID, unitID *uuid.UUID,
	penaltyType Type,
	daysLate int,
	description *string,
	compensationAmount float64,
) *Penalty {
	strikes, severity := Assess(penaltyType, daysLate)
	compStatus := CompensationNone
	if compensationAmount > 0 {
		compStatus = CompensationPending
	}
	return &Penalty{
		id:                 uuid.New(),
		borrowerID:         borrowerID,
		reservationID:      reservationID,
		unitID:             unitID,
		penaltyType:        penaltyType,
		daysLate:           daysLate,
		strikesGiven:       strikes,
		severity:           severity,
		description:        description,
		compensationAmount: compensationAmount,
		compensationStatus: compStatus,
	}
}

func ReconstructPenalty(
	id, borrowerID uuid.UUID,
	reservationID, unitID *uuid.UUID,
	penaltyType Type,
	daysLate, strikesGiven int,
	severity Severity,
	description *string,
	compensationAmount float64,
	compensationStatus CompensationStatus,
	createdAt time.Time,
) *Penalty {
	return &Penalty{
		id:                 id,
		borrowerID:         borrowerID,
		reservationID:      reservationID,
		unitID:             unitID,
		penaltyType:        penaltyType,
		daysLate:           daysLate,
		strikesGiven:       strikesGiven,
		severity:           severity,
		description:        description,
		compensationAmount: compensationAmount,
		compensationStatus: compensationStatus,
		createdAt:          createdAt,
	}
}

func (p *Penalty) MarkCompensationPaid() {
	p.compensationStatus = CompensationPaid
}

func (p *Penalty) ID() uuid.UUID                          { return p.id }
func (p *Penalty) BorrowerID() uuid.UUID                  { return p.borrowerID }
func (p *Penalty) ReservationID() *uuid.UUID              { return p.reservationID }
func (p *Penalty) UnitID() *uuid.UUID                     { return p.unitID }
func (p *Penalty) Type() Type                             { return p.penaltyType }
func (p *Penalty) DaysLate() int                          { return p.daysLate }
func (p *Penalty) StrikesGiven() int                      { return p.strikesGiven }
func (p *Penalty) Severity() Severity                     { return p.severity }
func (p *Penalty) Description() *string                   { return p.description }
func (p *Penalty) CompensationAmount() float64            { return p.compensationAmount }
func (p *Penalty) CompensationStatus() CompensationStatus { return p.compensationStatus }
func (p *Penalty) CreatedAt() time.Time                   { return p.createdAt }
