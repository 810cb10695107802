package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type PoolView struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	ImageRef  *string `json:"image_ref,omitempty"`
	Total     int     `json:"total"`
	Available int     `json:"available"`
}

type AvailabilityView struct {
	PoolName           string      `json:"pool_name"`
	StartDate          time.Time   `json:"start_date"`
	EndDate            time.Time   `json:"end_date"`
	Total              int         `json:"total"`
	Available          int         `json:"available"`
	UnavailableUnitIDs []uuid.UUID `json:"unavailable_unit_ids,omitempty"`
}

type BorrowingView struct {
	ReservationID    uuid.UUID  `json:"reservation_id"`
	UnitID           uuid.UUID  `json:"unit_id"`
	UnitName         string     `json:"unit_name"`
	Category         string     `json:"category"`
	BorrowerID       uuid.UUID  `json:"borrower_id"`
	BorrowerUsername string     `json:"borrower_username"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          time.Time  `json:"end_date"`
	Status           string     `json:"status"`
	ReturnedAt       *time.Time `json:"returned_at,omitempty"`
	DaysUntilDue     int        `json:"days_until_due"`
	DueClass         string     `json:"due_class"`
	CreatedAt        time.Time  `json:"created_at"`
}

// HistoryFilter narrows the borrowing history listing. Zero values mean "any".
// Status accepts active, returned and the derived pseudo-status overdue.
type HistoryFilter struct {
	PoolName   string
	BorrowerID *uuid.UUID
	Status     string
	From       *time.Time
	To         *time.Time
}

type RequestItemView struct {
	PoolName        string  `json:"pool_name"`
	Quantity        int     `json:"quantity"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

type RequestView struct {
	ID               uuid.UUID         `json:"id"`
	BorrowerID       uuid.UUID         `json:"borrower_id"`
	BorrowerUsername string            `json:"borrower_username"`
	StartDate        time.Time         `json:"start_date"`
	EndDate          time.Time         `json:"end_date"`
	Note             *string           `json:"note,omitempty"`
	Items            []RequestItemView `json:"items"`
	Resolved         bool              `json:"resolved"`
	CreatedAt        time.Time         `json:"created_at"`
}

type PenaltyView struct {
	ID                 uuid.UUID  `json:"id"`
	BorrowerID         uuid.UUID  `json:"borrower_id"`
	BorrowerUsername   string     `json:"borrower_username"`
	ReservationID      *uuid.UUID `json:"reservation_id,omitempty"`
	UnitName           *string    `json:"unit_name,omitempty"`
	PenaltyType        string     `json:"penalty_type"`
	DaysLate           int        `json:"days_late"`
	StrikesGiven       int        `json:"strikes_given"`
	Severity           string     `json:"severity"`
	Description        *string    `json:"description,omitempty"`
	CompensationAmount float64    `json:"compensation_amount"`
	CompensationStatus string     `json:"compensation_status"`
	CreatedAt          time.Time  `json:"created_at"`
}

type UserView struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	TotalStrikes int        `json:"total_strikes"`
	IsBanned     bool       `json:"is_banned"`
	BanUntil     *time.Time `json:"ban_until,omitempty"`
	BanReason    *string    `json:"ban_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type PoolUsage struct {
	PoolName string `json:"pool_name"`
	Borrows  int    `json:"borrows"`
}

type BorrowerUsage struct {
	BorrowerID uuid.UUID `json:"borrower_id"`
	Username   string    `json:"username"`
	Borrows    int       `json:"borrows"`
}

type AnalyticsOverview struct {
	TotalUnits       int             `json:"total_units"`
	AvailableUnits   int             `json:"available_units"`
	BorrowedUnits    int             `json:"borrowed_units"`
	OverdueCount     int             `json:"overdue_count"`
	BorrowsToday     int             `json:"borrows_today"`
	BorrowsThisWeek  int             `json:"borrows_this_week"`
	OnTimeReturnRate float64         `json:"on_time_return_rate"`
	TopPools         []PoolUsage     `json:"top_pools"`
	TopBorrowers     []BorrowerUsage `json:"top_borrowers"`
}
