package response

import (
	"time"

	"github.com/google/uuid"

	"gearlend/internal/usecase/commands"
)

type RecordPenaltyResponse struct {
	PenaltyID    uuid.UUID  `json:"penalty_id"`
	StrikesGiven int        `json:"strikes_given"`
	Severity     string     `json:"severity"`
	TotalStrikes int        `json:"total_strikes"`
	Banned       bool       `json:"banned"`
	BanUntil     *time.Time `json:"ban_until,omitempty"`
	BanReason    string     `json:"ban_reason,omitempty"`
}

type CanBorrowResponse struct {
	CanBorrow    bool       `json:"can_borrow"`
	TotalStrikes int        `json:"total_strikes"`
	BanUntil     *time.Time `json:"ban_until,omitempty"`
	BanReason    string     `json:"ban_reason,omitempty"`
}

func FromRecordPenaltyResult(r *commands.RecordPenaltyResult) *RecordPenaltyResponse {
	return &RecordPenaltyResponse{
		PenaltyID:    r.PenaltyID,
		StrikesGiven: r.StrikesGiven,
		Severity:     string(r.Severity),
		TotalStrikes: r.TotalStrikes,
		Banned:       r.Banned,
		BanUntil:     r.BanUntil,
		BanReason:    r.BanReason,
	}
}

func FromCanBorrowResult(r *commands.CanBorrowResult) *CanBorrowResponse {
	return &CanBorrowResponse{
		CanBorrow:    r.CanBorrow,
		TotalStrikes: r.TotalStrikes,
		BanUntil:     r.BanUntil,
		BanReason:    r.BanReason,
	}
}
