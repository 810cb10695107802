//go:build unit

package penalty

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssess(t *testing.T) {
	tests := []struct {
		name         string
		penaltyType  Type
		daysLate     int
		wantStrikes  int
		wantSeverity Severity
	}{
		{"late by 1 day", TypeLateReturn, 1, 1, SeverityLow},
		{"late by exactly 3 days", TypeLateReturn, 3, 1, SeverityLow},
		{"late by 4 days", TypeLateReturn, 4, 2, SeverityMedium},
		{"late by exactly 7 days", TypeLateReturn, 7, 2, SeverityMedium},
		{"late by 8 days", TypeLateReturn, 8, 3, SeverityHigh},
		{"late by 30 days", TypeLateReturn, 30, 3, SeverityHigh},
		{"minor damage", TypeMinorDamage, 0, 1, SeverityLow},
		{"major damage", TypeMajorDamage, 0, 2, SeverityMedium},
		{"severe damage", TypeSevereDamage, 0, 3, SeverityHigh},
		{"lost", TypeLost, 0, 3, SeverityCritical},
		{"unrecognized type", Type("scratched"), 0, 1, SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strikes, severity := Assess(tt.penaltyType, tt.daysLate)
			assert.Equal(t, tt.wantStrikes, strikes)
			assert.Equal(t, tt.wantSeverity, severity)
		})
	}
}

func TestDecideBan(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		totalStrikes  int
		wantBanned    bool
		wantPermanent bool
		wantUntil     time.Time
	}{
		{"zero strikes", 0, false, false, time.Time{}},
		{"two strikes", 2, false, false, time.Time{}},
		{"three strikes thirty days", 3, true, false, now.AddDate(0, 0, 30)},
		{"four strikes sixty days", 4, true, false, now.AddDate(0, 0, 60)},
		{"five strikes sixty days", 5, true, false, now.AddDate(0, 0, 60)},
		{"six strikes permanent", 6, true, true, PermanentBanUntil},
		{"ten strikes permanent", 10, true, true, PermanentBanUntil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideBan(tt.totalStrikes, now)
			assert.Equal(t, tt.wantBanned, got.Banned)
			assert.Equal(t, tt.wantPermanent, got.Permanent)
			if !tt.wantBanned {
				assert.Nil(t, got.Until)
				assert.Empty(t, got.Reason)
				return
			}
			require.NotNil(t, got.Until)
			assert.Equal(t, tt.wantUntil, *got.Until)
			assert.NotEmpty(t, got.Reason)
		})
	}
}

func TestNewPenalty(t *testing.T) {
	borrower := uuid.New()

	t.Run("assessment is applied", func(t *testing.T) {
		p := NewPenalty(borrower, nil, nil, TypeLateReturn, 5, nil, 0)
		assert.Equal(t, 2, p.StrikesGiven())
		assert.Equal(t, SeverityMedium, p.Severity())
		assert.Equal(t, CompensationNone, p.CompensationStatus())
	})

	t.Run("compensation amount starts pending", func(t *testing.T) {
		p := NewPenalty(borrower, nil, nil, TypeLost, 0, nil, 450.0)
		assert.Equal(t, CompensationPending, p.CompensationStatus())
		assert.Equal(t, 450.0, p.CompensationAmount())

		p.MarkCompensationPaid()
		assert.Equal(t, CompensationPaid, p.CompensationStatus())
	})
}
