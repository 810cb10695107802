package request

import (
	"errors"
	"time"
)

var ErrBadDate = errors.New("dates must be formatted as YYYY-MM-DD")

const dateLayout = "2006-01-02"

// ParseDate reads the wire date format used across all reservation and
// request payloads.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return t, nil
}

type ReserveRequest struct {
	PoolName  string `json:"pool_name" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

func (r ReserveRequest) ParseDates() (start, end time.Time, err error) {
	if start, err = ParseDate(r.StartDate); err != nil {
		return
	}
	end, err = ParseDate(r.EndDate)
	return
}
