package request

import "time"

type SubmitRequestItem struct {
	PoolName string `json:"pool_name" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type SubmitRequestRequest struct {
	StartDate string              `json:"start_date" binding:"required"`
	EndDate   string              `json:"end_date" binding:"required"`
	Note      string              `json:"note,omitempty"`
	Items     []SubmitRequestItem `json:"items" binding:"required,min=1,dive"`
}

func (r SubmitRequestRequest) ParseDates() (start, end time.Time, err error) {
	if start, err = ParseDate(r.StartDate); err != nil {
		return
	}
	end, err = ParseDate(r.EndDate)
	return
}

type RejectItemRequest struct {
	Reason string `json:"reason,omitempty"`
}
