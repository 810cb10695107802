package response

import (
	"github.com/google/uuid"

	"gearlend/internal/usecase/commands"
)

type SubmitRequestResponse struct {
	RequestID uuid.UUID `json:"request_id"`
}

type ItemApprovalResponse struct {
	PoolName       string      `json:"pool_name"`
	Quantity       int         `json:"quantity"`
	ReservationIDs []uuid.UUID `json:"reservation_ids"`
}

type ItemFailureResponse struct {
	PoolName  string `json:"pool_name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
	Reason    string `json:"reason"`
}

type ApproveAllResponse struct {
	Approved []ItemApprovalResponse `json:"approved"`
	Failures []ItemFailureResponse  `json:"failures"`
}

func FromItemApprovalResult(r *commands.ItemApprovalResult) *ItemApprovalResponse {
	return &ItemApprovalResponse{
		PoolName:       r.PoolName,
		Quantity:       r.Quantity,
		ReservationIDs: r.ReservationIDs,
	}
}

func FromApproveAllResult(r *commands.ApproveAllResult) *ApproveAllResponse {
	resp := &ApproveAllResponse{
		Approved: make([]ItemApprovalResponse, 0, len(r.Approved)),
		Failures: make([]ItemFailureResponse, 0, len(r.Failures)),
	}
	for _, a := range r.Approved {
		resp.Approved = append(resp.Approved, ItemApprovalResponse{
			PoolName:       a.PoolName,
			Quantity:       a.Quantity,
			ReservationIDs: a.ReservationIDs,
		})
	}
	for _, f := range r.Failures {
		reason := ""
		if f.Err != nil {
			reason = f.Err.Error()
		}
		resp.Failures = append(resp.Failures, ItemFailureResponse{
			PoolName:  f.PoolName,
			Requested: f.Requested,
			Available: f.Available,
			Reason:    reason,
		})
	}
	return resp
}
