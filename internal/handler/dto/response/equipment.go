package response

import "gearlend/internal/usecase/commands"

type ResizePoolResponse struct {
	Total   int `json:"total"`
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Blocked int `json:"blocked"`
}

func FromResizePoolResult(r *commands.ResizePoolResult) *ResizePoolResponse {
	return &ResizePoolResponse{
		Total:   r.Total,
		Added:   r.Added,
		Removed: r.Removed,
		Blocked: r.Blocked,
	}
}
