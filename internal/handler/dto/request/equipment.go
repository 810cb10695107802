package request

type CreatePoolRequest struct {
	Name     string  `json:"name" binding:"required"`
	Category string  `json:"category" binding:"required"`
	ImageRef *string `json:"image_ref,omitempty"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
}

type ResizePoolRequest struct {
	Quantity int `json:"quantity" binding:"required,min=0"`
}

type UpdatePoolRequest struct {
	Name     string  `json:"name" binding:"required"`
	Category string  `json:"category" binding:"required"`
	ImageRef *string `json:"image_ref,omitempty"`
}
