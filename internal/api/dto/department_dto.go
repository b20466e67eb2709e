package dto

// DepartmentRequest payload for create and rename.
type DepartmentRequest struct {
	Name string `json:"name" validate:"required"`
}

// MessageResponse is returned by mutations without a resource body.
type MessageResponse struct {
	Message string `json:"message"`
}
