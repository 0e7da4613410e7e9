package tasks

// CreateTaskRequest is the body of POST /tasks. It has no owner field: any
// owner sent by the client is dropped during decoding.
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

// UpdateTaskRequest is the body of PUT /tasks/{id}.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

type taskResponse struct {
	Message string `json:"message"`
	Task    *Task  `json:"task"`
}
