package tasks

import (
	"context"
	"fmt"
)

// Service applies ownership rules on top of a Repository. The owner id always
// comes from the caller's verified identity, never from request input.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new task owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateTaskRequest) (*Task, error) {
	task, err := s.repo.Create(ctx, Task{
		Title:       req.Title,
		Description: req.Description,
		UserID:      ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// List returns every task owned by ownerID. The result is never nil.
func (s *Service) List(ctx context.Context, ownerID string) ([]Task, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if items == nil {
		items = []Task{}
	}
	return items, nil
}

// Get returns one task if it exists and belongs to ownerID.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*Task, error) {
	task, err := s.repo.GetOwned(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// Update overwrites the supplied fields of a task belonging to ownerID.
func (s *Service) Update(ctx context.Context, ownerID, id string, req UpdateTaskRequest) (*Task, error) {
	task, err := s.repo.UpdateOwned(ctx, id, ownerID, Patch{Title: req.Title, Description: req.Description})
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// Delete removes a task belonging to ownerID.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.DeleteOwned(ctx, id, ownerID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
