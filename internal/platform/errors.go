package platform

import (
	"errors"
	"fmt"
	"mafiabot/internal/models"
)

// ResourceNotFoundError means a referenced channel, message or user can no
// longer be resolved, or resolved to the wrong kind of resource.
type ResourceNotFoundError struct {
	Kind string
	ID   models.ID
	Err  error
}

func (e *ResourceNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s not found: %v", e.Kind, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *ResourceNotFoundError) Unwrap() error {
	return e.Err
}

// PermissionDeniedError means the bot lacks the permission for Action.
type PermissionDeniedError struct {
	Action string
	Err    error
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission denied: %s: %v", e.Action, e.Err)
}

func (e *PermissionDeniedError) Unwrap() error {
	return e.Err
}

func NotFound(kind string, id models.ID) error {
	return &ResourceNotFoundError{Kind: kind, ID: id}
}

func IsNotFound(err error) bool {
	var nf *ResourceNotFoundError
	return errors.As(err, &nf)
}

func IsPermissionDenied(err error) bool {
	var pd *PermissionDeniedError
	return errors.As(err, &pd)
}
