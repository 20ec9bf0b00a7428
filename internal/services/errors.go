package services

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every NotFoundError.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a missing entity referenced by id.
type NotFoundError struct {
	Resource string
	ID       uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func userNotFound(id uint64) error {
	return &NotFoundError{Resource: "User", ID: id}
}

func workspaceNotFound(id uint64) error {
	return &NotFoundError{Resource: "Workspace", ID: id}
}

func taskNotFound(id uint64) error {
	return &NotFoundError{Resource: "Task", ID: id}
}

// Workspace actions reserved for the owner.
const (
	ActionUpdate        = "update it"
	ActionDelete        = "delete it"
	ActionManageMembers = "manage members"
)

// OwnershipError is returned when someone other than the workspace owner
// attempts a mutation.
type OwnershipError struct {
	Action string
}

func (e *OwnershipError) Error() string {
	return "Only workspace owner can " + e.Action
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
