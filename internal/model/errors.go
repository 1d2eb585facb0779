package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Allocation errors
	ErrCapacityExceeded    = errors.New("table capacity exceeded")
	ErrAttendeeNotEligible = errors.New("attendee is not eligible for seating")
	ErrTableNotFound       = errors.New("table not found")
	ErrAttendeeNotFound    = errors.New("attendee not found")

	// Arrangement errors
	ErrArrangementNotFound = errors.New("arrangement not found")
	ErrArrangementOccupied = errors.New("arrangement has seated attendees")
	ErrClearNotConfirmed   = errors.New("clearing all tables requires confirmation")
	ErrInvalidTable        = errors.New("invalid table")
	ErrCompanionOnWire     = errors.New("companion seats cannot be persisted")
	ErrInvalidMetadata     = errors.New("invalid arrangement metadata")

	// Layout errors
	ErrInvalidLayoutPolicy = errors.New("invalid layout policy")

	// Collaborator errors
	ErrDirectoryUnavailable = errors.New("attendee directory unavailable")
	ErrViewStateNotFound    = errors.New("view state not found")
)

// CapacityExceededError carries the seat arithmetic of a rejected assignment
type CapacityExceededError struct {
	TableID   TableID
	Available int
	Needed    int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("table %s has %d seats available, %d needed", e.TableID, e.Available, e.Needed)
}

// Is lets errors.Is match ErrCapacityExceeded
func (e *CapacityExceededError) Is(target error) bool {
	return target == ErrCapacityExceeded
}
