package models

import "errors"

var (
	// ErrNotFound is returned when an entity does not exist for the given
	// owner, including the case where it belongs to a different owner.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned when a category create or rename would
	// violate the per-owner unique name constraint.
	ErrDuplicateName = errors.New("name already exists")
)
