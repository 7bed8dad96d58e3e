package view

import "errors"

var (
	// ErrRecordNotFound is returned when no record in the list has the requested id.
	ErrRecordNotFound = errors.New("record not found")
	// ErrCannotCreate is returned when the record exists already, a create for it is in flight, or the key is incomplete.
	ErrCannotCreate = errors.New("record cannot be created")
	// ErrCreateUnsupported is returned by lists built without a create function.
	ErrCreateUnsupported = errors.New("list does not support create")
	// ErrNotSelected is returned when removing a record that is not the current selection.
	ErrNotSelected = errors.New("record is not selected")
)
