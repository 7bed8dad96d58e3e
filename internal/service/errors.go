package service

import "errors"

var (
	// ErrMissingSelection is returned when a link is added without both an entity and a property selected.
	ErrMissingSelection = errors.New("select an entity and a property first")
	// ErrLinkExists is returned when the selected entity and property are linked already.
	ErrLinkExists = errors.New("entity and property are already linked")
	// ErrEmptyName is returned when an entity or property is added without a name.
	ErrEmptyName = errors.New("name is required")
)
