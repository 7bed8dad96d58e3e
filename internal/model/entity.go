package model

import "time"

// Entity is a named record that properties get linked to.
type Entity struct {
	ID        string    `json:"id" gorm:"primaryKey;uuid;not null" validate:"required"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null" validate:"required"`
	// CreatedAt orders records in the fake backend, it is not part of the wire format.
	CreatedAt time.Time `json:"-"`
}

func (Entity) TableName() string {
	return "entities"
}

// Property is a named record that gets linked to entities.
type Property struct {
	ID        string    `json:"id" gorm:"primaryKey;uuid;not null" validate:"required"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null" validate:"required"`
	CreatedAt time.Time `json:"-"`
}

func (Property) TableName() string {
	return "properties"
}

// AddNamedRequest is the body used to create an entity or a property by name.
type AddNamedRequest struct {
	Name string `json:"name" validate:"required"`
}
