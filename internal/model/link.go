package model

import "time"

// LinkKey is the natural key of a link. A pair appears at most once.
type LinkKey struct {
	EntityID   string
	PropertyID string
}

// Valid reports whether both sides of the key are set.
func (k LinkKey) Valid() bool {
	return k.EntityID != "" && k.PropertyID != ""
}

func (k LinkKey) String() string {
	return k.EntityID + "/" + k.PropertyID
}

// Link associates an entity with a property.
// The link resource does not always carry the id, so it is optional on the wire.
type Link struct {
	ID         string    `json:"id" gorm:"primaryKey;uuid;not null"`
	EntityID   string    `json:"entity_id" gorm:"uuid;not null;uniqueIndex:idx_links_entity_property" validate:"required"`
	PropertyID string    `json:"property_id" gorm:"uuid;not null;uniqueIndex:idx_links_entity_property" validate:"required"`
	CreatedAt  time.Time `json:"-"`
}

func (Link) TableName() string {
	return "links"
}

func (l Link) Key() LinkKey {
	return LinkKey{EntityID: l.EntityID, PropertyID: l.PropertyID}
}

// NamedLink mirrors the named_link view: a link with the entity and property names denormalized.
type NamedLink struct {
	ID           string `json:"id"`
	EntityID     string `json:"entity_id" validate:"required"`
	EntityName   string `json:"entity_name" validate:"required"`
	PropertyID   string `json:"property_id" validate:"required"`
	PropertyName string `json:"property_name" validate:"required"`
}

func (n NamedLink) Key() LinkKey {
	return LinkKey{EntityID: n.EntityID, PropertyID: n.PropertyID}
}

// NewNamedLink builds the named link the view would contain for the given pair.
// The id stays empty until the backend assigns one.
func NewNamedLink(entity Entity, property Property) NamedLink {
	return NamedLink{
		EntityID:     entity.ID,
		EntityName:   entity.Name,
		PropertyID:   property.ID,
		PropertyName: property.Name,
	}
}

// AddLinkRequest is the body of a link creation. The backend expects camelCase here.
type AddLinkRequest struct {
	EntityID   string `json:"entityId" validate:"required"`
	PropertyID string `json:"propertyId" validate:"required"`
}
