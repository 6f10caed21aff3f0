// Package models holds the storefront's persisted types. Every type is
// stored as-is by both backends: bson tags for MongoDB, gorm tags for SQL.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// NewID returns a fresh 24-hex document id.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed document id.
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

func assignID(id *string) {
	if *id == "" {
		*id = NewID()
	}
}

// BeforeCreate hooks give SQL rows the same id format as Mongo documents.

func (u *User) BeforeCreate(*gorm.DB) error     { assignID(&u.ID); return nil }
func (c *Category) BeforeCreate(*gorm.DB) error { assignID(&c.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error  { assignID(&p.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error    { assignID(&o.ID); return nil }
