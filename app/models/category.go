package models

// Category groups products. Slug is derived from Name.
type Category struct {
	ID   string `gorm:"primaryKey;size:24"            bson:"_id"  json:"_id"`
	Name string `gorm:"size:255;not null;uniqueIndex" bson:"name" json:"name"`
	Slug string `gorm:"size:255;not null;index"       bson:"slug" json:"slug"`
}
