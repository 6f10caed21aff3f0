package models

import "time"

// MaxPhotoBytes is the largest accepted product photo.
const MaxPhotoBytes = 1 << 20

// Photo is stored inside the product record.
type Photo struct {
	Data        []byte `bson:"data"        json:"-"`
	ContentType string `gorm:"size:100"    bson:"contentType" json:"-"`
}

// Empty reports whether no photo was uploaded.
func (p Photo) Empty() bool { return len(p.Data) == 0 }

// IsZero lets the bson encoder omit an empty photo.
func (p Photo) IsZero() bool { return p.Empty() }

// Product is a catalog item. Quantity is the stock on hand.
type Product struct {
	ID          string    `gorm:"primaryKey;size:24"       bson:"_id"             json:"_id"`
	Name        string    `gorm:"size:255;not null;index"  bson:"name"            json:"name"`
	Slug        string    `gorm:"size:255;not null;index"  bson:"slug"            json:"slug"`
	Description string    `gorm:"type:text;not null"       bson:"description"     json:"description"`
	Price       float64   `gorm:"not null;default:0"       bson:"price"           json:"price"`
	Category    string    `gorm:"size:24;not null;index"   bson:"category"        json:"category"`
	Quantity    int       `gorm:"not null;default:0"       bson:"quantity"        json:"quantity"`
	Shipping    bool      `gorm:"not null;default:false"   bson:"shipping"        json:"shipping"`
	Photo       Photo     `gorm:"embedded;embeddedPrefix:photo_" bson:"photo,omitempty" json:"-"`
	CreatedAt   time.Time `                                bson:"createdAt"       json:"createdAt"`
	UpdatedAt   time.Time `                                bson:"updatedAt"       json:"updatedAt"`
}
