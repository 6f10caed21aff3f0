package models

import "time"

// Order statuses.
const (
	StatusNotProcessed = "Not Processed"
	StatusProcessing   = "Processing"
	StatusShipped      = "Shipped"
	StatusDelivered    = "Delivered"
	StatusCancelled    = "Cancelled"
)

// OrderStatuses is the fixed status vocabulary, in lifecycle order.
var OrderStatuses = []string{
	StatusNotProcessed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// ValidOrderStatus reports whether s belongs to OrderStatuses.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// CartItem is one unit in a cart. Two units of a product are two entries.
type CartItem struct {
	ID          string  `bson:"_id"                   json:"_id"`
	Name        string  `bson:"name"                  json:"name"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64 `bson:"price"                 json:"price"`
	Slug        string  `bson:"slug,omitempty"        json:"slug,omitempty"`
	Category    string  `bson:"category,omitempty"    json:"category,omitempty"`
}

// Payment is the gateway's outcome for an order.
type Payment struct {
	Success       bool   `bson:"success"       json:"success"`
	TransactionID string `bson:"transactionId" json:"transactionId"`
	Status        string `bson:"status"        json:"status"`
	Amount        string `bson:"amount"        json:"amount"`
	Currency      string `bson:"currency"      json:"currency,omitempty"`
}

// Order is created once per successful charge and never deleted.
type Order struct {
	ID        string     `gorm:"primaryKey;size:24"          bson:"_id"       json:"_id"`
	Products  []CartItem `gorm:"serializer:json;not null"    bson:"products"  json:"products"`
	Payment   Payment    `gorm:"serializer:json;not null"    bson:"payment"   json:"payment"`
	Buyer     string     `gorm:"size:24;not null;index"      bson:"buyer"     json:"buyer"`
	Status    string     `gorm:"size:32;not null;default:'Not Processed'" bson:"status" json:"status"`
	CreatedAt time.Time  `gorm:"index"                       bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `                                   bson:"updatedAt" json:"updatedAt"`
}

// BuyerRef is the buyer summary shown with an order.
type BuyerRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// OrderView is an order with its buyer expanded.
type OrderView struct {
	Order
	Buyer BuyerRef `json:"buyer"`
}
