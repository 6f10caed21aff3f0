package models

import "time"

// User roles.
const (
	RoleUser  = 0
	RoleAdmin = 1
)

// User is a registered customer or admin.
type User struct {
	ID        string    `gorm:"primaryKey;size:24"            bson:"_id"       json:"_id"`
	Name      string    `gorm:"size:255;not null"             bson:"name"      json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" bson:"email"     json:"email"`
	Password  string    `gorm:"size:255;not null"             bson:"password"  json:"-"` // bcrypt hash
	Phone     string    `gorm:"size:50;not null"              bson:"phone"     json:"phone"`
	Address   string    `gorm:"type:text;not null"            bson:"address"   json:"address"`
	Answer    string    `gorm:"size:255;not null"             bson:"answer"    json:"-"`
	Role      int       `gorm:"not null;default:0"            bson:"role"      json:"role"`
	CreatedAt time.Time `                                     bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `                                     bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
