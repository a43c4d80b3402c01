package models

import "time"

// Role is the marketplace side a user signed up for.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// ParseRole accepts only the two known roles.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleBuyer, RoleSeller:
		return Role(s), true
	}
	return "", false
}

// Availability statuses a seller can publish.
const (
	StatusOnline  = "online"
	StatusBusy    = "busy"
	StatusOffline = "offline"
)

// Availability is the seller's presence as shown to buyers.
// BackAt is only meaningful while the status is offline.
type Availability struct {
	Status string  `bson:"status" json:"status"`
	BackAt *string `bson:"back_at" json:"backAt"`
}

// User is a registered buyer or seller.
type User struct {
	ID           string        `bson:"_id"           json:"id"`
	Phone        string        `bson:"phone"         json:"phone"`
	PasswordHash string        `bson:"password_hash" json:"-"`
	Name         string        `bson:"name"          json:"name"`
	Role         Role          `bson:"role"          json:"role"`
	Town         string        `bson:"town"          json:"town"`
	StoreName    *string       `bson:"store_name"    json:"storeName"`
	Availability *Availability `bson:"availability"  json:"availability"`
	CreatedAt    time.Time     `bson:"created_at"    json:"createdAt"`
}

// IsSeller reports whether the user may manage listings and availability.
func (u User) IsSeller() bool { return u.Role == RoleSeller }
