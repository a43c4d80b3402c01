package models

import "time"

// Product is a seller listing shown on the hotlist.
type Product struct {
	ID           string    `bson:"_id"           json:"id"`
	SellerID     string    `bson:"seller_id"     json:"sellerId"`
	Title        string    `bson:"title"         json:"title"`
	Price        float64   `bson:"price"         json:"price"`
	Category     string    `bson:"category"      json:"category"`
	Town         string    `bson:"town"          json:"town"`
	AvailableNow bool      `bson:"available_now" json:"availableNow"`
	Images       []string  `bson:"images"        json:"images"`
	CreatedAt    time.Time `bson:"created_at"    json:"createdAt"`
}

// Catalog is a read-only snapshot of every user and product.
// Products are ordered newest first.
type Catalog struct {
	Users    []User    `json:"users"`
	Products []Product `json:"products"`
}

// FindUser returns the user with the given id, if any.
func (c Catalog) FindUser(id string) (User, bool) {
	for _, u := range c.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
