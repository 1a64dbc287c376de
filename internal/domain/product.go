package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. ID is assigned by the backend that owns the
// record and never changes afterwards.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Category    *Category       `json:"category,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Category groups products. Categories are not managed directly; the storage
// backend resolves them by id, or by unique name when no id is given.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// IsZero reports whether c carries neither an id nor a name, in which case
// the product is stored without a category.
func (c *Category) IsZero() bool {
	return c == nil || (c.ID == 0 && c.Name == "")
}

// User is the minimal view of a record from the user service.
type User struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles,omitempty"`
}

// IsEmpty reports whether the user service returned nothing usable.
func (u *User) IsEmpty() bool {
	return u == nil || (u.ID == 0 && u.Name == "" && u.Email == "")
}
