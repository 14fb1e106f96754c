package api

import "time"

// Company is the optional employer block attached to a user
type Company struct {
	Name string `json:"name" validate:"max=255"`
}

// User is the wire form of a managed user account. Password is write-only:
// the backend never fills it in responses.
type User struct {
	ID        string    `json:"id,omitempty"`
	Username  string    `json:"username" validate:"required,max=100"`
	Email     string    `json:"email" validate:"required,email,max=255"`
	Mobile    string    `json:"mobile" validate:"required,mobile"`
	Password  string    `json:"password,omitempty" validate:"required_without=ID,bytesmax=72"`
	Role      string    `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
	Company   *Company  `json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) RecordID() string { return u.ID }

func (u User) SearchText() []string { return []string{u.Username, u.Email} }

// Product is the wire form of a catalog product
type Product struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name" validate:"required,max=255"`
	Price       float64   `json:"price" validate:"gte=0,lte=99999999.99"`
	Description string    `json:"description" validate:"required"`
	Quantity    int       `json:"quantity" validate:"gte=0,lte=2147483647"`
	Category    string    `json:"category" validate:"required,max=100"`
	Image       string    `json:"image" validate:"required,url,max=500"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p Product) RecordID() string { return p.ID }

func (p Product) SearchText() []string { return []string{p.Name, p.Description} }

// Category is the wire form of a product category
type Category struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name" validate:"required,max=100"`
	Description string    `json:"description"`
	Image       string    `json:"image" validate:"omitempty,url,max=500"`
	Price       float64   `json:"price" validate:"gte=0,lte=99999999.99"`
	Type        string    `json:"type" validate:"max=100"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c Category) RecordID() string { return c.ID }

func (c Category) SearchText() []string { return []string{c.Name, c.Description} }
