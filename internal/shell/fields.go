package shell

import (
	"fmt"
	"strings"
	"time"

	"admin-dashboard/internal/api"
	"admin-dashboard/internal/resource"

	"github.com/spf13/cast"
)

// field binds one record attribute to a command line flag
type field[T any] struct {
	flag   string
	usage  string
	secret bool
	get    func(T) string
	set    func(*T, string) error
}

func text[T any](flag, usage string, ptr func(*T) *string) field[T] {
	return field[T]{
		flag:  flag,
		usage: usage,
		get:   func(rec T) string { return *ptr(&rec) },
		set: func(rec *T, value string) error {
			*ptr(rec) = value
			return nil
		},
	}
}

func number[T any](flag, usage string, ptr func(*T) *float64) field[T] {
	return field[T]{
		flag:  flag,
		usage: usage,
		get:   func(rec T) string { return cast.ToString(*ptr(&rec)) },
		set: func(rec *T, value string) error {
			f, err := cast.ToFloat64E(strings.TrimSpace(value))
			if err != nil {
				return fmt.Errorf("--%s: %q is not a number", flag, value)
			}
			*ptr(rec) = f
			return nil
		},
	}
}

func integer[T any](flag, usage string, ptr func(*T) *int) field[T] {
	return field[T]{
		flag:  flag,
		usage: usage,
		get:   func(rec T) string { return cast.ToString(*ptr(&rec)) },
		set: func(rec *T, value string) error {
			n, err := cast.ToIntE(strings.TrimSpace(value))
			if err != nil {
				return fmt.Errorf("--%s: %q is not a whole number", flag, value)
			}
			*ptr(rec) = n
			return nil
		},
	}
}

// resourceDef describes how one resource appears on the command line
type resourceDef[T resource.Record] struct {
	use     string
	aliases []string
	short   string
	schema  func(a *App, d resource.Deps) resource.Schema[T]
	columns []string
	row     func(T) []string
	fields  []field[T]
	created func(T) time.Time
}

var userResource = resourceDef[api.User]{
	use:     "users",
	aliases: []string{"dashboard"},
	short:   "Manage user accounts",
	schema: func(a *App, d resource.Deps) resource.Schema[api.User] {
		return resource.UserSchema(d, a.cfg.Client.UserVariant)
	},
	columns: []string{"ID", "Username", "Email", "Mobile", "Role"},
	row: func(u api.User) []string {
		return []string{u.ID, u.Username, u.Email, u.Mobile, u.Role}
	},
	fields: []field[api.User]{
		text("username", "user name", func(u *api.User) *string { return &u.Username }),
		text("email", "email address", func(u *api.User) *string { return &u.Email }),
		text("mobile", "mobile number, digits with optional leading +", func(u *api.User) *string { return &u.Mobile }),
		{
			flag:   "password",
			usage:  "password (leave blank on edit to keep unchanged)",
			secret: true,
			get:    func(api.User) string { return "" },
			set: func(u *api.User, value string) error {
				u.Password = value
				return nil
			},
		},
		text("role", "user or admin", func(u *api.User) *string { return &u.Role }),
		{
			flag:  "company",
			usage: "company name",
			get: func(u api.User) string {
				if u.Company == nil {
					return ""
				}
				return u.Company.Name
			},
			set: func(u *api.User, value string) error {
				if strings.TrimSpace(value) == "" {
					u.Company = nil
					return nil
				}
				u.Company = &api.Company{Name: value}
				return nil
			},
		},
	},
	created: func(u api.User) time.Time { return u.CreatedAt },
}

var productResource = resourceDef[api.Product]{
	use:     "products",
	aliases: []string{"product"},
	short:   "Manage catalog products",
	schema: func(_ *App, d resource.Deps) resource.Schema[api.Product] {
		return resource.ProductSchema(d)
	},
	columns: []string{"ID", "Name", "Price", "Quantity", "Category"},
	row: func(p api.Product) []string {
		return []string{p.ID, p.Name, formatPrice(p.Price), cast.ToString(p.Quantity), p.Category}
	},
	fields: []field[api.Product]{
		text("name", "product name", func(p *api.Product) *string { return &p.Name }),
		number("price", "unit price", func(p *api.Product) *float64 { return &p.Price }),
		text("description", "description", func(p *api.Product) *string { return &p.Description }),
		integer("quantity", "units in stock", func(p *api.Product) *int { return &p.Quantity }),
		text("category", "category name", func(p *api.Product) *string { return &p.Category }),
		text("image", "image URL", func(p *api.Product) *string { return &p.Image }),
	},
	created: func(p api.Product) time.Time { return p.CreatedAt },
}

var categoryResource = resourceDef[api.Category]{
	use:     "categories",
	aliases: []string{"category"},
	short:   "Manage product categories",
	schema: func(_ *App, d resource.Deps) resource.Schema[api.Category] {
		return resource.CategorySchema(d)
	},
	columns: []string{"ID", "Name", "Type", "Price", "Description"},
	row: func(c api.Category) []string {
		return []string{c.ID, c.Name, c.Type, formatPrice(c.Price), c.Description}
	},
	fields: []field[api.Category]{
		text("name", "category name", func(c *api.Category) *string { return &c.Name }),
		text("description", "description", func(c *api.Category) *string { return &c.Description }),
		text("image", "image URL", func(c *api.Category) *string { return &c.Image }),
		number("price", "price", func(c *api.Category) *float64 { return &c.Price }),
		text("type", "category type", func(c *api.Category) *string { return &c.Type }),
	},
	created: func(c api.Category) time.Time { return c.CreatedAt },
}

func formatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}
