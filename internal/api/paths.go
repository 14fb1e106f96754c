package api

import "strings"

// Session endpoints
const (
	PathRegister = "/api/register"
	PathLogin    = "/api/login"
	PathRefresh  = "/api/refresh"
	PathLogout   = "/api/logout"
	PathHealth   = "/health"
)

// IDPlaceholder is substituted with a record identifier in path templates
const IDPlaceholder = "{id}"

// Endpoints names the REST paths of one resource. Update, Delete and Get
// are templates containing IDPlaceholder.
type Endpoints struct {
	List   string
	Create string
	Get    string
	Update string
	Delete string

	// UpdateEnveloped is set when the update response is {message, data}
	// instead of the bare record.
	UpdateEnveloped bool
}

// Expand substitutes id into a path template
func Expand(template, id string) string {
	return strings.ReplaceAll(template, IDPlaceholder, id)
}

// UsersCanonical is the /api/users convention
var UsersCanonical = Endpoints{
	List:   "/api/users",
	Create: "/api/users",
	Get:    "/api/users/{id}",
	Update: "/api/users/{id}",
	Delete: "/api/users/{id}",
}

// UsersLegacy is the older /users + /addUsers convention, still served
var UsersLegacy = Endpoints{
	List:   "/users",
	Create: "/addUsers",
	Get:    "/users/{id}",
	Update: "/users/{id}",
	Delete: "/users/{id}",
}

var Products = Endpoints{
	List:   "/products",
	Create: "/addProduct",
	Get:    "/product/{id}",
	Update: "/product/{id}",
	Delete: "/product/{id}",
}

var Categories = Endpoints{
	List:            "/getcategory",
	Create:          "/addcategory",
	Get:             "/getcategory/{id}",
	Update:          "/updatecategory/{id}",
	Delete:          "/deletecategory/{id}",
	UpdateEnveloped: true,
}

// UserEndpoints picks the user convention by name. Anything other than
// "legacy" selects the canonical one.
func UserEndpoints(variant string) Endpoints {
	if strings.EqualFold(strings.TrimSpace(variant), "legacy") {
		return UsersLegacy
	}
	return UsersCanonical
}
