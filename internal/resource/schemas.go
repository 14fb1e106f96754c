package resource

import (
	"admin-dashboard/internal/api"

	"go.uber.org/zap"
)

// Deps are the collaborators shared by every schema
type Deps struct {
	Client    Requester
	Confirmer Confirmer
	Notifier  Notifier
	PageSize  int
	Logger    *zap.Logger
}

func schemaFor[T Record](name string, endpoints api.Endpoints, d Deps) Schema[T] {
	return Schema[T]{
		Name:      name,
		Endpoints: endpoints,
		Client:    d.Client,
		Confirmer: d.Confirmer,
		Notifier:  d.Notifier,
		PageSize:  d.PageSize,
		Logger:    d.Logger,
	}
}

// UserSchema manages users under the convention named by variant
// ("canonical" or "legacy")
func UserSchema(d Deps, variant string) Schema[api.User] {
	return schemaFor[api.User]("user", api.UserEndpoints(variant), d)
}

func ProductSchema(d Deps) Schema[api.Product] {
	return schemaFor[api.Product]("product", api.Products, d)
}

func CategorySchema(d Deps) Schema[api.Category] {
	return schemaFor[api.Category]("category", api.Categories, d)
}
