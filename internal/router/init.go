package router

import (
	"github.com/0x5c-0x200f/asterraIO-assignment/internal/application"
	"github.com/0x5c-0x200f/asterraIO-assignment/internal/container"
	pginfra "github.com/0x5c-0x200f/asterraIO-assignment/internal/infrastructure/postgres"
	handlers "github.com/0x5c-0x200f/asterraIO-assignment/internal/interface/http"
	"github.com/0x5c-0x200f/asterraIO-assignment/internal/router/modules"
)

type DirectoryDeps struct {
	Service *application.Service
	Handler *handlers.DirectoryHandler
}

func buildDirectoryDeps() DirectoryDeps {
	cfg := container.GetConfig()
	repo := pginfra.NewDirectoryRepository(container.GetPGPool(), cfg.DBSchema)

	service := application.NewService(
		repo,
		container.GetHub(),
		container.GetRedis(),
		container.GetLogger(),
		cfg.UsersCacheTTL,
	)
	// The hub answers get_users through the same service, so cache reads and
	// socket replies agree.
	container.GetHub().SetLister(service)

	handler := handlers.NewDirectoryHandler(service, container.GetLogger())

	return DirectoryDeps{Service: service, Handler: handler}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildDirectoryDeps()
	r.Add(modules.NewDirectoryModule(deps.Handler))
	r.Add(modules.NewSocketModule(container.GetHub()))
}
