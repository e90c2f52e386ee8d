package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/polylinkapp/polylink/config"
	"github.com/polylinkapp/polylink/internal/app/classifier"
	"github.com/polylinkapp/polylink/internal/app/service"
	"github.com/polylinkapp/polylink/internal/http/handler"
	"github.com/polylinkapp/polylink/internal/http/middleware"
	"go.uber.org/zap"
)

// Dependencies bundles everything the HTTP server needs.
type Dependencies struct {
	Logger      *zap.Logger
	Postgres    *pgxpool.Pool
	Links       handler.LinkLoader
	LinkService service.LinkService
	Classifier  *classifier.Classifier
	Resolver    *service.Resolver
	App         config.AppConfig
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates a new HTTP server instance with all routes registered.
func New(deps Dependencies) *Server {
	app := fiber.New()

	s := &Server{
		app:  app,
		deps: deps,
	}

	s.registerRoutes()
	return s
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.deps.Logger))
	s.app.Use(middleware.Recovery(s.deps.Logger))
	s.app.Use(middleware.CORS())

	handler.NewWellKnownHandler().Register(s.app)

	handler.NewAPIHandler(handler.APIDeps{
		Logger:      s.deps.Logger,
		LinkService: s.deps.LinkService,
		Resolver:    s.deps.Resolver,
		APIKey:      s.deps.App.APIKey,
	}).Register(s.app)

	// The resolve handler owns the catch-all and must come last.
	handler.NewResolveHandler(handler.ResolveDeps{
		Logger:     s.deps.Logger,
		Links:      s.deps.Links,
		Classifier: s.deps.Classifier,
		Resolver:   s.deps.Resolver,
		Postgres:   s.deps.Postgres,
		App:        s.deps.App,
	}).Register(s.app)
}
