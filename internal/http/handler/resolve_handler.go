package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/polylinkapp/polylink/config"
	"github.com/polylinkapp/polylink/internal/app/classifier"
	"github.com/polylinkapp/polylink/internal/app/model"
	"github.com/polylinkapp/polylink/internal/app/repository"
	"github.com/polylinkapp/polylink/internal/app/service"
	"github.com/polylinkapp/polylink/internal/http/view"
	"github.com/polylinkapp/polylink/internal/infra/prometheus"
	"go.uber.org/zap"
)

// LinkLoader loads links by their public path.
type LinkLoader interface {
	GetByPath(ctx context.Context, path string) (*model.Link, error)
}

// ResolveDeps groups dependencies required by the public resolution handler.
type ResolveDeps struct {
	Logger     *zap.Logger
	Links      LinkLoader
	Classifier *classifier.Classifier
	Resolver   *service.Resolver
	Postgres   *pgxpool.Pool
	App        config.AppConfig
}

// ResolveHandler serves the public smart-link endpoints.
type ResolveHandler struct {
	logger     *zap.Logger
	links      LinkLoader
	classifier *classifier.Classifier
	resolver   *service.Resolver
	postgres   *pgxpool.Pool
	app        config.AppConfig
}

// NewResolveHandler creates a resolve handler with the provided dependencies.
func NewResolveHandler(deps ResolveDeps) *ResolveHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResolveHandler{
		logger:     logger,
		links:      deps.Links,
		classifier: deps.Classifier,
		resolver:   deps.Resolver,
		postgres:   deps.Postgres,
		app:        deps.App,
	}
}

// Register wires the public routes onto the provided router. The catch-all
// must be registered after every other route.
func (h *ResolveHandler) Register(router fiber.Router) {
	router.Get("/", h.Fallback)
	router.Get("/health", h.Health)
	router.Get("/*", h.Resolve)
}

// Health reports service and database status.
func (h *ResolveHandler) Health(c *fiber.Ctx) error {
	dbStatus := "ok"
	if h.postgres != nil {
		ctx, cancel := context.WithTimeout(userContext(c), 2*time.Second)
		defer cancel()
		if err := h.postgres.Ping(ctx); err != nil {
			dbStatus = "unreachable"
		}
	}

	return c.JSON(fiber.Map{
		"service":  "polylink",
		"status":   "ok",
		"database": dbStatus,
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}

// Fallback handles GET / by redirecting to the configured per-platform
// fallback destination. Crawlers hitting the root get the web fallback too.
func (h *ResolveHandler) Fallback(c *fiber.Ctx) error {
	cls := h.classifier.Classify(c.Get(fiber.HeaderUserAgent))

	target := h.app.WebFallbackURL
	if !cls.Crawler {
		switch cls.Platform {
		case classifier.PlatformAndroid:
			target = h.app.AndroidFallbackURL
		case classifier.PlatformIOS:
			target = h.app.IOSFallbackURL
		}
	}

	prometheus.ResolutionsTotal.WithLabelValues("fallback").Inc()
	return c.Redirect(target, fiber.StatusFound)
}

// Resolve handles GET /<path>: classify the caller, load the link, and
// either redirect or render the crawler preview.
func (h *ResolveHandler) Resolve(c *fiber.Ctx) error {
	path := c.Params("*")
	if path == "" {
		return h.Fallback(c)
	}

	cls := h.classifier.Classify(c.Get(fiber.HeaderUserAgent))

	link, err := h.links.GetByPath(userContext(c), path)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			prometheus.ResolutionsTotal.WithLabelValues("not_found").Inc()
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "link not found",
			})
		}
		h.logger.Error("failed to load link", zap.Error(err), zap.String("path", path))
		prometheus.ResolutionsTotal.WithLabelValues("error").Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	action := h.resolver.Resolve(cls, link)

	switch action.Kind {
	case service.ActionPreview:
		html, err := view.RenderPreviewPage(view.PreviewPageData{
			Title:       action.Preview.Title,
			Description: action.Preview.Description,
			URL:         action.Preview.URL,
			ImageURL:    action.Preview.ImageURL,
			Type:        action.Preview.Type,
		})
		if err != nil {
			h.logger.Error("failed to render preview page", zap.Error(err), zap.String("path", path))
			prometheus.ResolutionsTotal.WithLabelValues("error").Inc()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to render preview",
			})
		}

		h.logger.Debug("serving crawler preview",
			zap.String("path", path),
			zap.String("bot", cls.BotName))
		prometheus.ResolutionsTotal.WithLabelValues("preview").Inc()
		return c.Type("html", "utf-8").SendString(html)

	default:
		if action.Location == "" {
			// A data-entry gap on the stored link, not a classifier fault.
			h.logger.Error("link has no destination for platform",
				zap.String("path", path),
				zap.String("platform", string(cls.Platform)))
			prometheus.ResolutionsTotal.WithLabelValues("bad_config").Inc()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "link is misconfigured",
			})
		}

		h.logger.Debug("redirecting",
			zap.String("path", path),
			zap.String("platform", string(cls.Platform)),
			zap.String("target", action.Location))
		prometheus.ResolutionsTotal.WithLabelValues("redirect").Inc()
		return c.Redirect(action.Location, fiber.StatusFound)
	}
}
