package handler

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/polylinkapp/polylink/internal/app/model"
	"github.com/polylinkapp/polylink/internal/app/repository"
	"github.com/polylinkapp/polylink/internal/app/service"
	"github.com/polylinkapp/polylink/internal/http/middleware"
	"go.uber.org/zap"
)

// APIDeps groups dependencies required by the management API handlers.
type APIDeps struct {
	Logger      *zap.Logger
	LinkService service.LinkService
	Resolver    *service.Resolver
	APIKey      string
}

// APIHandler implements the authenticated link management endpoints.
type APIHandler struct {
	logger      *zap.Logger
	linkService service.LinkService
	resolver    *service.Resolver
	apiKey      string
}

// NewAPIHandler creates an API handler with the provided dependencies.
func NewAPIHandler(deps APIDeps) *APIHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		logger:      logger,
		linkService: deps.LinkService,
		resolver:    deps.Resolver,
		apiKey:      deps.APIKey,
	}
}

// Register wires the management routes onto the provided router.
func (h *APIHandler) Register(router fiber.Router) {
	api := router.Group("/api", middleware.APIKeyAuth(h.apiKey, h.logger))
	{
		links := api.Group("/links")
		{
			links.Get("/", h.ListLinks)
			links.Post("/", h.CreateLink)
			links.Get("/:id", h.GetLink)
			links.Post("/:id", h.UpdateLink)
		}
	}
}

// LinkRequest is the body for both create and full-replace update.
type LinkRequest struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	ImageURL           string `json:"image_url"`
	WebDestination     string `json:"web_destination"`
	IOSDestination     string `json:"ios_destination"`
	AndroidDestination string `json:"android_destination"`
}

// LinkResponse is the external shape of a link resource.
type LinkResponse struct {
	ID                 uuid.UUID `json:"id"`
	Path               string    `json:"path"`
	URL                string    `json:"url"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	ImageURL           string    `json:"image_url"`
	WebDestination     string    `json:"web_destination"`
	IOSDestination     string    `json:"ios_destination"`
	AndroidDestination string    `json:"android_destination"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (h *APIHandler) serialize(link *model.Link) LinkResponse {
	return LinkResponse{
		ID:                 link.ID,
		Path:               link.Path,
		URL:                h.resolver.PublicURL(link.Path),
		Title:              link.Title,
		Description:        link.Description,
		ImageURL:           link.ImageURL,
		WebDestination:     link.WebDestination,
		IOSDestination:     link.IOSDestination,
		AndroidDestination: link.AndroidDestination,
		CreatedAt:          link.CreatedAt,
		UpdatedAt:          link.UpdatedAt,
	}
}

func (r *LinkRequest) validate() string {
	if r.Title == "" {
		return "title is required"
	}
	for name, value := range map[string]string{
		"image_url":           r.ImageURL,
		"web_destination":     r.WebDestination,
		"ios_destination":     r.IOSDestination,
		"android_destination": r.AndroidDestination,
	} {
		if value == "" {
			continue
		}
		if u, err := url.Parse(value); err != nil || !u.IsAbs() {
			return name + " must be an absolute URL"
		}
	}
	return ""
}

func (r *LinkRequest) toInput() service.LinkInput {
	return service.LinkInput{
		Title:              r.Title,
		Description:        r.Description,
		ImageURL:           r.ImageURL,
		WebDestination:     r.WebDestination,
		IOSDestination:     r.IOSDestination,
		AndroidDestination: r.AndroidDestination,
	}
}

// ListLinks handles GET /api/links
func (h *APIHandler) ListLinks(c *fiber.Ctx) error {
	links, err := h.linkService.ListLinks(userContext(c))
	if err != nil {
		h.logger.Error("failed to list links", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list links",
		})
	}

	response := make([]LinkResponse, len(links))
	for i := range links {
		response[i] = h.serialize(&links[i])
	}

	return c.JSON(response)
}

// GetLink handles GET /api/links/:id
func (h *APIHandler) GetLink(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "id must be a valid uuid",
		})
	}

	link, err := h.linkService.GetLink(userContext(c), id)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "link not found",
			})
		}
		h.logger.Error("failed to get link", zap.Error(err), zap.String("id", id.String()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get link",
		})
	}

	return c.JSON(h.serialize(link))
}

// CreateLink handles POST /api/links
func (h *APIHandler) CreateLink(c *fiber.Ctx) error {
	var req LinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if msg := req.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	link, err := h.linkService.CreateLink(userContext(c), req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrPathSpaceExhausted) {
			h.logger.Error("path generation kept colliding", zap.Error(err))
		} else {
			h.logger.Error("failed to create link", zap.Error(err))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create link",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(h.serialize(link))
}

// UpdateLink handles POST /api/links/:id (full replace).
func (h *APIHandler) UpdateLink(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "id must be a valid uuid",
		})
	}

	var req LinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if msg := req.validate(); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": msg,
		})
	}

	link, err := h.linkService.UpdateLink(userContext(c), id, req.toInput())
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "link not found",
			})
		}
		h.logger.Error("failed to update link", zap.Error(err), zap.String("id", id.String()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update link",
		})
	}

	return c.JSON(h.serialize(link))
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
