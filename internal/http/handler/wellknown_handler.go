package handler

import (
	"embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed static/assetlinks.json static/apple-app-site-association.json
var wellKnownFS embed.FS

// WellKnownHandler serves the app-association documents verbatim so the
// mobile platforms accept the deployment domain for deep links.
type WellKnownHandler struct{}

// NewWellKnownHandler creates the handler.
func NewWellKnownHandler() *WellKnownHandler {
	return &WellKnownHandler{}
}

// Register wires the well-known routes onto the provided router.
func (h *WellKnownHandler) Register(router fiber.Router) {
	router.Get("/.well-known/assetlinks.json", serveEmbedded("static/assetlinks.json"))
	router.Get("/.well-known/apple-app-site-association", serveEmbedded("static/apple-app-site-association.json"))
}

func serveEmbedded(name string) fiber.Handler {
	body, err := wellKnownFS.ReadFile(name)
	if err != nil {
		panic("well-known document missing from build: " + name)
	}
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(body)
	}
}
