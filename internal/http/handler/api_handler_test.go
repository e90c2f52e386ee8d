package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/polylinkapp/polylink/internal/app/model"
	"github.com/polylinkapp/polylink/internal/app/repository"
	"github.com/polylinkapp/polylink/internal/app/service"
	"github.com/polylinkapp/polylink/internal/http/middleware"
)

const testAPIKey = "test-key"

type mockLinkService struct {
	createFn func(ctx context.Context, input service.LinkInput) (*model.Link, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*model.Link, error)
	listFn   func(ctx context.Context) ([]model.Link, error)
	updateFn func(ctx context.Context, id uuid.UUID, input service.LinkInput) (*model.Link, error)
}

func (m *mockLinkService) CreateLink(ctx context.Context, input service.LinkInput) (*model.Link, error) {
	return m.createFn(ctx, input)
}

func (m *mockLinkService) GetLink(ctx context.Context, id uuid.UUID) (*model.Link, error) {
	return m.getFn(ctx, id)
}

func (m *mockLinkService) ListLinks(ctx context.Context) ([]model.Link, error) {
	return m.listFn(ctx)
}

func (m *mockLinkService) UpdateLink(ctx context.Context, id uuid.UUID, input service.LinkInput) (*model.Link, error) {
	return m.updateFn(ctx, id, input)
}

func newAPIApp(t *testing.T, svc service.LinkService) *fiber.App {
	t.Helper()
	base, _ := url.Parse("https://poly.example.com")

	app := fiber.New()
	NewAPIHandler(APIDeps{
		LinkService: svc,
		Resolver:    service.NewResolver(base),
		APIKey:      testAPIKey,
	}).Register(app)
	return app
}

func TestAPI_RequiresKey(t *testing.T) {
	app := newAPIApp(t, &mockLinkService{})

	req := httptest.NewRequest("GET", "/api/links", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without key, got %d", resp.StatusCode)
	}
}

func TestAPI_CreateLink(t *testing.T) {
	id := uuid.New()
	svc := &mockLinkService{
		createFn: func(ctx context.Context, input service.LinkInput) (*model.Link, error) {
			if input.Title != "Launch party" {
				t.Fatalf("unexpected title %q", input.Title)
			}
			return &model.Link{
				ID:             id,
				Path:           "GENERATEDPATH",
				Title:          input.Title,
				WebDestination: input.WebDestination,
			}, nil
		},
	}
	app := newAPIApp(t, svc)

	body, _ := json.Marshal(LinkRequest{
		Title:          "Launch party",
		WebDestination: "https://example.com/party",
	})
	req := httptest.NewRequest("POST", "/api/links", bytes.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var got LinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != id || got.Path != "GENERATEDPATH" {
		t.Fatal("response does not reflect the created link")
	}
	if got.URL != "https://poly.example.com/GENERATEDPATH" {
		t.Fatalf("expected computed absolute url, got %q", got.URL)
	}
}

func TestAPI_CreateLink_RejectsMissingTitle(t *testing.T) {
	app := newAPIApp(t, &mockLinkService{})

	body, _ := json.Marshal(LinkRequest{WebDestination: "https://example.com"})
	req := httptest.NewRequest("POST", "/api/links", bytes.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAPI_CreateLink_RejectsRelativeDestination(t *testing.T) {
	app := newAPIApp(t, &mockLinkService{})

	body, _ := json.Marshal(LinkRequest{Title: "x", WebDestination: "/relative"})
	req := httptest.NewRequest("POST", "/api/links", bytes.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAPI_GetLink_NotFound(t *testing.T) {
	svc := &mockLinkService{
		getFn: func(ctx context.Context, id uuid.UUID) (*model.Link, error) {
			return nil, repository.ErrLinkNotFound
		},
	}
	app := newAPIApp(t, svc)

	req := httptest.NewRequest("GET", "/api/links/"+uuid.NewString(), nil)
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAPI_UpdateLink_NotFound(t *testing.T) {
	svc := &mockLinkService{
		updateFn: func(ctx context.Context, id uuid.UUID, input service.LinkInput) (*model.Link, error) {
			return nil, repository.ErrLinkNotFound
		},
	}
	app := newAPIApp(t, svc)

	body, _ := json.Marshal(LinkRequest{Title: "x"})
	req := httptest.NewRequest("POST", "/api/links/"+uuid.NewString(), bytes.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestAPI_BadID(t *testing.T) {
	app := newAPIApp(t, &mockLinkService{})

	req := httptest.NewRequest("GET", "/api/links/not-a-uuid", nil)
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAPI_ListLinks(t *testing.T) {
	svc := &mockLinkService{
		listFn: func(ctx context.Context) ([]model.Link, error) {
			return []model.Link{{Path: "A"}, {Path: "B"}}, nil
		},
	}
	app := newAPIApp(t, svc)

	req := httptest.NewRequest("GET", "/api/links", nil)
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var got []LinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 links, got %d", len(got))
	}
}
