package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/polylinkapp/polylink/internal/app/model"
	"github.com/polylinkapp/polylink/internal/app/repository"
	"go.uber.org/zap"
)

// maxPathAttempts bounds the create retry loop. With ~124 bits of path
// entropy a second collision in a row already signals something is badly
// wrong, so the ceiling is kept low.
const maxPathAttempts = 5

// ErrPathSpaceExhausted signals that every generated path collided within
// the retry budget. This should never happen with a healthy generator.
var ErrPathSpaceExhausted = errors.New("exhausted attempts to allocate a unique link path")

// Generator yields candidate link paths.
type Generator interface {
	Generate() string
}

// LinkService defines behaviour-level operations on smart links.
type LinkService interface {
	CreateLink(ctx context.Context, input LinkInput) (*model.Link, error)
	GetLink(ctx context.Context, id uuid.UUID) (*model.Link, error)
	ListLinks(ctx context.Context) ([]model.Link, error)
	UpdateLink(ctx context.Context, id uuid.UUID, input LinkInput) (*model.Link, error)
}

// LinkInput captures every mutable field of a link. Both create and update
// take the full set: updates replace, they never merge.
type LinkInput struct {
	Title              string
	Description        string
	ImageURL           string
	WebDestination     string
	IOSDestination     string
	AndroidDestination string
}

// LinkServiceDeps bundles what the service needs. Filter and Events are
// optional; the service degrades to plain store-enforced uniqueness and no
// event fan-out when they are nil.
type LinkServiceDeps struct {
	Repo   repository.LinkRepository
	Paths  Generator
	Filter *PathFilter
	Events *LinkEventPublisher
	Logger *zap.Logger
}

type linkService struct {
	repo   repository.LinkRepository
	paths  Generator
	filter *PathFilter
	events *LinkEventPublisher
	logger *zap.Logger
}

// NewLinkService returns a service implementation backed by the given deps.
func NewLinkService(deps LinkServiceDeps) LinkService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &linkService{
		repo:   deps.Repo,
		paths:  deps.Paths,
		filter: deps.Filter,
		events: deps.Events,
		logger: logger,
	}
}

func (s *linkService) CreateLink(ctx context.Context, input LinkInput) (*model.Link, error) {
	for attempt := 0; attempt < maxPathAttempts; attempt++ {
		path := s.paths.Generate()

		if s.filter != nil && s.filter.TestAndAdd(path) {
			// Probably taken already; cheaper to regenerate than to
			// bounce off the unique index.
			continue
		}

		link := &model.Link{
			ID:                 uuid.New(),
			Path:               path,
			Title:              input.Title,
			Description:        input.Description,
			ImageURL:           input.ImageURL,
			WebDestination:     input.WebDestination,
			IOSDestination:     input.IOSDestination,
			AndroidDestination: input.AndroidDestination,
		}

		err := s.repo.Create(ctx, link)
		if errors.Is(err, repository.ErrDuplicatePath) {
			s.logger.Warn("link path collided, retrying",
				zap.String("path", path),
				zap.Int("attempt", attempt+1))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create link: %w", err)
		}

		s.announce(model.LinkEventCreated, link)
		return link, nil
	}

	return nil, ErrPathSpaceExhausted
}

func (s *linkService) GetLink(ctx context.Context, id uuid.UUID) (*model.Link, error) {
	link, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get link: %w", err)
	}
	return link, nil
}

func (s *linkService) ListLinks(ctx context.Context) ([]model.Link, error) {
	links, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

func (s *linkService) UpdateLink(ctx context.Context, id uuid.UUID, input LinkInput) (*model.Link, error) {
	link, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load link: %w", err)
	}

	// Full replace of every mutable field; id and path stay fixed.
	link.Title = input.Title
	link.Description = input.Description
	link.ImageURL = input.ImageURL
	link.WebDestination = input.WebDestination
	link.IOSDestination = input.IOSDestination
	link.AndroidDestination = input.AndroidDestination

	if err := s.repo.Update(ctx, link); err != nil {
		return nil, fmt.Errorf("update link: %w", err)
	}

	s.announce(model.LinkEventUpdated, link)
	return link, nil
}

func (s *linkService) announce(eventType string, link *model.Link) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(eventType, link); err != nil {
		s.logger.Error("failed to publish link event",
			zap.Error(err),
			zap.String("type", eventType),
			zap.String("path", link.Path))
	}
}
