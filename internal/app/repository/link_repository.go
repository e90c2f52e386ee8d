package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/polylinkapp/polylink/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrLinkNotFound signals that the requested link does not exist.
	ErrLinkNotFound = errors.New("link not found")

	// ErrDuplicatePath signals that an insert lost the race for a path.
	// Callers recover by generating a fresh path and retrying.
	ErrDuplicatePath = errors.New("link path already taken")
)

// uniqueViolation is the Postgres error code for unique-constraint failures.
const uniqueViolation = "23505"

// LinkRepository defines the data access contract for smart links.
type LinkRepository interface {
	Create(ctx context.Context, link *model.Link) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Link, error)
	GetByPath(ctx context.Context, path string) (*model.Link, error)
	List(ctx context.Context) ([]model.Link, error)
	ListPaths(ctx context.Context) ([]string, error)
	Update(ctx context.Context, link *model.Link) error
}

type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository returns a GORM-backed LinkRepository.
func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Create(ctx context.Context, link *model.Link) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicatePath
		}
		return err
	}
	return nil
}

func (r *linkRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Link, error) {
	var link model.Link
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) GetByPath(ctx context.Context, path string) (*model.Link, error) {
	var link model.Link
	if err := r.db.WithContext(ctx).Where("path = ?", path).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) List(ctx context.Context) ([]model.Link, error) {
	var result []model.Link
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *linkRepository) ListPaths(ctx context.Context) ([]string, error) {
	var paths []string
	if err := r.db.WithContext(ctx).
		Model(&model.Link{}).
		Pluck("path", &paths).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

func (r *linkRepository) Update(ctx context.Context, link *model.Link) error {
	result := r.db.WithContext(ctx).
		Model(&model.Link{}).
		Where("id = ?", link.ID).
		Updates(map[string]interface{}{
			"title":               link.Title,
			"description":         link.Description,
			"image_url":           link.ImageURL,
			"web_destination":     link.WebDestination,
			"ios_destination":     link.IOSDestination,
			"android_destination": link.AndroidDestination,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLinkNotFound
	}

	return r.db.WithContext(ctx).Where("id = ?", link.ID).First(link).Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
