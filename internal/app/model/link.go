package model

import (
	"time"

	"github.com/google/uuid"
)

// Link is the smart-link entity stored in Postgres. ID and Path are assigned
// at creation and never change; everything else is replaced wholesale on update.
type Link struct {
	ID   uuid.UUID `db:"id" gorm:"type:uuid;primaryKey"`
	Path string    `db:"path" gorm:"size:32;not null;uniqueIndex"`

	Title       string `db:"title" gorm:"type:text;not null"`
	Description string `db:"description" gorm:"type:text;not null"`
	ImageURL    string `db:"image_url" gorm:"type:text;not null"`

	WebDestination     string `db:"web_destination" gorm:"type:text;not null"`
	IOSDestination     string `db:"ios_destination" gorm:"type:text;not null"`
	AndroidDestination string `db:"android_destination" gorm:"type:text;not null"`

	CreatedAt time.Time `db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `db:"updated_at" gorm:"autoUpdateTime"`
}
