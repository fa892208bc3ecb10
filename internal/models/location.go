package models

import (
	"time"
)

// Location is immutable reference data: a city or settlement users can
// pick as a trip endpoint. Managed through the registry endpoints, looked
// up by id, by code, or lazily created from free text.
type Location struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	NameRu    string    `db:"name_ru" json:"name_ru"`
	NameEn    string    `db:"name_en" json:"name_en"`
	NameKy    string    `db:"name_ky" json:"name_ky"`
	SortOrder int       `db:"sort_order" json:"sort_order"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	Region    string    `db:"region" json:"region"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateLocationRequest struct {
	Code      string `json:"code" validate:"required,min=2,max=50"`
	NameRu    string `json:"name_ru" validate:"required,max=255"`
	NameEn    string `json:"name_en" validate:"required,max=255"`
	NameKy    string `json:"name_ky" validate:"required,max=255"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
	Region    string `json:"region,omitempty" validate:"max=255"`
}

// Name returns the localized name, falling back to Russian.
func (l *Location) Name(lang string) string {
	switch lang {
	case "en":
		return l.NameEn
	case "ky":
		return l.NameKy
	default:
		return l.NameRu
	}
}
