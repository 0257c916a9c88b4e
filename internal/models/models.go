package models

import (
	"time"

	"gorm.io/datatypes"
)

// School is immutable reference data; this service only reads it.
type School struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	Name       string `gorm:"column:nombre;not null" json:"nombre"`
	Department string `gorm:"column:departamento;not null;index" json:"departamento"`
	Locality   string `gorm:"column:localidad;not null" json:"localidad"`
}

func (School) TableName() string { return "schools" }

// Secret represents a single anonymous confession tied to a school.
type Secret struct {
	ID        uint          `gorm:"primarykey" json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Content   string        `gorm:"not null" json:"content"`
	Title     string        `gorm:"column:titulo;not null" json:"titulo"`
	SchoolID  uint          `gorm:"column:school;not null;index" json:"school"`
	Approved  bool          `gorm:"not null;default:false" json:"approved"`
	Images    []SecretImage `gorm:"foreignKey:SecretID" json:"-"`
}

func (Secret) TableName() string { return "secrets" }

// ImageURLs is the JSON object stored in secret_images.urls.
type ImageURLs struct {
	PublicURL string `json:"publicUrl"`
}

// SecretImage points at an uploaded attachment in object storage.
type SecretImage struct {
	ID        uint                          `gorm:"primarykey" json:"id"`
	SecretID  uint                          `gorm:"not null;index" json:"secret_id"`
	URLs      datatypes.JSONType[ImageURLs] `gorm:"column:urls" json:"urls"`
	CreatedAt time.Time                     `json:"created_at"`
}

func (SecretImage) TableName() string { return "secret_images" }

// AdminUser may sign in to the review dashboard.
type AdminUser struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
