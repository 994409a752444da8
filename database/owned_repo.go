package database

import (
	"context"
	"errors"

	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

// OwnedRepo stores one kind of user owned entity.
type OwnedRepo[T any] struct {
	db *gorm.DB
}

type (
	ProgrammingSkillRepo = OwnedRepo[models.ProgrammingSkill]
	WorkExperienceRepo   = OwnedRepo[models.WorkExperience]
	EducationRepo        = OwnedRepo[models.Education]
	CertificationRepo    = OwnedRepo[models.Certification]
	ProjectRepo          = OwnedRepo[models.Project]
	BlogPostRepo         = OwnedRepo[models.BlogPost]
)

func NewOwnedRepo[T any](db *gorm.DB) *OwnedRepo[T] {
	return &OwnedRepo[T]{db}
}

// FindAll returns every row across all users, oldest first
func (r *OwnedRepo[T]) FindAll(ctx context.Context) ([]T, error) {
	rows := make([]T, 0)
	err := r.db.WithContext(ctx).Order("id").Find(&rows).Error
	return rows, err
}

// FindByID returns nil without an error when no row has the given id
func (r *OwnedRepo[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var row T
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Add inserts a new row; the storage assigned id is written back into row
func (r *OwnedRepo[T]) Add(ctx context.Context, row *T) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Update writes every column of an existing row. It never inserts: a row that
// vanished since it was read reports gorm.ErrRecordNotFound.
func (r *OwnedRepo[T]) Update(ctx context.Context, row *T) error {
	result := r.db.WithContext(ctx).Model(row).Select("*").Omit("User").Updates(row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a row by id and reports how many rows were removed
func (r *OwnedRepo[T]) Delete(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	return result.RowsAffected, result.Error
}
