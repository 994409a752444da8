package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	db                   *gorm.DB
	userRepo             *UserRepo
	programmingSkillRepo *ProgrammingSkillRepo
	workExperienceRepo   *WorkExperienceRepo
	educationRepo        *EducationRepo
	certificationRepo    *CertificationRepo
	projectRepo          *ProjectRepo
	blogPostRepo         *BlogPostRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:                   db,
		userRepo:             NewUserRepo(db),
		programmingSkillRepo: NewOwnedRepo[models.ProgrammingSkill](db),
		workExperienceRepo:   NewOwnedRepo[models.WorkExperience](db),
		educationRepo:        NewOwnedRepo[models.Education](db),
		certificationRepo:    NewOwnedRepo[models.Certification](db),
		projectRepo:          NewOwnedRepo[models.Project](db),
		blogPostRepo:         NewOwnedRepo[models.BlogPost](db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) ProgrammingSkillRepo() *ProgrammingSkillRepo {
	return d.programmingSkillRepo
}

func (d Database) WorkExperienceRepo() *WorkExperienceRepo {
	return d.workExperienceRepo
}

func (d Database) EducationRepo() *EducationRepo {
	return d.educationRepo
}

func (d Database) CertificationRepo() *CertificationRepo {
	return d.certificationRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

// Ping checks that the underlying connection pool can reach the database.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
