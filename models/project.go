package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultProjectCategory = "General"

// Project represents a complete project with its case-study write-up
type Project struct {
	ID              uint                                `json:"id" gorm:"primaryKey;autoIncrement"`
	Title           string                              `json:"title" gorm:"type:varchar(200);not null" validate:"required"`
	Description     string                              `json:"description" gorm:"type:text;not null" validate:"required"`
	LongDescription string                              `json:"long_description" gorm:"type:text"`
	Image           string                              `json:"image" gorm:"type:varchar(300)"`
	Technologies    StringList                          `json:"technologies" gorm:"not null"`
	Purpose         string                              `json:"purpose" gorm:"type:text"`
	Approach        string                              `json:"approach" gorm:"type:text"`
	Contribution    string                              `json:"contribution" gorm:"type:text"`
	Results         string                              `json:"results" gorm:"type:text"`
	Github          string                              `json:"github" gorm:"type:varchar(300)"`
	Demo            string                              `json:"demo" gorm:"type:varchar(300)"`
	Category        string                              `json:"category" gorm:"type:varchar(100)"`
	Features        datatypes.JSONSlice[Feature]        `json:"features"`
	Screenshots     datatypes.JSONSlice[string]         `json:"screenshots"`
	TechStack       datatypes.JSONSlice[TechStackGroup] `json:"tech_stack"`
	UserID          uint                                `json:"user_id" gorm:"not null;index"`
	User            *User                               `json:"-" gorm:"foreignKey:UserID" validate:"-"`
}

func (p Project) PrimaryKey() uint { return p.ID }
func (p Project) Owner() uint      { return p.UserID }

func (p *Project) SetKeys(id, userID uint) {
	p.ID, p.UserID = id, userID
}

func (p *Project) BeforeCreate(*gorm.DB) error {
	if p.Category == "" {
		p.Category = defaultProjectCategory
	}
	return nil
}

func (p *Project) BeforeSave(*gorm.DB) error {
	p.Technologies = nonNil(p.Technologies)
	p.Features = nonNil(p.Features)
	p.Screenshots = nonNil(p.Screenshots)
	p.TechStack = nonNil(p.TechStack)
	return nil
}
