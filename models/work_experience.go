package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultWorkExperienceIcon = "Brain"

// WorkExperience represents a position held. Date is free text ("2021 - Present").
type WorkExperience struct {
	ID           uint                        `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string                      `json:"title" gorm:"type:varchar(200);not null" validate:"required"`
	Company      string                      `json:"company" gorm:"type:varchar(200);not null" validate:"required"`
	Location     string                      `json:"location" gorm:"type:varchar(200);not null" validate:"required"`
	Date         string                      `json:"date" gorm:"type:varchar(100);not null" validate:"required"`
	Description  string                      `json:"description" gorm:"type:text;not null" validate:"required"`
	Icon         string                      `json:"icon" gorm:"type:varchar(100);not null;default:Brain"`
	Color        string                      `json:"color" gorm:"type:varchar(50)"`
	Achievements datatypes.JSONSlice[string] `json:"achievements"`
	UserID       uint                        `json:"user_id" gorm:"not null;index"`
	User         *User                       `json:"-" gorm:"foreignKey:UserID" validate:"-"`
}

func (w WorkExperience) PrimaryKey() uint { return w.ID }
func (w WorkExperience) Owner() uint      { return w.UserID }

func (w *WorkExperience) SetKeys(id, userID uint) {
	w.ID, w.UserID = id, userID
}

func (w *WorkExperience) BeforeSave(*gorm.DB) error {
	if w.Icon == "" {
		w.Icon = defaultWorkExperienceIcon
	}
	w.Achievements = nonNil(w.Achievements)
	return nil
}
