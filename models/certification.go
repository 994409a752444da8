package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Certification represents a credential. Expiry is nil for certifications that never expire.
type Certification struct {
	ID           uint                        `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string                      `json:"name" gorm:"type:varchar(200);not null" validate:"required"`
	Issuer       string                      `json:"issuer" gorm:"type:varchar(200);not null" validate:"required"`
	Date         string                      `json:"date" gorm:"type:varchar(100);not null" validate:"required"`
	Expiry       *string                     `json:"expiry" gorm:"type:varchar(100)"`
	CredentialID string                      `json:"credential_id" gorm:"type:varchar(100)"`
	Icon         string                      `json:"icon" gorm:"type:varchar(100)"`
	Skills       datatypes.JSONSlice[string] `json:"skills"`
	UserID       uint                        `json:"user_id" gorm:"not null;index"`
	User         *User                       `json:"-" gorm:"foreignKey:UserID" validate:"-"`
}

func (c Certification) PrimaryKey() uint { return c.ID }
func (c Certification) Owner() uint      { return c.UserID }

func (c *Certification) SetKeys(id, userID uint) {
	c.ID, c.UserID = id, userID
}

func (c *Certification) BeforeSave(*gorm.DB) error {
	c.Skills = nonNil(c.Skills)
	return nil
}
