package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Education represents a degree or course of study
type Education struct {
	ID          uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Degree      string `json:"degree" gorm:"type:varchar(200);not null" validate:"required"`
	Institution string `json:"institution" gorm:"type:varchar(200);not null" validate:"required"`
	Period      string `json:"period" gorm:"type:varchar(100);not null" validate:"required"`
	Location    string `json:"location" gorm:"type:varchar(100);not null" validate:"required"`
	GPA         Grade  `json:"gpa" gorm:"column:gpa;type:varchar(10)"`
	Description string `json:"description" gorm:"type:text"`
	UserID      uint   `json:"user_id" gorm:"not null;index"`
	User        *User  `json:"-" gorm:"foreignKey:UserID" validate:"-"`
}

func (e Education) PrimaryKey() uint { return e.ID }
func (e Education) Owner() uint      { return e.UserID }

func (e *Education) SetKeys(id, userID uint) {
	e.ID, e.UserID = id, userID
}

// Grade is stored and returned as text. Clients may send it as a JSON number
// (3.8) or a string ("3.8/4.0").
type Grade string

func (g *Grade) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(raw, []byte("null")):
		*g = ""
	case bytes.HasPrefix(raw, []byte(`"`)):
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return err
		}
		*g = Grade(strings.TrimSpace(text))
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("gpa must be a number or a string: %w", err)
		}
		*g = Grade(n.String())
	}
	return nil
}
