package models

// User owns every piece of portfolio content.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string `json:"username" gorm:"type:varchar(80);not null;uniqueIndex"`
	Email        string `json:"email" gorm:"type:varchar(120);not null;uniqueIndex"`
	PasswordHash string `json:"-" gorm:"type:varchar(128);not null"`
}
