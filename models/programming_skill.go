package models

// ProgrammingSkill represents one skill entry on the portfolio
type ProgrammingSkill struct {
	ID       uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name     string `json:"name" gorm:"type:varchar(100);not null" validate:"required"`
	Level    string `json:"level" gorm:"type:varchar(50);not null" validate:"required"`
	Category string `json:"category" gorm:"type:varchar(50);not null" validate:"required"`
	UserID   uint   `json:"user_id" gorm:"not null;index"`
	User     *User  `json:"-" gorm:"foreignKey:UserID" validate:"-"`
}

func (s ProgrammingSkill) PrimaryKey() uint { return s.ID }
func (s ProgrammingSkill) Owner() uint      { return s.UserID }

func (s *ProgrammingSkill) SetKeys(id, userID uint) {
	s.ID, s.UserID = id, userID
}
