package models

import "gorm.io/gorm"

const (
	defaultBlogCategory   = "Uncategorized"
	defaultBlogReadTime   = "5 min read"
	defaultBlogAuthorName = "Unknown Author"
)

// BlogPost represents a blog post with its display metadata.
// Views, likes and comments are written by the client as plain values.
type BlogPost struct {
	ID           uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string     `json:"title" gorm:"type:varchar(200);not null" validate:"required"`
	Content      string     `json:"content" gorm:"type:text;not null" validate:"required"`
	Date         string     `json:"date" gorm:"type:varchar(100);not null" validate:"required"`
	Category     string     `json:"category" gorm:"type:varchar(100)"`
	Tags         StringList `json:"tags"`
	ReadTime     string     `json:"read_time" gorm:"type:varchar(50)"`
	Image        string     `json:"image" gorm:"type:varchar(300)"`
	AuthorName   string     `json:"author_name" gorm:"type:varchar(100);not null"`
	AuthorAvatar string     `json:"author_avatar" gorm:"type:varchar(300)"`
	Featured     bool       `json:"featured" gorm:"not null;default:false"`
	Views        int        `json:"views" gorm:"not null;default:0"`
	Likes        int        `json:"likes" gorm:"not null;default:0"`
	Comments     int        `json:"comments" gorm:"not null;default:0"`
	UserID       uint       `json:"user_id" gorm:"not null;index"`
	User         *User      `json:"-" gorm:"foreignKey:UserID" validate:"-"`
}

func (b BlogPost) PrimaryKey() uint { return b.ID }
func (b BlogPost) Owner() uint      { return b.UserID }

func (b *BlogPost) SetKeys(id, userID uint) {
	b.ID, b.UserID = id, userID
}

func (b *BlogPost) BeforeCreate(*gorm.DB) error {
	if b.Category == "" {
		b.Category = defaultBlogCategory
	}
	if b.ReadTime == "" {
		b.ReadTime = defaultBlogReadTime
	}
	if b.AuthorName == "" {
		b.AuthorName = defaultBlogAuthorName
	}
	return nil
}

func (b *BlogPost) BeforeSave(*gorm.DB) error {
	b.Tags = nonNil(b.Tags)
	return nil
}
