package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type User struct {
	ID           int    `gorm:"primary_key;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"` // json:"-" prevents password from being exposed in API
}

// StringList is an ordered list of strings stored as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return errors.New("unsupported type for StringList")
	}

	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Post is the queryable metadata record for one blog post. Content is
// nullable: posts synced from markdown files keep it NULL and the body
// is read from disk at serve time; posts created through the admin API
// store their body here.
type Post struct {
	ID                 uint       `gorm:"primary_key" json:"id"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	Slug               string     `gorm:"unique;not null;index" json:"slug"`
	Title              string     `gorm:"not null" json:"title"`
	Excerpt            string     `gorm:"type:text" json:"excerpt"`
	Category           string     `json:"category"`
	ImageURL           string     `json:"imageUrl"`
	Author             string     `json:"author"`
	AuthorImage        string     `json:"authorImage"`
	PublishedAt        string     `json:"publishedAt"` // ISO date string, compared lexically
	ReadTime           string     `json:"readTime"`
	Featured           int        `gorm:"default:0" json:"featured"` // 0/1, not boolean
	Tags               StringList `gorm:"type:text" json:"tags"`
	AttachmentURL      *string    `json:"attachmentUrl,omitempty"`
	AttachmentFilename *string    `json:"attachmentFilename,omitempty"`
	AttachmentSize     *string    `json:"attachmentSize,omitempty"`
	Content            *string    `gorm:"type:text" json:"content,omitempty"`
}

type Product struct {
	ID           uint      `gorm:"primary_key" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Category     string    `json:"category"`
	ImageURL     string    `json:"imageUrl"`
	DatasheetURL string    `json:"datasheetUrl"`
	Featured     int       `gorm:"default:0" json:"featured"`
}

type Resource struct {
	ID          uint      `gorm:"primary_key" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `json:"category"`
	FileURL     string    `json:"fileUrl"`
	FileName    string    `json:"fileName"`
	FileSize    string    `json:"fileSize"`
}

type Service struct {
	ID          uint      `gorm:"primary_key" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `json:"icon"`
	SortOrder   int       `gorm:"default:0" json:"sortOrder"`
}

type ContactMessage struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Company   string    `json:"company"`
	Phone     string    `json:"phone"`
	Message   string    `gorm:"type:text;not null" json:"message"`
}

type Subscriber struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Email     string    `gorm:"unique;not null" json:"email"`
}

type Review struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"not null" json:"name"`
	Company   string    `json:"company"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	Approved  bool      `gorm:"default:false;index" json:"approved"`
}
