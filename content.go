package benang

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Content lifecycle statuses. Articles, videos and e-books move through
// draft -> published -> archived; events are either upcoming or past.
// Transitions are plain field writes and are not validated here — the
// backend schema is the place for constraints.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"

	EventUpcoming = "upcoming"
	EventPast     = "past"
)

// User roles.
const (
	RoleAdmin  = "admin"
	RoleWriter = "writer"
)

// Article is a learning-center article written in markdown.
type Article struct {
	ID        string     `db:"id" json:"id"`
	Title     string     `db:"title" json:"title" validate:"required"`
	Slug      string     `db:"slug" json:"slug"`
	Content   string     `db:"content" json:"content"`
	Excerpt   string     `db:"excerpt" json:"excerpt"`
	Category  string     `db:"category" json:"category"`
	Tags      StringList `db:"tags" json:"tags"`
	Author    string     `db:"author" json:"author"`
	ImageURL  string     `db:"image_url" json:"image_url"`
	ReadTime  string     `db:"read_time" json:"read_time"`
	Status    string     `db:"status" json:"status" validate:"omitempty,oneof=draft published archived"`
	Views     int        `db:"views" json:"views"`
	Likes     int        `db:"likes" json:"likes"`
	Featured  bool       `db:"featured" json:"featured"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Video is a tutorial video hosted externally; only metadata lives here.
type Video struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title" validate:"required"`
	Duration  string    `db:"duration" json:"duration"`
	Category  string    `db:"category" json:"category"`
	VideoURL  string    `db:"video_url" json:"video_url"`
	Thumbnail string    `db:"thumbnail" json:"thumbnail"`
	Views     int       `db:"views" json:"views"`
	Status    string    `db:"status" json:"status" validate:"omitempty,oneof=draft published archived"`
	Featured  bool      `db:"featured" json:"featured"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Event is a workshop or class listing. Date is stored as YYYY-MM-DD and
// Time as free text, matching what the events page renders verbatim.
type Event struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title" validate:"required"`
	Date        string    `db:"date" json:"date"`
	Time        string    `db:"time" json:"time"`
	Location    string    `db:"location" json:"location"`
	Category    string    `db:"category" json:"category"`
	Price       string    `db:"price" json:"price"`
	Spots       int       `db:"spots" json:"spots"`
	Description string    `db:"description" json:"description"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	Status      string    `db:"status" json:"status" validate:"omitempty,oneof=upcoming past"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Ebook is a downloadable e-book; FileURL points into object storage.
type Ebook struct {
	ID            string    `db:"id" json:"id"`
	Title         string    `db:"title" json:"title" validate:"required"`
	Description   string    `db:"description" json:"description"`
	Category      string    `db:"category" json:"category"`
	Pages         int       `db:"pages" json:"pages"`
	Format        string    `db:"format" json:"format"`
	Size          string    `db:"size" json:"size"`
	FileURL       string    `db:"file_url" json:"file_url"`
	DownloadCount int       `db:"download_count" json:"download_count"`
	Status        string    `db:"status" json:"status" validate:"omitempty,oneof=draft published archived"`
	Featured      bool      `db:"featured" json:"featured"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// User is a content-author account. PasswordHash never leaves the process:
// it is excluded from read queries and from JSON.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username" validate:"required"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         string    `db:"role" json:"role" validate:"omitempty,oneof=admin writer"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// GalleryItem is a showcase photo. Height is a display hint for the
// masonry layout, taken from the processed image.
type GalleryItem struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title" validate:"required"`
	Description string     `db:"description" json:"description"`
	Category    string     `db:"category" json:"category"`
	Tags        StringList `db:"tags" json:"tags"`
	ImageURL    string     `db:"image_url" json:"image_url"`
	Height      int        `db:"height" json:"height"`
	UploadedAt  time.Time  `db:"uploaded_at" json:"uploaded_at"`
}

// StringList stores a slice of strings as a single comma-delimited TEXT
// column (e.g. ",jahit,pola,"), delimited on both ends so a single tag can
// be matched with a substring search.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "", nil
	}
	parts := make([]string, len(l))
	for i, t := range l {
		parts[i] = strings.TrimSpace(t)
	}
	return "," + strings.Join(parts, ",") + ",", nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	*l = parseList(s)
	return nil
}

func parseList(s string) StringList {
	s = strings.Trim(s, ",")
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// record is implemented by every entity pointer type so the generic
// collection can stamp backend-generated fields and apply defaults.
type record interface {
	prepare(now time.Time)
	key() string
}

func newID() string { return uuid.New().String() }

func (a *Article) key() string     { return a.ID }
func (v *Video) key() string       { return v.ID }
func (e *Event) key() string       { return e.ID }
func (e *Ebook) key() string       { return e.ID }
func (u *User) key() string        { return u.ID }
func (g *GalleryItem) key() string { return g.ID }

func (a *Article) prepare(now time.Time) {
	if a.ID == "" {
		a.ID = newID()
	}
	if a.Slug == "" {
		a.Slug = Slugify(a.Title)
	}
	if a.Status == "" {
		a.Status = StatusDraft
	}
	a.CreatedAt = now
	a.UpdatedAt = now
}

func (v *Video) prepare(now time.Time) {
	if v.ID == "" {
		v.ID = newID()
	}
	if v.Status == "" {
		v.Status = StatusDraft
	}
	v.CreatedAt = now
	v.UpdatedAt = now
}

func (e *Event) prepare(now time.Time) {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.Status == "" {
		e.Status = EventUpcoming
	}
	e.CreatedAt = now
	e.UpdatedAt = now
}

func (e *Ebook) prepare(now time.Time) {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.Status == "" {
		e.Status = StatusDraft
	}
	if e.Format == "" {
		e.Format = "PDF"
	}
	e.CreatedAt = now
	e.UpdatedAt = now
}

func (u *User) prepare(now time.Time) {
	if u.ID == "" {
		u.ID = newID()
	}
	if u.FullName == "" {
		u.FullName = strings.TrimSpace(u.FirstName + " " + u.LastName)
	}
	if u.Role == "" {
		u.Role = RoleWriter
	}
	u.CreatedAt = now
}

func (g *GalleryItem) prepare(now time.Time) {
	if g.ID == "" {
		g.ID = newID()
	}
	g.UploadedAt = now
}
