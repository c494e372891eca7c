package benang

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
)

// Gateway mediates every read and write between the site and the content
// backend. It is constructed once at startup and handed to callers
// explicitly; it holds no cache and no state beyond the connection.
//
// The error policy is deliberately asymmetric and mirrors how the pages
// consume it: read paths absorb backend failures and hand back empty data
// so a marketing page never hard-crashes on an outage, Create surfaces the
// error so the admin form can tell the operator the save failed, and
// Update/Delete/SetFeatured absorb failures into nil/false results.
type Gateway struct {
	Articles *FeaturedRepo[Article, *Article]
	Videos   *FeaturedRepo[Video, *Video]
	Ebooks   *FeaturedRepo[Ebook, *Ebook]
	Events   *Repo[Event, *Event]
	Gallery  *Repo[GalleryItem, *GalleryItem]
	Users    *UserRepo
}

// NewGateway builds the per-kind repositories over the store. Pass nil for
// logger to log through the default logger.
func NewGateway(store *Store, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.Default()
	}
	db := store.db

	articles := &collection[Article, *Article]{
		db:         db,
		table:      "articles",
		selectCols: "*",
		live:       StatusPublished,
		orderLive:  "created_at DESC",
		orderAll:   "created_at DESC",
		insertSQL: `INSERT INTO articles
			(id, title, slug, content, excerpt, category, tags, author, image_url, read_time, status, views, likes, featured, created_at, updated_at)
			VALUES
			(:id, :title, :slug, :content, :excerpt, :category, :tags, :author, :image_url, :read_time, :status, :views, :likes, :featured, :created_at, :updated_at)`,
		updatable: columnSet("title", "slug", "content", "excerpt", "category", "tags",
			"author", "image_url", "read_time", "status", "views", "likes"),
		counters:   columnSet("views", "likes"),
		updatedCol: "updated_at",
	}

	videos := &collection[Video, *Video]{
		db:         db,
		table:      "videos",
		selectCols: "*",
		live:       StatusPublished,
		orderLive:  "created_at DESC",
		orderAll:   "created_at DESC",
		insertSQL: `INSERT INTO videos
			(id, title, duration, category, video_url, thumbnail, views, status, featured, created_at, updated_at)
			VALUES
			(:id, :title, :duration, :category, :video_url, :thumbnail, :views, :status, :featured, :created_at, :updated_at)`,
		updatable:  columnSet("title", "duration", "category", "video_url", "thumbnail", "views", "status"),
		counters:   columnSet("views"),
		updatedCol: "updated_at",
	}

	events := &collection[Event, *Event]{
		db:         db,
		table:      "events",
		selectCols: "*",
		live:       EventUpcoming,
		orderLive:  "date ASC",
		orderAll:   "date DESC",
		insertSQL: `INSERT INTO events
			(id, title, date, time, location, category, price, spots, description, image_url, status, created_at, updated_at)
			VALUES
			(:id, :title, :date, :time, :location, :category, :price, :spots, :description, :image_url, :status, :created_at, :updated_at)`,
		updatable: columnSet("title", "date", "time", "location", "category",
			"price", "spots", "description", "image_url", "status"),
		updatedCol: "updated_at",
	}

	ebooks := &collection[Ebook, *Ebook]{
		db:         db,
		table:      "ebooks",
		selectCols: "*",
		live:       StatusPublished,
		orderLive:  "created_at DESC",
		orderAll:   "created_at DESC",
		insertSQL: `INSERT INTO ebooks
			(id, title, description, category, pages, format, size, file_url, download_count, status, featured, created_at, updated_at)
			VALUES
			(:id, :title, :description, :category, :pages, :format, :size, :file_url, :download_count, :status, :featured, :created_at, :updated_at)`,
		updatable: columnSet("title", "description", "category", "pages",
			"format", "size", "file_url", "status"),
		counters:   columnSet("download_count"),
		updatedCol: "updated_at",
	}

	gallery := &collection[GalleryItem, *GalleryItem]{
		db:         db,
		table:      "gallery",
		selectCols: "*",
		orderLive:  "uploaded_at DESC",
		orderAll:   "uploaded_at DESC",
		insertSQL: `INSERT INTO gallery
			(id, title, description, category, tags, image_url, height, uploaded_at)
			VALUES
			(:id, :title, :description, :category, :tags, :image_url, :height, :uploaded_at)`,
		updatable: columnSet("title", "description", "category", "tags", "image_url", "height"),
	}

	users := &collection[User, *User]{
		db:    db,
		table: "users",
		// password_hash stays out of every read path
		selectCols: "id, username, first_name, last_name, full_name, role, is_active, created_at",
		orderLive:  "created_at DESC",
		orderAll:   "created_at DESC",
		insertSQL: `INSERT INTO users
			(id, username, password_hash, first_name, last_name, full_name, role, is_active, created_at)
			VALUES
			(:id, :username, :password_hash, :first_name, :last_name, :full_name, :role, :is_active, :created_at)`,
		updatable: columnSet("username", "password_hash", "first_name",
			"last_name", "full_name", "role", "is_active"),
	}

	return &Gateway{
		Articles: &FeaturedRepo[Article, *Article]{Repo[Article, *Article]{kind: "articles", col: articles, log: logger}},
		Videos:   &FeaturedRepo[Video, *Video]{Repo[Video, *Video]{kind: "videos", col: videos, log: logger}},
		Ebooks:   &FeaturedRepo[Ebook, *Ebook]{Repo[Ebook, *Ebook]{kind: "ebooks", col: ebooks, log: logger}},
		Events:   &Repo[Event, *Event]{kind: "events", col: events, log: logger},
		Gallery:  &Repo[GalleryItem, *GalleryItem]{kind: "gallery", col: gallery, log: logger},
		Users:    &UserRepo{repo: &Repo[User, *User]{kind: "users", col: users, log: logger}},
	}
}

func columnSet(cols ...string) map[string]bool {
	m := make(map[string]bool, len(cols))
	for _, c := range cols {
		m[c] = true
	}
	return m
}

// Repo applies the gateway error policy on top of a generic collection.
// One instantiation per content kind keeps the six method families
// contract-identical without six hand-written copies.
type Repo[T any, PT recordPtr[T]] struct {
	kind string
	col  *collection[T, PT]
	log  *log.Logger
}

// ListPublished returns the publicly visible entities in display order.
// Backend failures are logged and degrade to an empty slice.
func (r *Repo[T, PT]) ListPublished(ctx context.Context) []T {
	items, err := r.col.listLive(ctx)
	if err != nil {
		r.log.Printf("gateway: %s: list published: %v", r.kind, err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// ListAll returns every entity regardless of status, for the admin
// dashboard. Same failure policy as ListPublished.
func (r *Repo[T, PT]) ListAll(ctx context.Context) []T {
	items, err := r.col.listAll(ctx)
	if err != nil {
		r.log.Printf("gateway: %s: list all: %v", r.kind, err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// Get returns one entity by id, or nil if it does not exist or the
// backend failed.
func (r *Repo[T, PT]) Get(ctx context.Context, id string) *T {
	item, err := r.col.get(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.log.Printf("gateway: %s: get %s: %v", r.kind, id, err)
		}
		return nil
	}
	return item
}

// Create inserts a new entity and returns it with the generated id and
// timestamps. Unlike the other write paths the error is returned: the
// admin form must be able to tell the operator the save did not happen.
func (r *Repo[T, PT]) Create(ctx context.Context, item T) (T, error) {
	rec := PT(&item)
	if err := r.col.insert(ctx, rec); err != nil {
		r.log.Printf("gateway: %s: create: %v", r.kind, err)
		return item, fmt.Errorf("create %s: %w", r.kind, err)
	}
	if fresh, err := r.col.get(ctx, rec.key()); err == nil {
		return *fresh, nil
	}
	return item, nil
}

// Update applies a partial update keyed by column name and returns the
// fresh entity, or nil on failure (logged, absorbed).
func (r *Repo[T, PT]) Update(ctx context.Context, id string, fields map[string]any) *T {
	item, err := r.col.update(ctx, id, fields)
	if err != nil {
		r.log.Printf("gateway: %s: update %s: %v", r.kind, id, err)
		return nil
	}
	return item
}

// Delete hard-deletes an entity and reports whether a row was removed.
// Deleting an id that is already gone returns false without logging noise.
func (r *Repo[T, PT]) Delete(ctx context.Context, id string) bool {
	ok, err := r.col.delete(ctx, id)
	if err != nil {
		r.log.Printf("gateway: %s: delete %s: %v", r.kind, id, err)
		return false
	}
	return ok
}

// Increment bumps a counter column (views, likes, download_count) and
// returns the fresh entity, or nil on failure.
func (r *Repo[T, PT]) Increment(ctx context.Context, id, column string) *T {
	item, err := r.col.increment(ctx, id, column)
	if err != nil {
		r.log.Printf("gateway: %s: increment %s.%s: %v", r.kind, id, column, err)
		return nil
	}
	return item
}

// FeaturedRepo adds the spotlight toggle for the kinds that have one:
// articles, videos and e-books.
type FeaturedRepo[T any, PT recordPtr[T]] struct {
	Repo[T, PT]
}

// SetFeatured grants or revokes the single per-kind spotlight and returns
// the fresh entity, or nil on failure. After a successful grant exactly one
// entity of the kind is featured.
func (r *FeaturedRepo[T, PT]) SetFeatured(ctx context.Context, id string, featured bool) *T {
	item, err := r.col.setFeatured(ctx, id, featured)
	if err != nil {
		r.log.Printf("gateway: %s: set featured %s: %v", r.kind, id, err)
		return nil
	}
	return item
}

// UserRepo is the reduced users variant: plain CRUD, no spotlight, no
// published/draft split, and read results never carry credential material.
type UserRepo struct {
	repo *Repo[User, *User]
}

// ListAll returns every user ordered by creation time, password hashes
// excluded at the query level.
func (r *UserRepo) ListAll(ctx context.Context) []User {
	return r.repo.ListAll(ctx)
}

// Get returns one user by id without the password hash.
func (r *UserRepo) Get(ctx context.Context, id string) *User {
	return r.repo.Get(ctx, id)
}

// Create hashes the plaintext password with bcrypt and inserts the user.
// Username uniqueness is enforced by the backend schema, not here.
func (r *UserRepo) Create(ctx context.Context, u User, password string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("create users: hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	created, err := r.repo.Create(ctx, u)
	created.PasswordHash = ""
	return created, err
}

// Update applies a partial update. A "password" field is hashed and
// rewritten to password_hash before it reaches the backend.
func (r *UserRepo) Update(ctx context.Context, id string, fields map[string]any) *User {
	if pw, ok := fields["password"]; ok {
		s, _ := pw.(string)
		hash, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
		if err != nil {
			r.repo.log.Printf("gateway: users: update %s: hash password: %v", id, err)
			return nil
		}
		delete(fields, "password")
		fields["password_hash"] = string(hash)
	}
	return r.repo.Update(ctx, id, fields)
}

// Delete removes a user account.
func (r *UserRepo) Delete(ctx context.Context, id string) bool {
	return r.repo.Delete(ctx, id)
}
