// Package benang is the content platform behind the Benang Studio site, a
// marketing and learning site for a sewing and fashion education brand.
//
// The package wires a JSON content API over a relational backend: public
// read endpoints for the home, gallery, learning-center and events pages,
// and a session-guarded admin API the dashboard SPA uses to manage
// articles, videos, events, e-books, users and gallery photos. All data
// access goes through a single Gateway constructed at startup and passed
// explicitly to the handlers.
package benang

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// App is the central benang application. It wires together the store,
// gateway, cache, object storage, middleware and routes.
type App struct {
	Config  Config
	Echo    *echo.Echo
	Store   *Store
	Gateway *Gateway
	Cache   *ArticleCache
	Images  *ImageStore

	logger       *log.Logger
	validate     *validator.Validate
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a benang App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		logger:    log.Default(),
		validate:  validator.New(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the database, gateway, cache, object storage,
// middleware and routes, then starts the server.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("benang: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("benang: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DBDriver, a.Config.DBDSN)
	if err != nil {
		return fmt.Errorf("benang: init store: %w", err)
	}
	a.Store = store

	a.Gateway = NewGateway(store, a.logger)
	a.Cache = NewArticleCache(a.Gateway.Articles, a.Config.ContentCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	if a.Config.Storage.Endpoint != "" {
		images, err := NewImageStore(a.Config.Storage)
		if err != nil {
			return fmt.Errorf("benang: init object storage: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := images.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("benang: ensure bucket: %w", err)
		}
		a.Images = images
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Public content API consumed by the site pages. Read-only apart from
	// the counters; backend outages degrade to empty data, never a 5xx.
	api := e.Group("/api")
	api.GET("/articles", a.handleArticles)
	api.GET("/articles/:id", a.handleArticle)
	api.POST("/articles/:id/like", a.handleArticleLike)
	api.GET("/videos", a.handleVideos)
	api.GET("/videos/:id", a.handleVideo)
	api.GET("/events", a.handleEvents)
	api.GET("/ebooks", a.handleEbooks)
	api.POST("/ebooks/:id/download", a.handleEbookDownload)
	api.GET("/gallery", a.handleGallery)

	// Admin session endpoints.
	e.GET("/admin/session", a.handleAdminSession)
	e.POST("/admin/login", a.handleAdminLogin)
	e.POST("/admin/logout", handleAdminLogout)

	// Admin content API, session-guarded.
	admin := e.Group("/admin/api", a.requireAdmin)
	registerContentRoutes(a, admin, "/articles", &a.Gateway.Articles.Repo)
	registerFeaturedRoute(a, admin, "/articles", a.Gateway.Articles)
	registerContentRoutes(a, admin, "/videos", &a.Gateway.Videos.Repo)
	registerFeaturedRoute(a, admin, "/videos", a.Gateway.Videos)
	registerContentRoutes(a, admin, "/ebooks", &a.Gateway.Ebooks.Repo)
	registerFeaturedRoute(a, admin, "/ebooks", a.Gateway.Ebooks)
	registerContentRoutes(a, admin, "/events", a.Gateway.Events)
	registerContentRoutes(a, admin, "/gallery", a.Gateway.Gallery)
	admin.GET("/users", a.handleUserList)
	admin.POST("/users", a.handleUserCreate)
	admin.PATCH("/users/:id", a.handleUserUpdate)
	admin.DELETE("/users/:id", a.handleUserDelete)
	admin.POST("/images", a.handleImageUpload)
	admin.POST("/gallery/upload", a.handleGalleryUpload)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, body)
}

// readCtx derives the page-level deadline for public reads: if the backend
// does not answer in time the gateway's fallback turns the page into an
// empty state instead of an error screen.
func (a *App) readCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), a.Config.ReadTimeout)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("benang: required environment variable %s is not set", key)
	}
	return v
}
