package benang

import (
	"crypto/subtle"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleAdminSession tells the dashboard SPA whether it is logged in and
// hands it the CSRF token for subsequent writes.
func (a *App) handleAdminSession(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"authenticated": IsAdmin(c),
		"csrf_token":    CsrfToken(c),
	})
}

// handleAdminLogin checks the fixed operator credential. Only failed
// attempts count against the per-IP limit.
func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts, try again later")
	}
	var body struct {
		Password string `json:"password" form:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if subtle.ConstantTimeCompare([]byte(body.Password), []byte(a.Config.AdminPassword)) != 1 {
		a.loginLimiter.Record(c.RealIP())
		return echo.NewHTTPError(http.StatusUnauthorized, "wrong password")
	}
	if err := setAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"authenticated": true})
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"authenticated": false})
}

func (a *App) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsAdmin(c) {
			return echo.NewHTTPError(http.StatusUnauthorized, "login required")
		}
		return next(c)
	}
}

// registerContentRoutes wires the four CRUD endpoints for one content kind.
// The same generic handler set serves all six kinds; only the users family
// is hand-written because of its password handling.
func registerContentRoutes[T any, PT recordPtr[T]](a *App, g *echo.Group, prefix string, r *Repo[T, PT]) {
	g.GET(prefix, func(c echo.Context) error {
		return c.JSON(http.StatusOK, r.ListAll(c.Request().Context()))
	})

	g.POST(prefix, func(c echo.Context) error {
		var item T
		if err := c.Bind(&item); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if err := a.validate.Struct(&item); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		created, err := r.Create(c.Request().Context(), item)
		if err != nil {
			// Create failures must reach the operator, unlike the rest of
			// the write paths.
			return echo.NewHTTPError(http.StatusInternalServerError, "save failed")
		}
		a.Cache.Invalidate()
		return c.JSON(http.StatusCreated, created)
	})

	g.PATCH(prefix+"/:id", func(c echo.Context) error {
		fields := map[string]any{}
		if err := c.Bind(&fields); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		normalizeFields(fields)
		item := r.Update(c.Request().Context(), c.Param("id"), fields)
		if item == nil {
			return c.NoContent(http.StatusNoContent)
		}
		a.Cache.Invalidate()
		return c.JSON(http.StatusOK, item)
	})

	g.DELETE(prefix+"/:id", func(c echo.Context) error {
		deleted := r.Delete(c.Request().Context(), c.Param("id"))
		a.Cache.Invalidate()
		return c.JSON(http.StatusOK, map[string]bool{"deleted": deleted})
	})
}

// registerFeaturedRoute wires the spotlight toggle for kinds that have one.
func registerFeaturedRoute[T any, PT recordPtr[T]](a *App, g *echo.Group, prefix string, r *FeaturedRepo[T, PT]) {
	g.POST(prefix+"/:id/featured", func(c echo.Context) error {
		var body struct {
			Featured bool `json:"featured"`
		}
		if err := c.Bind(&body); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		item := r.SetFeatured(c.Request().Context(), c.Param("id"), body.Featured)
		if item == nil {
			return c.NoContent(http.StatusNoContent)
		}
		a.Cache.Invalidate()
		return c.JSON(http.StatusOK, item)
	})
}

// normalizeFields converts JSON-decoded values into types the database
// drivers accept: integral float64s become int64 and string arrays become
// StringList so the tags column is encoded consistently.
func normalizeFields(fields map[string]any) {
	for k, v := range fields {
		switch val := v.(type) {
		case float64:
			if val == math.Trunc(val) {
				fields[k] = int64(val)
			}
		case []any:
			list := make(StringList, 0, len(val))
			for _, e := range val {
				if s, ok := e.(string); ok {
					list = append(list, s)
				}
			}
			fields[k] = list
		}
	}
}

// --- Users ---

func (a *App) handleUserList(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Gateway.Users.ListAll(c.Request().Context()))
}

func (a *App) handleUserCreate(c echo.Context) error {
	var body struct {
		User
		Password string `json:"password" validate:"required,min=8"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := a.validate.Struct(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := a.Gateway.Users.Create(c.Request().Context(), body.User, body.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "save failed")
	}
	return c.JSON(http.StatusCreated, created)
}

func (a *App) handleUserUpdate(c echo.Context) error {
	fields := map[string]any{}
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	normalizeFields(fields)
	user := a.Gateway.Users.Update(c.Request().Context(), c.Param("id"), fields)
	if user == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, user)
}

func (a *App) handleUserDelete(c echo.Context) error {
	deleted := a.Gateway.Users.Delete(c.Request().Context(), c.Param("id"))
	return c.JSON(http.StatusOK, map[string]bool{"deleted": deleted})
}

// --- Images ---

// handleImageUpload processes an uploaded image and stores it in object
// storage, returning the public URL for the editor to embed.
func (a *App) handleImageUpload(c echo.Context) error {
	if a.Images == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "object storage is not configured")
	}
	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no image file provided")
	}
	if file.Size > a.Config.MaxUploadSize {
		return echo.NewHTTPError(http.StatusBadRequest, "file too large")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	data, w, h, err := processImage(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image: "+err.Error())
	}
	url, err := a.Images.UploadJPEG(c.Request().Context(), file.Filename, data)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "upload failed")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"url":    url,
		"width":  w,
		"height": h,
	})
}

// handleGalleryUpload uploads a photo and creates its gallery item in one
// shot; the processed image height becomes the masonry display hint.
func (a *App) handleGalleryUpload(c echo.Context) error {
	if a.Images == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "object storage is not configured")
	}
	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no image file provided")
	}
	if file.Size > a.Config.MaxUploadSize {
		return echo.NewHTTPError(http.StatusBadRequest, "file too large")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	data, _, h, err := processImage(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image: "+err.Error())
	}
	url, err := a.Images.UploadJPEG(c.Request().Context(), file.Filename, data)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "upload failed")
	}

	item := GalleryItem{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Tags:        parseList("," + c.FormValue("tags") + ","),
		ImageURL:    url,
		Height:      h,
	}
	if err := a.validate.Struct(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := a.Gateway.Gallery.Create(c.Request().Context(), item)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "save failed")
	}
	return c.JSON(http.StatusCreated, created)
}
