package benang

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Public read handlers. Every list endpoint races the fetch against the
// configured deadline; on timeout or backend failure the gateway hands back
// empty data and the page renders its empty state.

func (a *App) handleArticles(c echo.Context) error {
	ctx, cancel := a.readCtx(c)
	defer cancel()
	return c.JSON(http.StatusOK, a.Cache.ListPublished(ctx))
}

// handleArticle serves one published article and counts the view.
func (a *App) handleArticle(c echo.Context) error {
	ctx, cancel := a.readCtx(c)
	defer cancel()
	article := a.Gateway.Articles.Get(ctx, c.Param("id"))
	if article == nil || article.Status != StatusPublished {
		return echo.NewHTTPError(http.StatusNotFound, "article not found")
	}
	if fresh := a.Gateway.Articles.Increment(ctx, article.ID, "views"); fresh != nil {
		article = fresh
	}
	return c.JSON(http.StatusOK, article)
}

func (a *App) handleArticleLike(c echo.Context) error {
	ctx, cancel := a.readCtx(c)
	defer cancel()
	article := a.Gateway.Articles.Increment(ctx, c.Param("id"), "likes")
	if article == nil {
		return echo.NewHTTPError(http.StatusNotFound, "article not found")
	}
	return c.JSON(http.StatusOK, article)
}

func (a *App) handleVideos(c echo.Context) error {
	ctx, cancel := a.readCtx(c)
	defer cancel()
	return c.JSON(http.StatusOK, a.Gateway.Videos.ListPublished(ctx))
}

func (a *App) handleVideo(c echo.Context) error {
	ctx, cancel := a.readCtx(c)
	defer cancel()
	video := a.Gateway.Videos.Get(ctx, c.Param("id"))
	if video == nil || video.Status != StatusPublished {
		return echo.NewHTTPError(http.StatusNotFound, "video not found")
	}
	if fresh := a.Gateway.Videos.Increment(ctx, video.ID, "views"); fresh != nil {
		video = fresh
	}
	return c.JSON(http.StatusOK, video)
}

// handleEvents returns upcoming events ordered soonest first.
func (a *App) handleEvents(c echo.Context) error {
	ctx, cancel := a.readCtx(c)
	defer cancel()
	return c.JSON(http.StatusOK, a.Gateway.Events.ListPublished(ctx))
}

func (a *App) handleEbooks(c echo.Context) error {
	ctx, cancel := a.readCtx(c)
	defer cancel()
	return c.JSON(http.StatusOK, a.Gateway.Ebooks.ListPublished(ctx))
}

// handleEbookDownload counts a download and returns the file URL.
func (a *App) handleEbookDownload(c echo.Context) error {
	ctx, cancel := a.readCtx(c)
	defer cancel()
	ebook := a.Gateway.Ebooks.Increment(ctx, c.Param("id"), "download_count")
	if ebook == nil {
		return echo.NewHTTPError(http.StatusNotFound, "ebook not found")
	}
	return c.JSON(http.StatusOK, ebook)
}

func (a *App) handleGallery(c echo.Context) error {
	ctx, cancel := a.readCtx(c)
	defer cancel()
	return c.JSON(http.StatusOK, a.Gateway.Gallery.ListPublished(ctx))
}
