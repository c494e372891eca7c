package benang

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type rss struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// handleFeed serves the learning-center article feed.
func (a *App) handleFeed(c echo.Context) error {
	ctx, cancel := a.readCtx(c)
	defer cancel()

	base := a.Config.URL
	articles := a.Cache.ListPublished(ctx)
	items := make([]rssItem, 0, len(articles))
	for _, art := range articles {
		articleURL := BuildURL(base, "learning-center", "articles", art.Slug)
		items = append(items, rssItem{
			Title:       art.Title,
			Link:        articleURL,
			Description: art.Excerpt,
			PubDate:     art.CreatedAt.Format(time.RFC1123Z),
			GUID:        articleURL,
		})
	}
	feed := rss{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        base,
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
