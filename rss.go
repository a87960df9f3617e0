package site

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/glaido/site/article"
	"github.com/glaido/site/seo"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Author      string   `xml:"author,omitempty"`
	Categories  []string `xml:"category"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
}

// GenerateFeed renders an RSS 2.0 feed of articles, newest first as given.
func GenerateFeed(cfg SiteConfig, articles []article.Article) (string, error) {
	items := make([]rssItem, 0, len(articles))
	for _, a := range articles {
		link := seo.BuildURL(cfg.URL, "blog", a.Slug)
		items = append(items, rssItem{
			Title:       a.Title,
			Link:        link,
			Description: a.Description,
			Author:      a.Author,
			Categories:  a.Tags,
			PubDate:     a.Published.UTC().Format(time.RFC1123Z),
			GUID:        link,
		})
	}
	channel := rssChannel{
		Title:       cfg.Name + " Blog",
		Link:        seo.BuildURL(cfg.URL, "blog"),
		Description: cfg.Description,
		Items:       items,
	}
	if len(articles) > 0 {
		channel.LastBuildDate = articles[0].Published.UTC().Format(time.RFC1123Z)
	}
	out, err := xml.MarshalIndent(rssXML{Version: "2.0", Channel: channel}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode feed: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}
