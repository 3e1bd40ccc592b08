package feed

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/gorilla/feeds"

	"olx-notifier/models"
)

//go:embed templates/description.html
var descriptionHTML string

// Options configure a Renderer. DefaultText is used as feed title and
// description when the ad collection is empty.
type Options struct {
	Link        string
	Language    string
	DefaultText string
	Author      string
}

// Renderer turns stored ads into RSS 2.0 documents. Rendering is a pure
// function of the ad collection.
type Renderer struct {
	opts Options
	tmpl *template.Template
	now  func() time.Time
}

// NewRenderer builds a Renderer with the embedded description template.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{
		opts: opts,
		tmpl: template.Must(template.New("description").Parse(descriptionHTML)),
		now:  time.Now,
	}
}

// RenderBasic renders title/link/date items with author attribution.
func (r *Renderer) RenderBasic(ads []models.BaseAd) (string, error) {
	items := make([]*feeds.Item, 0, len(ads))
	for _, ad := range ads {
		items = append(items, &feeds.Item{
			Title:   ad.Title,
			Link:    &feeds.Link{Href: ad.URL},
			Author:  &feeds.Author{Name: r.opts.Author},
			Created: parseDate(ad.ParseDate),
		})
	}
	tag := ""
	if len(ads) > 0 {
		tag = ads[0].Tag
	}
	return r.document(tag, items)
}

// RenderDetailed renders items with an HTML description built from the
// ad text and image gallery.
func (r *Renderer) RenderDetailed(ads []models.DetailedAd) (string, error) {
	items := make([]*feeds.Item, 0, len(ads))
	for _, ad := range ads {
		desc, err := r.renderDescription(ad)
		if err != nil {
			return "", err
		}
		items = append(items, &feeds.Item{
			Title:       ad.Title,
			Link:        &feeds.Link{Href: ad.URL},
			Description: desc,
			Author:      &feeds.Author{Name: r.opts.Author},
			Created:     parseDate(ad.ParseDate),
		})
	}
	tag := ""
	if len(ads) > 0 {
		tag = ads[0].Tag
	}
	return r.document(tag, items)
}

// RenderFull is the debug rendering: same as detailed but without author
// attribution, intended for local inspection.
func (r *Renderer) RenderFull(ads []models.FullAd) (string, error) {
	items := make([]*feeds.Item, 0, len(ads))
	for _, ad := range ads {
		desc, err := r.renderDescription(ad.DetailedAd)
		if err != nil {
			return "", err
		}
		items = append(items, &feeds.Item{
			Title:       ad.Title,
			Link:        &feeds.Link{Href: ad.URL},
			Description: desc,
			Created:     parseDate(ad.ParseDate),
		})
	}
	tag := ""
	if len(ads) > 0 {
		tag = ads[0].Tag
	}
	return r.document(tag, items)
}

func (r *Renderer) renderDescription(ad models.DetailedAd) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, ad); err != nil {
		return "", fmt.Errorf("feed: render description for %s: %w", ad.ID, err)
	}
	return buf.String(), nil
}

// document assembles the feed envelope. The feed title and description
// derive from the first ad's category tag; an empty tag falls back to
// the configured default text for both.
func (r *Renderer) document(tag string, items []*feeds.Item) (string, error) {
	title := r.opts.DefaultText
	description := r.opts.DefaultText
	if tag != "" {
		title = tag
		description = tag + ": " + r.opts.DefaultText
	}

	f := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: r.opts.Link},
		Description: description,
		Items:       items,
	}

	rss := (&feeds.Rss{Feed: f}).RssFeed()
	rss.Language = r.opts.Language
	rss.LastBuildDate = r.now().Format(time.RFC1123Z)

	doc, err := feeds.ToXML(rss)
	if err != nil {
		return "", fmt.Errorf("feed: serialize rss: %w", err)
	}
	return doc, nil
}

func parseDate(raw string) time.Time {
	t, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
