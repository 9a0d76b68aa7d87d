package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/wildtrack/wildtrack-go/internal/errors"
	"github.com/wildtrack/wildtrack-go/internal/sighting"
)

// FeedSource polls one RSS/Atom observation feed.
type FeedSource struct {
	URL    string
	parser *gofeed.Parser
}

// NewFeedSource returns a feed connector for the given URL.
func NewFeedSource(url string, client *http.Client) *FeedSource {
	parser := gofeed.NewParser()
	if client != nil {
		parser.Client = client
	}
	return &FeedSource{URL: url, parser: parser}
}

func (f *FeedSource) Kind() sighting.SourceKind { return sighting.SourceFeed }

func (f *FeedSource) Name() string { return f.URL }

// Fetch parses the feed and returns one raw document per entry.
func (f *FeedSource) Fetch(ctx context.Context) ([]sighting.RawDocument, error) {
	feed, err := f.parser.ParseURLWithContext(f.URL, ctx)
	if err != nil {
		return nil, errors.New(fmt.Errorf("fetching feed %s: %w", f.URL, err)).
			Component("sources").
			Category(errors.CategorySourceFetch).
			Build()
	}

	docs := make([]sighting.RawDocument, 0, len(feed.Items))
	for _, item := range feed.Items {
		text := itemText(item)
		if text == "" {
			continue
		}
		doc := sighting.RawDocument{
			SourceKind: sighting.SourceFeed,
			URL:        item.Link,
			Title:      item.Title,
			Text:       text,
		}
		if item.PublishedParsed != nil {
			doc.PublishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			doc.PublishedAt = *item.UpdatedParsed
		} else {
			doc.PublishedAt = time.Now().UTC()
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// itemText combines an entry's title and body into the text handed to the
// extractor.
func itemText(item *gofeed.Item) string {
	body := item.Content
	if body == "" {
		body = item.Description
	}
	combined := strings.TrimSpace(strings.TrimSpace(item.Title) + "\n\n" + strings.TrimSpace(body))
	return combined
}
