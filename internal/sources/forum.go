package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wildtrack/wildtrack-go/internal/errors"
	"github.com/wildtrack/wildtrack-go/internal/sighting"
)

// defaultPostSelector matches the post body containers of common forum
// software. Overridable per source when a board uses custom markup.
const defaultPostSelector = "article .post-content, .post-body, .message-content"

// ForumSource scrapes the posts of one forum thread page.
type ForumSource struct {
	URL      string
	Selector string
	Client   *http.Client
}

// NewForumSource returns a forum connector for the given thread URL.
func NewForumSource(url string, client *http.Client) *ForumSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &ForumSource{URL: url, Selector: defaultPostSelector, Client: client}
}

func (f *ForumSource) Kind() sighting.SourceKind { return sighting.SourceForum }

func (f *ForumSource) Name() string { return f.URL }

// Fetch downloads the thread page and returns one raw document per post.
func (f *ForumSource) Fetch(ctx context.Context) ([]sighting.RawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("building forum request: %w", err)
	}
	req.Header.Set("User-Agent", "wildtrack-go/1.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, errors.New(fmt.Errorf("fetching forum thread %s: %w", f.URL, err)).
			Component("sources").
			Category(errors.CategorySourceFetch).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf("forum thread %s returned status %d", f.URL, resp.StatusCode).
			Component("sources").
			Category(errors.CategorySourceFetch).
			Build()
	}

	page, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing forum page: %w", err)
	}

	fetchedAt := time.Now().UTC()
	var docs []sighting.RawDocument
	page.Find(f.Selector).Each(func(i int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		docs = append(docs, sighting.RawDocument{
			SourceKind:  sighting.SourceForum,
			URL:         fmt.Sprintf("%s#post-%d", f.URL, i+1),
			Text:        text,
			PublishedAt: fetchedAt,
		})
	})
	return docs, nil
}
