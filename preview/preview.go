// Package preview scrapes title, description and image metadata from shared links.
package preview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ShadyM97/LearnHub-Backend/models"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// maxBodyBytes bounds how much of a page is read
const maxBodyBytes = 2 << 20

// Config holds link preview settings
type Config struct {
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
}

// Service fetches link previews and caches the results
type Service struct {
	client *http.Client
	cache  *lru.LRU[string, *models.LinkPreview]
	logger *zap.Logger
}

// NewService creates a preview service. client may be nil; a given client is
// copied before the timeout is applied.
func NewService(cfg Config, client *http.Client, logger *zap.Logger) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 512
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Minute
	}
	if client == nil {
		client = &http.Client{}
	} else {
		c := *client
		client = &c
	}
	client.Timeout = cfg.Timeout

	return &Service{
		client: client,
		cache:  lru.NewLRU[string, *models.LinkPreview](cfg.CacheSize, nil, cfg.CacheTTL),
		logger: logger,
	}
}

// Preview returns the metadata of rawURL. Failures never surface: the result
// then carries only the URL. Only complete previews are cached.
func (s *Service) Preview(ctx context.Context, rawURL string) *models.LinkPreview {
	if cached, ok := s.cache.Get(rawURL); ok {
		out := *cached
		return &out
	}

	p, err := s.fetch(ctx, rawURL)
	if err != nil {
		s.logger.Debug("link preview unavailable", zap.String("url", rawURL), zap.Error(err))
		return &models.LinkPreview{URL: rawURL}
	}

	s.cache.Add(rawURL, p)
	out := *p
	return &out
}

func (s *Service) fetch(ctx context.Context, rawURL string) (*models.LinkPreview, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "LearnHubBot/1.0 (+link preview)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	p, err := Extract(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	p.URL = rawURL
	return p, nil
}

// Extract reads an HTML document and returns its preview metadata.
// Title comes from <title>, then og:title. Description from the description
// meta, then og:description. Image from og:image, then twitter:image.
func Extract(r io.Reader) (*models.LinkPreview, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var title string
	meta := make(map[string]string)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(text(n))
				}
			case "meta":
				key, content := metaPair(n)
				if key != "" {
					if _, seen := meta[key]; !seen {
						meta[key] = strings.TrimSpace(content)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return &models.LinkPreview{
		Title:       first(title, meta["og:title"]),
		Description: first(meta["description"], meta["og:description"]),
		Image:       first(meta["og:image"], meta["twitter:image"]),
	}, nil
}

// metaPair returns the lowercased name or property of a meta tag with its content
func metaPair(n *html.Node) (string, string) {
	var key, content string
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "name", "property":
			if key == "" {
				key = strings.ToLower(strings.TrimSpace(a.Val))
			}
		case "content":
			content = a.Val
		}
	}
	return key, content
}

func text(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
