// Package openlibrary searches the Open Library catalog.
package openlibrary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"digital-library/internal/core/domain"

	jsoniter "github.com/json-iterator/go"
)

const (
	searchPath   = "/search.json"
	searchFields = "key,title,author_name,first_publish_year,isbn"

	// DefaultTimeout bounds a single search request
	DefaultTimeout = 5 * time.Second
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is an Open Library search client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new client for baseURL (e.g. https://openlibrary.org)
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type searchResponse struct {
	NumFound int64 `json:"numFound"`
	Docs     []struct {
		Key              string   `json:"key"`
		Title            string   `json:"title"`
		AuthorName       []string `json:"author_name"`
		FirstPublishYear *int     `json:"first_publish_year"`
		ISBN             []string `json:"isbn"`
	} `json:"docs"`
}

// Search runs a full-text search and returns one page of results.
// page starts at 1.
func (c *Client) Search(ctx context.Context, query string, page, limit int) (*domain.ExternalSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrSearchQueryRequired
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa((page-1)*limit))
	params.Set("fields", searchFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, c.fail(query, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(query, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(query, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.fail(query, &statusError{code: resp.StatusCode})
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, c.fail(query, err)
	}

	books := make([]domain.ExternalBook, 0, len(decoded.Docs))
	for _, doc := range decoded.Docs {
		books = append(books, domain.ExternalBook{
			Key:              doc.Key,
			Title:            doc.Title,
			AuthorName:       doc.AuthorName,
			FirstPublishYear: doc.FirstPublishYear,
			ISBN:             doc.ISBN,
		})
	}

	log.Printf("📚 OpenLibrary search %q: %d results of %d", query, len(books), decoded.NumFound)

	return &domain.ExternalSearchResult{
		Books: books,
		Total: decoded.NumFound,
		Page:  page,
		Limit: limit,
	}, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("openlibrary responded with status %d", e.code)
}

// fail logs err and maps it to the error reported to callers
func (c *Client) fail(query string, err error) error {
	log.Printf("❌ OpenLibrary search %q failed: %v", query, err)
	return classify(err)
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrExternalTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.ErrExternalTimeout
	}

	var se *statusError
	if errors.As(err, &se) {
		switch {
		case se.code == http.StatusTooManyRequests:
			return domain.ErrExternalRateLimited
		case se.code >= 500:
			return domain.ErrExternalUnavailable
		}
	}

	return domain.ErrExternalSearch
}
