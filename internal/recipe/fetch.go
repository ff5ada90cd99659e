package recipe

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const fetchTimeout = 15 * time.Second

// IsURL reports whether source names a remote http(s) catalog.
func IsURL(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// LoadSource reads raw rows from a local file or an http(s) URL.
func LoadSource(ctx context.Context, source string) ([]Row, error) {
	if IsURL(source) {
		return Fetch(ctx, source)
	}
	return LoadFile(source)
}

// Fetch downloads a catalog and parses it as CSV or HTML. The format is
// taken from the Content-Type, falling back to the URL's extension.
func Fetch(ctx context.Context, rawURL string) ([]Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog url %s: %w", rawURL, err)
	}

	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch catalog: status %d", resp.StatusCode)
	}

	switch remoteFormat(resp.Header.Get("Content-Type"), req.URL.Path) {
	case "csv":
		return LoadCSV(resp.Body)
	case "html":
		return LoadHTML(resp.Body)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, rawURL)
	}
}

func remoteFormat(contentType, urlPath string) string {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "text/csv", "application/csv":
			return "csv"
		case "text/html", "application/xhtml+xml":
			return "html"
		}
	}
	switch strings.ToLower(path.Ext(urlPath)) {
	case ".csv":
		return "csv"
	case ".html", ".htm":
		return "html"
	}
	return ""
}
