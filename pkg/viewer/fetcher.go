package viewer

import (
	"context"
	"io"
	"net/http"
	"time"
)

// ArtifactFetcher retrieves raw artifact bytes by locator. The locator is
// opaque to the adapter: a URL for the HTTP fetcher, an artifact id for an
// in-process store.
type ArtifactFetcher interface {
	Fetch(ctx context.Context, locator string) ([]byte, error)
}

// HTTPFetcher fetches artifact bytes over HTTP.
type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", locator, nil)
	if err != nil {
		return nil, &FetchError{Locator: locator, Err: err}
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &FetchError{Locator: locator, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Locator: locator, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Locator: locator, Err: err}
	}
	return data, nil
}

// FetchFunc adapts a function to the ArtifactFetcher interface; the
// in-process artifact store plugs in this way.
type FetchFunc func(ctx context.Context, locator string) ([]byte, error)

func (f FetchFunc) Fetch(ctx context.Context, locator string) ([]byte, error) {
	return f(ctx, locator)
}
