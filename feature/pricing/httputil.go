package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	URL    string
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.Status)
}

const maxBody = 8 << 20

func get(ctx context.Context, client *http.Client, addr string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, &HTTPError{URL: req.URL.Host + req.URL.Path, Status: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}

// getJSON fetches addr and decodes the body into data.
func getJSON(ctx context.Context, client *http.Client, addr string, header http.Header, data any) error {
	body, err := get(ctx, client, addr, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, data); err != nil {
		return fmt.Errorf("decode %s: %w", addr, err)
	}
	return nil
}

// getText fetches addr and returns the body as a string.
func getText(ctx context.Context, client *http.Client, addr string, header http.Header) (string, error) {
	body, err := get(ctx, client, addr, header)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
