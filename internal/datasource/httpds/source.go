package httpds

import (
	"context"
	"io"
)

// Source is a dataset served at a URL.
type Source struct {
	client *Client
	url    string
}

// NewSource returns a datasource.Source reading url through c.
func NewSource(c *Client, url string) *Source { return &Source{client: c, url: url} }

// Name implements datasource.Source.
func (s *Source) Name() string { return s.url }

// Open implements datasource.Source. Non-2xx responses are errors.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
