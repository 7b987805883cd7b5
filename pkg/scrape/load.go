/*
 * Copyright 2021 National Library of Norway.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *       http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/nlnwa/whatwg-url/url"
	"github.com/sethgrid/pester"
	log "github.com/sirupsen/logrus"
)

// Fetcher downloads pages over http with retries.
type Fetcher struct {
	client    *pester.Client
	userAgent string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithTimeout sets the timeout of each attempt.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithRetries sets the maximum number of attempts.
func WithRetries(n int) FetcherOption {
	return func(f *Fetcher) {
		f.client.MaxRetries = n
	}
}

// WithUserAgent sets the User-Agent header of requests.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a Fetcher with exponential backoff between attempts.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	client := pester.New()
	client.Backoff = pester.ExponentialBackoff
	client.MaxRetries = 3
	client.Timeout = 30 * time.Second
	f := &Fetcher{client: client, userAgent: "gomarc"}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the body of the page at link. The caller must close it.
func (f *Fetcher) Fetch(ctx context.Context, link string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("User-Agent", f.userAgent)
	log.Debugf("fetching %s", link)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s failed with: %s", link, resp.Status)
	}
	return resp.Body, nil
}

// IsURL reports whether source is an absolute http or https URL.
func IsURL(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	switch u.Protocol() {
	case "http:", "https:":
		return true
	}
	return false
}

// Load parses the page at source, which is either a file name or an http(s) URL fetched with f.
func Load(ctx context.Context, source string, f *Fetcher) (*goquery.Document, error) {
	var r io.ReadCloser
	var err error
	if IsURL(source) {
		if f == nil {
			f = NewFetcher()
		}
		r, err = f.Fetch(ctx, source)
	} else {
		r, err = os.Open(source)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", source, err)
	}
	return doc, nil
}
