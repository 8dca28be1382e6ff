package db

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"schoolrecords-server-go/config"
	"schoolrecords-server-go/logger"
)

// WebDAVStore reads and writes documents on a Nextcloud/WebDAV share with
// plain GET and PUT requests.
type WebDAVStore struct {
	mu     sync.RWMutex
	cfg    config.WebDAVConfig
	client *http.Client
	log    *logger.Logger
}

// NewWebDAVStore creates a store for cfg. A nil client gets one with the
// configured timeout.
func NewWebDAVStore(cfg config.WebDAVConfig, client *http.Client, log *logger.Logger) *WebDAVStore {
	if client == nil {
		client = &http.Client{Timeout: cfg.TimeoutDuration()}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &WebDAVStore{cfg: cfg, client: client, log: log}
}

// Configure swaps the connection settings. Requests already in flight keep
// the settings they started with.
func (s *WebDAVStore) Configure(cfg config.WebDAVConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.log.Info("webdav settings updated", "url", cfg.URL, "path", cfg.Path)
}

// Settings returns the current connection settings.
func (s *WebDAVStore) Settings() config.WebDAVConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func cleanURLPart(s string) string {
	return strings.Trim(s, "/")
}

// DocumentURL builds the absolute URL of a document. Bare server URLs get the
// user's files endpoint appended.
func (s *WebDAVStore) DocumentURL(name string) string {
	return documentURL(s.Settings(), name)
}

func documentURL(cfg config.WebDAVConfig, name string) string {
	base := strings.TrimRight(cfg.URL, "/")
	if !strings.Contains(base, "remote.php/dav/files") && !strings.Contains(base, "public.php/webdav") {
		base += "/remote.php/dav/files/" + url.PathEscape(cfg.User)
	}
	if sub := cleanURLPart(cfg.Path); sub != "" {
		base += "/" + sub
	}
	return base + "/" + cleanURLPart(name)
}

func authHeader(cfg config.WebDAVConfig) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(cfg.User+":"+cfg.Token))
}

// Read fetches a document. A 404 means the collection was never written and
// yields an empty JSON array.
func (s *WebDAVStore) Read(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.do(ctx, http.MethodGet, name, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		s.log.Debug("document not found, treating as empty", "document", name)
		return emptyCollection, nil
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	return body, nil
}

// Write replaces a document with body.
func (s *WebDAVStore) Write(ctx context.Context, name string, body []byte) error {
	resp, err := s.do(ctx, http.MethodPut, name, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (s *WebDAVStore) do(ctx context.Context, method, name string, body []byte) (*http.Response, error) {
	cfg := s.Settings()
	if !cfg.IsConfigured() {
		return nil, ErrNotConfigured
	}
	target := documentURL(cfg, name)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", name, err)
	}
	req.Header.Set("Authorization", authHeader(cfg))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	s.log.Debug("webdav request", "method", method, "url", target)
	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("webdav request failed", "method", method, "url", target, "error", err)
		return nil, &NetworkError{Err: err}
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	text, err := io.ReadAll(resp.Body)
	if err != nil || len(text) == 0 {
		text = []byte(http.StatusText(resp.StatusCode))
	}
	return &RemoteError{Status: resp.StatusCode, Body: strings.TrimSpace(string(text))}
}
