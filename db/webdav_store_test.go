package db

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolrecords-server-go/config"
)

// fakeDAV is a minimal WebDAV file host: GET and PUT on any path.
type fakeDAV struct {
	mu       sync.Mutex
	files    map[string][]byte
	requests []*http.Request
	status   int // forced status for every request when non-zero
}

func newFakeDAV(t *testing.T) (*fakeDAV, *httptest.Server) {
	t.Helper()
	dav := &fakeDAV{files: make(map[string][]byte)}
	srv := httptest.NewServer(http.HandlerFunc(dav.serve))
	t.Cleanup(srv.Close)
	return dav, srv
}

func (d *fakeDAV) serve(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, r.Clone(context.Background()))

	if d.status != 0 {
		w.WriteHeader(d.status)
		_, _ = io.WriteString(w, "forced failure")
		return
	}
	switch r.Method {
	case http.MethodGet:
		body, ok := d.files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		d.files[r.URL.Path] = body
		w.WriteHeader(http.StatusCreated)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (d *fakeDAV) setStatus(status int) {
	d.mu.Lock()
	d.status = status
	d.mu.Unlock()
}

func (d *fakeDAV) recorded() []*http.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*http.Request(nil), d.requests...)
}

func newTestWebDAV(srv *httptest.Server, path string) *WebDAVStore {
	cfg := config.WebDAVConfig{URL: srv.URL + "/remote.php/dav/files/teacher", User: "teacher", Token: "secret", Path: path}
	return NewWebDAVStore(cfg, srv.Client(), nil)
}

func TestWebDAVStore_DocumentURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.WebDAVConfig
		want string
	}{
		{
			name: "bare server gets files endpoint",
			cfg:  config.WebDAVConfig{URL: "https://cloud.example.org/nextcloud/", User: "max mustermann", Token: "t", Path: "/vorfaelle/"},
			want: "https://cloud.example.org/nextcloud/remote.php/dav/files/max%20mustermann/vorfaelle/incidents.json",
		},
		{
			name: "explicit files endpoint kept",
			cfg:  config.WebDAVConfig{URL: "https://h/remote.php/dav/files/u", User: "u", Token: "t"},
			want: "https://h/remote.php/dav/files/u/incidents.json",
		},
		{
			name: "public share endpoint kept",
			cfg:  config.WebDAVConfig{URL: "https://h/public.php/webdav", User: "abc"},
			want: "https://h/public.php/webdav/incidents.json",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewWebDAVStore(tt.cfg, nil, nil)
			assert.Equal(t, tt.want, s.DocumentURL("/"+IncidentsFile))
		})
	}
}

func TestWebDAVStore_WriteThenRead(t *testing.T) {
	dav, srv := newFakeDAV(t)
	s := newTestWebDAV(srv, "records")
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, YearsFile, []byte(`[{"id":"y1","name":"Jahrgang 5"}]`)))
	body, err := s.Read(ctx, YearsFile)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"y1","name":"Jahrgang 5"}]`, string(body))

	requests := dav.recorded()
	require.Len(t, requests, 2)
	put := requests[0]
	assert.Equal(t, http.MethodPut, put.Method)
	assert.Equal(t, "/remote.php/dav/files/teacher/records/years.json", put.URL.Path)
	assert.Equal(t, "application/json", put.Header.Get("Content-Type"))
	user, pass, ok := put.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "teacher", user)
	assert.Equal(t, "secret", pass)
}

func TestWebDAVStore_ReadMissingIsEmpty(t *testing.T) {
	_, srv := newFakeDAV(t)
	s := newTestWebDAV(srv, "")

	body, err := s.Read(context.Background(), IncidentsFile)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
}

func TestWebDAVStore_RemoteError(t *testing.T) {
	dav, srv := newFakeDAV(t)
	dav.setStatus(http.StatusForbidden)
	s := newTestWebDAV(srv, "")

	err := s.Write(context.Background(), IncidentsFile, []byte("[]"))
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusForbidden, remote.Status)
	assert.Equal(t, "forced failure", remote.Body)
	assert.Contains(t, err.Error(), "403")

	// a 404 on write is a failure, only reads treat it as empty
	dav.setStatus(http.StatusNotFound)
	err = s.Write(context.Background(), IncidentsFile, []byte("[]"))
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusNotFound, remote.Status)
}

func TestWebDAVStore_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	s := newTestWebDAV(srv, "")
	srv.Close()

	_, err := s.Read(context.Background(), YearsFile)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestWebDAVStore_NotConfigured(t *testing.T) {
	dav, srv := newFakeDAV(t)
	s := NewWebDAVStore(config.WebDAVConfig{URL: srv.URL}, srv.Client(), nil)

	_, err := s.Read(context.Background(), YearsFile)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Empty(t, dav.recorded())
}

func TestWebDAVStore_BodyTrimmed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "  boom \n")
	}))
	t.Cleanup(srv.Close)
	s := newTestWebDAV(srv, "")

	_, err := s.Read(context.Background(), YearsFile)
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, "boom", remote.Body)
	assert.True(t, strings.HasPrefix(err.Error(), "remote store error (500)"))
}

func TestWebDAVStore_Configure(t *testing.T) {
	_, srv := newFakeDAV(t)
	s := NewWebDAVStore(config.WebDAVConfig{}, srv.Client(), nil)

	_, err := s.Read(context.Background(), YearsFile)
	require.ErrorIs(t, err, ErrNotConfigured)

	s.Configure(config.WebDAVConfig{URL: srv.URL + "/public.php/webdav", User: "shareToken"})
	assert.Equal(t, "shareToken", s.Settings().User)

	body, err := s.Read(context.Background(), YearsFile)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))
}
