package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"schoolrecords-server-go/config"
	"schoolrecords-server-go/db"
	"schoolrecords-server-go/models"
	"schoolrecords-server-go/render"
	"schoolrecords-server-go/seed"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type stubPrinter struct {
	got string
	err error
}

func (p *stubPrinter) PrintPDF(_ context.Context, document string) ([]byte, error) {
	p.got = document
	if p.err != nil {
		return nil, p.err
	}
	return []byte("%PDF-1.4 stub"), nil
}

type failingStore struct{ err error }

func (s failingStore) Read(context.Context, string) ([]byte, error) { return nil, s.err }
func (s failingStore) Write(context.Context, string, []byte) error  { return s.err }

type testAPI struct {
	router  *gin.Engine
	repo    *db.Repository
	printer *stubPrinter
	cfg     *config.Config
}

func newTestAPI(t *testing.T, store db.DocumentStore) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	n := 0
	repo := db.NewRepository(store, nil,
		db.WithClock(func() time.Time { return testNow }),
		db.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	renderer, err := render.NewHTMLRenderer("Oberschule Test", func() time.Time { return testNow })
	require.NoError(t, err)
	printer := &stubPrinter{}
	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory

	h := NewAPIHandler(Deps{
		Repo:     repo,
		Renderer: renderer,
		Printer:  printer,
		Seeder:   seed.New(repo, nil,
			seed.WithRand(rand.New(rand.NewPCG(1, 2))),
			seed.WithClock(func() time.Time { return testNow })),
		Config: cfg,
		Now:    func() time.Time { return testNow },
	})
	return &testAPI{router: NewRouter(h, nil), repo: repo, printer: printer, cfg: cfg}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// seedSchool creates Jahrgang 8 / 8b / Max Muster through the API.
func (a *testAPI) seedSchool(t *testing.T) (models.YearLevel, models.ClassLevel, models.Student) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/years", gin.H{"name": "Jahrgang 8"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	year := decode[models.YearLevel](t, w)

	w = a.do(t, http.MethodPost, "/api/years/"+year.ID+"/classes", gin.H{"name": "8b"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	class := decode[models.ClassLevel](t, w)

	w = a.do(t, http.MethodPost, "/api/classes/"+class.ID+"/students", gin.H{"firstName": "Max", "lastName": "Muster"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	student := decode[models.Student](t, w)
	return year, class, student
}

func validIncident(studentID string) gin.H {
	return gin.H{
		"studentId":   studentID,
		"date":        "2024-02-20",
		"time":        "10:15",
		"location":    "Mensa",
		"reportedBy":  "Frau Weber",
		"category":    string(models.CategoryVerbal),
		"description": "Streit in der Schlange",
		"status":      string(models.StatusOpen),
	}
}

func TestPing(t *testing.T) {
	a := newTestAPI(t, db.NewMemoryStore())
	w := a.do(t, http.MethodGet, "/api/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Pong!"}`, w.Body.String())
}

func TestStatus(t *testing.T) {
	a := newTestAPI(t, db.NewMemoryStore())
	w := a.do(t, http.MethodGet, "/api/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"backend":"memory","configured":true}`, w.Body.String())
}

func TestStructureLifecycle(t *testing.T) {
	a := newTestAPI(t, db.NewMemoryStore())
	year, class, student := a.seedSchool(t)
	assert.Equal(t, "Muster", student.LastName)
	assert.Equal(t, class.ID, student.ClassID)

	w := a.do(t, http.MethodGet, "/api/years/"+year.ID+"/classes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.ClassLevel](t, w), 1)

	w = a.do(t, http.MethodGet, "/api/classes/"+class.ID+"/students", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Student](t, w), 1)

	w = a.do(t, http.MethodDelete, "/api/years/"+year.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(t, http.MethodGet, "/api/classes/"+class.ID+"/students", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestAddYearValidation(t *testing.T) {
	a := newTestAPI(t, db.NewMemoryStore())
	w := a.do(t, http.MethodPost, "/api/years", gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"validation failed","fields":{"name":"required"}}`, w.Body.String())
}

func TestIncidentCRUD(t *testing.T) {
	a := newTestAPI(t, db.NewMemoryStore())
	_, class, student := a.seedSchool(t)

	w := a.do(t, http.MethodPost, "/api/incidents", validIncident(student.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Incident](t, w)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, testNow.UnixMilli(), created.CreatedAt)

	w = a.do(t, http.MethodGet, "/api/incidents/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	joined := decode[models.JoinedIncident](t, w)
	assert.Equal(t, "Muster, Max", joined.StudentName)
	assert.Equal(t, "8b", joined.ClassName)
	assert.Equal(t, class.ID, joined.ClassID)
	assert.Equal(t, "Jahrgang 8", joined.YearLevelName)

	update := validIncident(student.ID)
	update["status"] = string(models.StatusResolved)
	w = a.do(t, http.MethodPut, "/api/incidents/"+created.ID, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.Incident](t, w)
	assert.Equal(t, models.StatusResolved, updated.Status)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	w = a.do(t, http.MethodPut, "/api/incidents/missing", update)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, http.MethodDelete, "/api/incidents/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = a.do(t, http.MethodGet, "/api/incidents/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateIncidentValidation(t *testing.T) {
	a := newTestAPI(t, db.NewMemoryStore())
	body := validIncident("")
	body["category"] = "Unfug"
	body["date"] = "20.02.2024"

	w := a.do(t, http.MethodPost, "/api/incidents", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode[struct {
		Fields map[string]string `json:"fields"`
	}](t, w)
	assert.Equal(t, map[string]string{
		"studentId": "required",
		"category":  "incident_category",
		"date":      "datetime",
	}, resp.Fields)
}

func TestListIncidentsFilterAndSort(t *testing.T) {
	a := newTestAPI(t, db.NewMemoryStore())
	_, class, student := a.seedSchool(t)

	for _, d := range []struct{ date, cat string }{
		{"2024-01-10", string(models.CategoryVerbal)},
		{"2024-02-10", string(models.CategoryTheft)},
		{"2024-02-20", string(models.CategoryVerbal)},
	} {
		body := validIncident(student.ID)
		body["date"], body["category"] = d.date, d.cat
		require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/api/incidents", body).Code)
	}
	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/api/incidents", validIncident("ghost")).Code)

	w := a.do(t, http.MethodGet, "/api/incidents?category="+url.QueryEscape(string(models.CategoryVerbal))+"&class="+class.ID+"&sort=ASC", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.JoinedIncident](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-01-10", list[0].Date)
	assert.Equal(t, "2024-02-20", list[1].Date)

	w = a.do(t, http.MethodGet, "/api/incidents?search=unbekannt", nil)
	list = decode[[]models.JoinedIncident](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "?", list[0].ClassName)

	w = a.do(t, http.MethodGet, "/api/incidents/months", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"key":"2024-02","label":"Februar 2024"},{"key":"2024-01","label":"Januar 2024"}]`, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[struct {
		Total  int `json:"total"`
		Open   int `json:"open"`
		Recent []models.JoinedIncident
	}](t, w)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 4, summary.Open)
	assert.Len(t, summary.Recent, 4)
}

func TestConversations(t *testing.T) {
	a := newTestAPI(t, db.NewMemoryStore())
	_, _, student := a.seedSchool(t)

	body := gin.H{
		"date":         "2024-02-01",
		"time":         "14:00",
		"type":         string(models.ConversationParent),
		"studentId":    student.ID,
		"studentName":  "alt",
		"subject":      "Fehlzeiten",
		"content":      "Gespräch mit den Eltern",
		"participants": "Mutter",
	}
	w := a.do(t, http.MethodPost, "/api/conversations", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/conversations?protocolType="+string(models.ConversationParent)+"&search=mutter", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.JoinedConversation](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Muster, Max", list[0].DisplayStudent)
	assert.Equal(t, "8b", list[0].DisplayClass)

	body["type"] = "Kaffeeklatsch"
	w = a.do(t, http.MethodPost, "/api/conversations", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeetings(t *testing.T) {
	a := newTestAPI(t, db.NewMemoryStore())
	meeting := func(date string) gin.H {
		return gin.H{
			"date":           date,
			"time":           "11:45h - 12:30h",
			"occasion":       "Fachkonferenz",
			"occasionDetail": "Mathe",
			"title":          "wird ersetzt",
			"chairperson":    "Frau Weber",
			"minutesTaker":   "Herr Becker",
			"attendees":      "Fachgruppe",
			"agendaItems":    []gin.H{{"title": "Begrüßung", "summary": "<b>Hallo</b>"}},
		}
	}

	var ids []string
	for _, d := range []string{"2024-01-01", "2024-03-01", "2024-02-01"} {
		w := a.do(t, http.MethodPost, "/api/meetings", meeting(d))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		m := decode[models.MeetingMinute](t, w)
		ids = append(ids, m.ID)
		if d == "2024-03-01" {
			assert.Equal(t, "Fachkonferenz Mathe 01.03.2024", m.Title)
			require.Len(t, m.AgendaItems, 1)
			assert.Equal(t, "1", m.AgendaItems[0].Number)
			assert.NotEmpty(t, m.AgendaItems[0].ID)
		}
	}

	w := a.do(t, http.MethodGet, "/api/meetings/"+ids[2]+"/neighbors", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"prevId":%q,"nextId":%q}`, ids[1], ids[0]), w.Body.String())

	update := meeting("2024-01-01")
	update["occasion"] = "Sonstige"
	update["occasionDetail"] = ""
	w = a.do(t, http.MethodPut, "/api/meetings/"+ids[0], update)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sitzung 01.01.2024", decode[models.MeetingMinute](t, w).Title)

	w = a.do(t, http.MethodGet, "/api/meetings?sort=DESC&search=weber", nil)
	list := decode[[]models.MeetingMinute](t, w)
	require.Len(t, list, 3)
	assert.Equal(t, ids[1], list[0].ID)

	w = a.do(t, http.MethodGet, "/api/meetings/nope/neighbors", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStoreErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not configured", db.ErrNotConfigured, http.StatusServiceUnavailable, `{"error":"setup required"}`},
		{"remote", &db.RemoteError{Status: 401, Body: "Unauthorized"}, http.StatusBadGateway,
			`{"error":"remote store error","status":401,"body":"Unauthorized"}`},
		{"network", &db.NetworkError{Err: errors.New("dial tcp: refused")}, http.StatusBadGateway,
			fmt.Sprintf(`{"error":%q}`, db.ErrNetwork.Error())},
		{"other", errors.New("boom"), http.StatusInternalServerError, `{"error":"internal error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAPI(t, failingStore{err: tt.err})
			w := a.do(t, http.MethodGet, "/api/incidents", nil)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestFailedWriteReportsError(t *testing.T) {
	store := db.NewMemoryStore()
	a := newTestAPI(t, store)
	store.FailWrites(&db.RemoteError{Status: 507, Body: "Insufficient Storage"})

	w := a.do(t, http.MethodPost, "/api/years", gin.H{"name": "Jahrgang 9"})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	store.FailWrites(nil)
	w = a.do(t, http.MethodGet, "/api/years", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestPrint(t *testing.T) {
	a := newTestAPI(t, db.NewMemoryStore())
	_, class, student := a.seedSchool(t)
	w := a.do(t, http.MethodPost, "/api/incidents", validIncident(student.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	incident := decode[models.Incident](t, w)

	w = a.do(t, http.MethodGet, "/api/print?type=incidents&class="+class.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Klasse: 8b")
	assert.Contains(t, w.Body.String(), "Muster, Max")

	w = a.do(t, http.MethodGet, "/api/print?type=incidents&format=pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Vorfaelle_2024-03-01.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, a.printer.got, "Vorfallsprotokolle")

	w = a.do(t, http.MethodGet, "/api/print?type=protocols&format=xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, mimeXLSX, w.Header().Get("Content-Type"))
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "Gespräche", f.GetSheetName(0))

	w = a.do(t, http.MethodGet, "/api/print/incidents/"+incident.ID+"?format=pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="Vorfall_muster__max_2024-02-20.pdf"`, w.Header().Get("Content-Disposition"))

	w = a.do(t, http.MethodGet, "/api/print/incidents/"+incident.ID+"?format=xlsx", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodGet, "/api/print?type=unknown", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	a.printer.err = render.ErrNoBrowser
	w = a.do(t, http.MethodGet, "/api/print?type=meetings&format=pdf", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPrintMeetingFilename(t *testing.T) {
	a := newTestAPI(t, db.NewMemoryStore())
	w := a.do(t, http.MethodPost, "/api/meetings", gin.H{
		"date":         "2024-03-01",
		"time":         "14:00",
		"chairperson":  "Frau Weber",
		"minutesTaker": "Herr Becker",
		"attendees":    "Kollegium",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	m := decode[models.MeetingMinute](t, w)
	assert.Equal(t, "UP-Sitzung 01.03.2024", m.Title)

	w = a.do(t, http.MethodGet, "/api/print/meetings/"+m.ID+"?format=pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="Sitzungsprotokoll_up_sitzung_01_03_2024_2024-03-01.pdf"`, w.Header().Get("Content-Disposition"))
}

func TestShareLink(t *testing.T) {
	a := newTestAPI(t, db.NewMemoryStore())
	w := a.do(t, http.MethodPost, "/api/settings/share-link", gin.H{"link": "https://cloud.example.org/s/AbC123xyz"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"url":"https://cloud.example.org/public.php/webdav","user":"AbC123xyz","path":""}`, w.Body.String())

	w = a.do(t, http.MethodPost, "/api/settings/share-link", gin.H{"link": "https://cloud.example.org/index.php/apps/files"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsRoundTrip(t *testing.T) {
	a := newTestAPI(t, db.NewMemoryStore())
	w := a.do(t, http.MethodPut, "/api/settings", gin.H{"url": "https://cloud.example.org", "user": "lehrer", "token": "geheim", "path": "Daten"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"configured":true}`, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"webdav":{"url":"https://cloud.example.org","user":"lehrer","path":"Daten"},"hasToken":true,"configured":true}`, w.Body.String())
	assert.Equal(t, "geheim", a.cfg.WebDAV.Token)

	w = a.do(t, http.MethodPut, "/api/settings", gin.H{"url": "ftp://cloud.example.org", "user": "lehrer"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "https://cloud.example.org", a.cfg.WebDAV.URL)
}

func TestSettingsTokenDroppedForNewAccount(t *testing.T) {
	a := newTestAPI(t, db.NewMemoryStore())
	w := a.do(t, http.MethodPut, "/api/settings", gin.H{"url": "https://cloud.example.org", "user": "lehrer", "token": "geheim"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// same account, empty token keeps the stored password
	w = a.do(t, http.MethodPut, "/api/settings", gin.H{"url": "https://cloud.example.org", "user": "lehrer", "path": "Neu"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "geheim", a.cfg.WebDAV.Token)

	w = a.do(t, http.MethodPost, "/api/settings/share-link", gin.H{"link": "https://cloud.example.org/s/AbC123"})
	require.Equal(t, http.StatusOK, w.Code)
	var share map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &share))

	w = a.do(t, http.MethodPut, "/api/settings", share)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"configured":true}`, w.Body.String())
	assert.Equal(t, "AbC123", a.cfg.WebDAV.User)
	assert.Equal(t, "", a.cfg.WebDAV.Token)

	w = a.do(t, http.MethodGet, "/api/settings", nil)
	assert.Contains(t, w.Body.String(), `"hasToken":false`)
}

func TestSettingsClearToken(t *testing.T) {
	a := newTestAPI(t, db.NewMemoryStore())
	w := a.do(t, http.MethodPut, "/api/settings", gin.H{"url": "https://cloud.example.org", "user": "lehrer", "token": "geheim"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(t, http.MethodPut, "/api/settings", gin.H{"url": "https://cloud.example.org", "user": "lehrer", "clearToken": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"configured":false}`, w.Body.String())
	assert.Equal(t, "", a.cfg.WebDAV.Token)
}

func TestTestConnection(t *testing.T) {
	dav := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "lehrer" || pass != "geheim" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `[{"id":"y1","name":"Jahrgang 5"}]`)
	}))
	t.Cleanup(dav.Close)

	a := newTestAPI(t, db.NewMemoryStore())
	w := a.do(t, http.MethodPost, "/api/settings/test", gin.H{"url": dav.URL, "user": "lehrer", "token": "geheim"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[struct {
		OK    bool `json:"ok"`
		Years int  `json:"years"`
	}](t, w)
	assert.True(t, resp.OK)
	assert.Equal(t, 1, resp.Years)

	w = a.do(t, http.MethodPost, "/api/settings/test", gin.H{"url": dav.URL, "user": "lehrer", "token": "falsch"})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = a.do(t, http.MethodPost, "/api/settings/test", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// chunked bodies carry no Content-Length
	body, err := json.Marshal(gin.H{"url": dav.URL, "user": "lehrer", "token": "geheim"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/settings/test", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestTestConnectionSharePassword(t *testing.T) {
	var gotUser, gotPass string
	dav := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, _ = r.BasicAuth()
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(dav.Close)

	a := newTestAPI(t, db.NewMemoryStore())
	w := a.do(t, http.MethodPut, "/api/settings", gin.H{"url": dav.URL, "user": "lehrer", "token": "geheim"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(t, http.MethodPost, "/api/settings/test", gin.H{"url": dav.URL + "/public.php/webdav", "user": "AbC123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "AbC123", gotUser)
	assert.Equal(t, "", gotPass)
}

func TestImportStudents(t *testing.T) {
	a := newTestAPI(t, db.NewMemoryStore())
	_, class, _ := a.seedSchool(t)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Nachname", "Vorname"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Weber", "Mia"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"Koch", "Ben"}))
	workbook, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	upload := func(classID string, content []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("classId", classID))
		part, err := mw.CreateFormFile("file", "schueler.xlsx")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/import/students", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		a.router.ServeHTTP(w, req)
		return w
	}

	w := upload(class.ID, workbook.Bytes())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, fmt.Sprintf(`{"message":"Import successful","importedCount":2,"classId":%q}`, class.ID), w.Body.String())

	students, err := a.repo.StudentsByClass(context.Background(), class.ID)
	require.NoError(t, err)
	assert.Len(t, students, 3)

	assert.Equal(t, http.StatusNotFound, upload("nope", workbook.Bytes()).Code)
	assert.Equal(t, http.StatusBadRequest, upload(class.ID, []byte("not excel")).Code)
}

func TestSeed(t *testing.T) {
	a := newTestAPI(t, db.NewMemoryStore())
	w := a.do(t, http.MethodPost, "/api/seed", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[seed.Result](t, w)
	assert.Equal(t, 6, res.Years)
	assert.Equal(t, 100, res.Incidents)

	w = a.do(t, http.MethodGet, "/api/classes", nil)
	classes := decode[[]models.ClassLevel](t, w)
	require.Len(t, classes, 18)
	assert.Equal(t, "5a", classes[0].Name)
	assert.Equal(t, "10c", classes[len(classes)-1].Name)
}
