// Package render produces the printable forms of records: HTML print views,
// PDFs printed from that HTML by headless Chromium, and XLSX list exports.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"schoolrecords-server-go/models"
	"schoolrecords-server-go/views"
)

//go:embed templates/*.html
var templateFS embed.FS

var germanWeekdays = [...]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"}

var germanMonthNames = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// longDate renders "2024-03-01" as "Freitag, 1. März 2024".
func longDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return fmt.Sprintf("%s, %d. %s %d", germanWeekdays[t.Weekday()], t.Day(), germanMonthNames[t.Month()-1], t.Year())
}

var funcs = template.FuncMap{
	"germanDate": views.GermanDate,
	"longDate":   longDate,
	"richText":   SanitizeRichText,
	"join":       strings.Join,
	"stamp": func(t time.Time) string {
		return t.Format("02.01.2006") + " um " + t.Format("15:04") + " Uhr"
	},
}

// Page is the data handed to every print template.
type Page struct {
	School    string
	Title     string
	Generated time.Time
	Filters   []string

	Incidents     []models.JoinedIncident
	Conversations []models.JoinedConversation
	Meetings      []models.MeetingMinute
	Incident      *models.JoinedIncident
	Conversation  *models.JoinedConversation
	Meeting       *models.MeetingMinute
}

// HTMLRenderer renders the print views.
type HTMLRenderer struct {
	tmpl   *template.Template
	school string
	now    func() time.Time
}

func NewHTMLRenderer(school string, now func() time.Time) (*HTMLRenderer, error) {
	tmpl, err := template.New("print").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse print templates: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	return &HTMLRenderer{tmpl: tmpl, school: school, now: now}, nil
}

func (r *HTMLRenderer) execute(w io.Writer, name string, p Page) error {
	p.School = r.school
	p.Generated = r.now()
	if err := r.tmpl.ExecuteTemplate(w, name, p); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

// IncidentList renders the incident overview with the active filter labels.
func (r *HTMLRenderer) IncidentList(w io.Writer, list []models.JoinedIncident, filters []string) error {
	return r.execute(w, "incident_list.html", Page{Title: "Vorfallsprotokolle", Incidents: list, Filters: filters})
}

func (r *HTMLRenderer) ConversationList(w io.Writer, list []models.JoinedConversation, filters []string) error {
	return r.execute(w, "conversation_list.html", Page{Title: "Gesprächsprotokolle", Conversations: list, Filters: filters})
}

func (r *HTMLRenderer) MeetingList(w io.Writer, list []models.MeetingMinute, filters []string) error {
	return r.execute(w, "meeting_list.html", Page{Title: "Sitzungsprotokolle", Meetings: list, Filters: filters})
}

func (r *HTMLRenderer) Incident(w io.Writer, in models.JoinedIncident) error {
	return r.execute(w, "incident.html", Page{Title: "Vorfallsprotokoll " + in.StudentName, Incident: &in})
}

func (r *HTMLRenderer) Conversation(w io.Writer, c models.JoinedConversation) error {
	return r.execute(w, "conversation.html", Page{Title: "Gesprächsprotokoll " + c.Subject, Conversation: &c})
}

func (r *HTMLRenderer) Meeting(w io.Writer, m models.MeetingMinute) error {
	return r.execute(w, "meeting.html", Page{Title: m.Title, Meeting: &m})
}

// String is a convenience for callers that need the document as a string,
// such as the PDF printer.
func String(render func(io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
