// Package seed fills the store with plausible demo data for trying the
// application out.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"schoolrecords-server-go/db"
	"schoolrecords-server-go/logger"
	"schoolrecords-server-go/models"
	"schoolrecords-server-go/views"
)

const (
	firstYear          = 5
	lastYear           = 10
	minStudentsInClass = 3
	incidentCount      = 100
	conversationCount  = 100
	meetingCount       = 20
)

var classSuffixes = []string{"a", "b", "c"}

// ErrNoStudents is returned when no student exists to attach records to.
var ErrNoStudents = errors.New("no students available")

// Result counts what a run created.
type Result struct {
	Years          int `json:"years"`
	Classes        int `json:"classes"`
	Students       int `json:"students"`
	Incidents      int `json:"incidents"`
	Conversations  int `json:"conversations"`
	MeetingMinutes int `json:"meetingMinutes"`
}

type Generator struct {
	repo *db.Repository
	rng  *rand.Rand
	now  func() time.Time
	log  *logger.Logger
}

type Option func(*Generator)

// WithRand fixes the random source, for reproducible data.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func New(repo *db.Repository, log *logger.Logger, opts ...Option) *Generator {
	g := &Generator{
		repo: repo,
		rng:  rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		now:  time.Now,
		log:  log,
	}
	if g.log == nil {
		g.log = logger.Nop()
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type dataset struct {
	years         []models.YearLevel
	classes       []models.ClassLevel
	students      []models.Student
	incidents     []models.Incident
	conversations []models.Conversation
	minutes       []models.MeetingMinute
}

func (g *Generator) load(ctx context.Context) (*dataset, error) {
	d := &dataset{}
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) { d.years, err = g.repo.Years.FetchAll(ctx); return })
	eg.Go(func() (err error) { d.classes, err = g.repo.Classes.FetchAll(ctx); return })
	eg.Go(func() (err error) { d.students, err = g.repo.Students.FetchAll(ctx); return })
	eg.Go(func() (err error) { d.incidents, err = g.repo.Incidents.FetchAll(ctx); return })
	eg.Go(func() (err error) { d.conversations, err = g.repo.Conversations.FetchAll(ctx); return })
	eg.Go(func() (err error) { d.minutes, err = g.repo.MeetingMinutes.FetchAll(ctx); return })
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

func (g *Generator) save(ctx context.Context, d *dataset) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return g.repo.Years.SaveAll(ctx, d.years) })
	eg.Go(func() error { return g.repo.Classes.SaveAll(ctx, d.classes) })
	eg.Go(func() error { return g.repo.Students.SaveAll(ctx, d.students) })
	eg.Go(func() error { return g.repo.Incidents.SaveAll(ctx, d.incidents) })
	eg.Go(func() error { return g.repo.Conversations.SaveAll(ctx, d.conversations) })
	eg.Go(func() error { return g.repo.MeetingMinutes.SaveAll(ctx, d.minutes) })
	return eg.Wait()
}

// Run merges a demo school into the existing data and writes all six
// collections. Years and classes that already exist by name are reused;
// classes with fewer than three students are topped up.
func (g *Generator) Run(ctx context.Context) (Result, error) {
	d, err := g.load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load existing data: %w", err)
	}
	var res Result
	now := g.now()

	for n := firstYear; n <= lastYear; n++ {
		year := g.ensureYear(d, fmt.Sprintf("Jahrgang %d", n), &res)
		for _, suffix := range classSuffixes {
			class := g.ensureClass(d, year.ID, fmt.Sprintf("%d%s", n, suffix), &res)
			g.fillClass(d, class.ID, &res)
		}
	}
	if len(d.students) == 0 {
		return Result{}, ErrNoStudents
	}

	lookup := views.NewLookup(d.years, d.classes, d.students)
	for i := 0; i < incidentCount; i++ {
		d.incidents = append(d.incidents, g.incident(now, g.student(d)))
	}
	for i := 0; i < conversationCount; i++ {
		d.conversations = append(d.conversations, g.conversation(now, g.student(d), lookup))
	}
	for i := 0; i < meetingCount; i++ {
		d.minutes = append(d.minutes, g.meeting(now))
	}
	res.Incidents, res.Conversations, res.MeetingMinutes = incidentCount, conversationCount, meetingCount

	if err := g.save(ctx, d); err != nil {
		return Result{}, fmt.Errorf("failed to save demo data: %w", err)
	}
	g.log.Info("demo data generated",
		"years", res.Years, "classes", res.Classes, "students", res.Students,
		"incidents", res.Incidents, "conversations", res.Conversations, "meetingMinutes", res.MeetingMinutes)
	return res, nil
}

func (g *Generator) ensureYear(d *dataset, name string, res *Result) models.YearLevel {
	for _, y := range d.years {
		if y.Name == name {
			return y
		}
	}
	y := models.YearLevel{ID: g.repo.NewID(), Name: name}
	d.years = append(d.years, y)
	res.Years++
	return y
}

func (g *Generator) ensureClass(d *dataset, yearID, name string, res *Result) models.ClassLevel {
	for _, c := range d.classes {
		if c.YearLevelID == yearID && c.Name == name {
			return c
		}
	}
	c := models.ClassLevel{ID: g.repo.NewID(), YearLevelID: yearID, Name: name}
	d.classes = append(d.classes, c)
	res.Classes++
	return c
}

func (g *Generator) fillClass(d *dataset, classID string, res *Result) {
	have := 0
	for _, s := range d.students {
		if s.ClassID == classID {
			have++
		}
	}
	if have >= minStudentsInClass {
		return
	}
	n := minStudentsInClass + g.rng.IntN(4)
	for k := 0; k < n; k++ {
		d.students = append(d.students, models.Student{
			ID:        g.repo.NewID(),
			ClassID:   classID,
			FirstName: pick(g.rng, firstNames),
			LastName:  pick(g.rng, lastNames),
		})
		res.Students++
	}
}

func (g *Generator) student(d *dataset) models.Student {
	return pick(g.rng, d.students)
}

// date draws a day from the year before now, moving weekends to the
// following Monday or Tuesday.
func (g *Generator) date(now time.Time) time.Time {
	start := now.AddDate(-1, 0, 0)
	t := start.Add(time.Duration(g.rng.Int64N(int64(now.Sub(start)))))
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		t = t.AddDate(0, 0, 2)
	}
	return t
}

func (g *Generator) statusFor(age time.Duration) models.IncidentStatus {
	days := age.Hours() / 24
	switch {
	case days < 14:
		if g.rng.Float64() > 0.5 {
			return models.StatusOpen
		}
		return models.StatusInProgress
	case days < 60 && g.rng.Float64() > 0.7:
		return models.StatusMonitoring
	}
	return models.StatusResolved
}

func (g *Generator) incident(now time.Time, s models.Student) models.Incident {
	sc := pick(g.rng, incidentScenarios)
	at := g.date(now)
	status := g.statusFor(now.Sub(at))
	social := g.rng.Float64() > 0.8

	in := models.Incident{
		ID:                      g.repo.NewID(),
		CreatedAt:               now.UnixMilli(),
		StudentID:               s.ID,
		Date:                    at.Format("2006-01-02"),
		Time:                    fmt.Sprintf("%02d:%02d", 8+g.rng.IntN(6), g.rng.IntN(59)),
		Location:                pick(g.rng, locations),
		ReportedBy:              pick(g.rng, teachers),
		Category:                sc.category,
		Description:             sc.description,
		ImmediateActions:        sc.action,
		Agreements:              "Weiteres Vorgehen abwarten.",
		ParentContacted:         g.rng.Float64() > 0.4,
		AdministrationContacted: g.rng.Float64() > 0.8 || sc.category == models.CategoryPhysical,
		SocialServiceContacted:  social,
		Status:                  status,
	}
	if g.rng.Float64() > 0.7 {
		in.InvolvedPersons = "Kevin, Chantal"
	}
	if g.rng.Float64() > 0.6 {
		in.Witnesses = "Herr Müller"
	}
	if status == models.StatusResolved {
		in.Agreements = "Fall abgeschlossen."
	}
	if social {
		in.SocialServiceAbbreviation = pick(g.rng, socialServices)
	}
	return in
}

func (g *Generator) conversation(now time.Time, s models.Student, lookup *views.Lookup) models.Conversation {
	topic := pick(g.rng, conversationTopics)
	at := g.date(now)

	c := models.Conversation{
		ID:           g.repo.NewID(),
		CreatedAt:    now.UnixMilli(),
		Date:         at.Format("2006-01-02"),
		Time:         fmt.Sprintf("%02d:%02d", 8+g.rng.IntN(7), 15*g.rng.IntN(4)),
		Location:     pick(g.rng, conversationLocation),
		ReportedBy:   pick(g.rng, teachers),
		Type:         topic.kind,
		StudentID:    s.ID,
		StudentName:  s.DisplayName(),
		ClassName:    "k.A.",
		Participants: "Schüler, KL",
		Subject:      topic.subject,
		Content:      topic.content + " (Automatisch generierter Eintrag)",
		Goals:        "Verbesserung der Situation.",
		Results:      topic.result,
	}
	if class, ok := lookup.Class(s.ClassID); ok {
		c.ClassName = class.Name
	}
	if topic.kind == models.ConversationParent {
		c.Participants = "Mutter, Vater, KL"
	}
	if g.rng.Float64() > 0.7 {
		c.NextAppointment = &models.Appointment{
			Date:         at.AddDate(0, 0, 14).Format("2006-01-02"),
			Time:         "14:00",
			Location:     "Raum 102",
			Participants: "Wie heute",
		}
	}
	return c
}

func (g *Generator) meeting(now time.Time) models.MeetingMinute {
	topic := pick(g.rng, meetingTopics)
	at := g.date(now)

	m := models.MeetingMinute{
		ID:             g.repo.NewID(),
		CreatedAt:      now.UnixMilli(),
		Date:           at.Format("2006-01-02"),
		Time:           fmt.Sprintf("%02d:00 - %02d:30", 8+g.rng.IntN(7), 9+g.rng.IntN(7)),
		Occasion:       topic.occasion,
		OccasionDetail: topic.detail,
		Chairperson:    topic.chair,
		MinutesTaker:   topic.taker,
		Attendees:      topic.attendees,
		AgendaItems:    make([]models.AgendaItem, 0, len(agendaTemplate)),
	}
	for _, item := range agendaTemplate {
		item.ID = g.repo.NewID()
		if item.Number == "2" {
			item.Tasks = []models.AgendaTask{{
				ID:          g.repo.NewID(),
				Description: "Rundmail an alle Eltern bzgl. Handyverbot",
				Assignee:    "Schulleitung",
				Deadline:    at.AddDate(0, 0, 7).Format("2006-01-02"),
				Completed:   g.rng.IntN(2) == 1,
			}}
		}
		m.AgendaItems = append(m.AgendaItems, item)
	}
	views.ApplyTitle(&m)
	return m
}

func pick[T any](r *rand.Rand, items []T) T {
	return items[r.IntN(len(items))]
}
