package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"schoolrecords-server-go/logger"
	"schoolrecords-server-go/models"
)

// Repository bundles the six collections and the business rules that span
// them (structure helpers, cascading deletes).
type Repository struct {
	Years          *Collection[models.YearLevel]
	Classes        *Collection[models.ClassLevel]
	Students       *Collection[models.Student]
	Incidents      *Collection[models.Incident]
	Conversations  *Collection[models.Conversation]
	MeetingMinutes *Collection[models.MeetingMinute]

	log *logger.Logger
}

// Option customizes a Repository.
type Option func(*repoOptions)

type repoOptions struct {
	now   func() time.Time
	newID func() string
}

// WithClock sets the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(o *repoOptions) { o.now = now }
}

// WithIDGenerator sets the id source used by Add.
func WithIDGenerator(newID func() string) Option {
	return func(o *repoOptions) { o.newID = newID }
}

// NewRepository wires all collections onto store.
func NewRepository(store DocumentStore, log *logger.Logger, opts ...Option) *Repository {
	o := repoOptions{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Repository{
		Years: newCollection(store, YearsFile, o, func(y *models.YearLevel, id string, _ int64) {
			y.ID = id
		}),
		Classes: newCollection(store, ClassesFile, o, func(c *models.ClassLevel, id string, _ int64) {
			c.ID = id
		}),
		Students: newCollection(store, StudentsFile, o, func(s *models.Student, id string, _ int64) {
			s.ID = id
		}),
		Incidents: newCollection(store, IncidentsFile, o, func(i *models.Incident, id string, at int64) {
			i.ID, i.CreatedAt = id, at
		}),
		Conversations: newCollection(store, ConversationsFile, o, func(c *models.Conversation, id string, at int64) {
			c.ID, c.CreatedAt = id, at
		}),
		MeetingMinutes: newCollection(store, MeetingMinutesFile, o, func(m *models.MeetingMinute, id string, at int64) {
			m.ID, m.CreatedAt = id, at
		}),
		log: log,
	}
}

func newCollection[T Entity](store DocumentStore, name string, o repoOptions, stamp func(*T, string, int64)) *Collection[T] {
	return &Collection[T]{
		store: store,
		name:  name,
		stamp: stamp,
		newID: o.newID,
		nowMs: func() int64 { return o.now().UnixMilli() },
	}
}

// NewID returns an id from the repository's generator, for nested records
// such as agenda items.
func (r *Repository) NewID() string {
	return r.Years.newID()
}

// Structure is the year/class/student hierarchy loaded in one go.
type Structure struct {
	Years    []models.YearLevel
	Classes  []models.ClassLevel
	Students []models.Student
}

// LoadStructure fetches years, classes and students concurrently.
func (r *Repository) LoadStructure(ctx context.Context) (Structure, error) {
	var s Structure
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.Years, err = r.Years.FetchAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.Classes, err = r.Classes.FetchAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.Students, err = r.Students.FetchAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Structure{}, err
	}
	return s, nil
}

// --- Structure Operations ---

// AddYear creates a new year group
func (r *Repository) AddYear(ctx context.Context, name string) (models.YearLevel, error) {
	year, err := r.Years.Add(ctx, models.YearLevel{Name: name})
	if err != nil {
		return year, err
	}
	r.log.Info("added year", "id", year.ID, "name", name)
	return year, nil
}

// DeleteYear removes the year, every class of that year and every student of
// those classes. Incidents and conversations are left untouched.
func (r *Repository) DeleteYear(ctx context.Context, id string) error {
	s, err := r.LoadStructure(ctx)
	if err != nil {
		return err
	}

	removedClasses := make(map[string]struct{})
	for _, c := range s.Classes {
		if c.YearLevelID == id {
			removedClasses[c.ID] = struct{}{}
		}
	}
	years := without(s.Years, func(y models.YearLevel) bool { return y.ID == id })
	classes := without(s.Classes, func(c models.ClassLevel) bool { return c.YearLevelID == id })
	students := without(s.Students, func(st models.Student) bool {
		_, gone := removedClasses[st.ClassID]
		return gone
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.Years.SaveAll(gctx, years) })
	g.Go(func() error { return r.Classes.SaveAll(gctx, classes) })
	g.Go(func() error { return r.Students.SaveAll(gctx, students) })
	if err := g.Wait(); err != nil {
		return err
	}
	r.log.Info("deleted year", "id", id,
		"classesRemoved", len(s.Classes)-len(classes),
		"studentsRemoved", len(s.Students)-len(students))
	return nil
}

// ClassesByYear returns the classes of one year group
func (r *Repository) ClassesByYear(ctx context.Context, yearID string) ([]models.ClassLevel, error) {
	return r.Classes.Where(ctx, func(c models.ClassLevel) bool { return c.YearLevelID == yearID })
}

// AddClass creates a class inside a year group
func (r *Repository) AddClass(ctx context.Context, yearID, name string) (models.ClassLevel, error) {
	class, err := r.Classes.Add(ctx, models.ClassLevel{YearLevelID: yearID, Name: name})
	if err != nil {
		return class, err
	}
	r.log.Info("added class", "id", class.ID, "name", name, "yearId", yearID)
	return class, nil
}

// DeleteClass removes the class and its students.
func (r *Repository) DeleteClass(ctx context.Context, id string) error {
	var (
		classes  []models.ClassLevel
		students []models.Student
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		classes, err = r.Classes.FetchAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		students, err = r.Students.FetchAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	keptClasses := without(classes, func(c models.ClassLevel) bool { return c.ID == id })
	keptStudents := without(students, func(s models.Student) bool { return s.ClassID == id })

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error { return r.Classes.SaveAll(gctx, keptClasses) })
	g.Go(func() error { return r.Students.SaveAll(gctx, keptStudents) })
	if err := g.Wait(); err != nil {
		return err
	}
	r.log.Info("deleted class", "id", id, "studentsRemoved", len(students)-len(keptStudents))
	return nil
}

// StudentsByClass returns the students of one class
func (r *Repository) StudentsByClass(ctx context.Context, classID string) ([]models.Student, error) {
	return r.Students.Where(ctx, func(s models.Student) bool { return s.ClassID == classID })
}

// AddStudent adds a student to a class
func (r *Repository) AddStudent(ctx context.Context, classID, firstName, lastName string) (models.Student, error) {
	return r.Students.Add(ctx, models.Student{ClassID: classID, FirstName: firstName, LastName: lastName})
}

// DeleteStudent removes only the student; incidents and conversations that
// reference it stay and show up as unknown.
func (r *Repository) DeleteStudent(ctx context.Context, id string) error {
	return r.Students.Delete(ctx, id)
}
