// Package views builds the denormalized, display-only records used by lists,
// print views and exports: joins, filters, sorting and derived titles.
package views

import "schoolrecords-server-go/models"

// Placeholders shown when a reference can no longer be resolved.
const (
	UnknownStudent = "Unbekannt"
	UnknownRef     = "?"
)

// Lookup indexes the school structure by id.
type Lookup struct {
	students map[string]models.Student
	classes  map[string]models.ClassLevel
	years    map[string]models.YearLevel
}

// NewLookup indexes the given records. Duplicate ids keep the first entry,
// matching a front-to-back search.
func NewLookup(years []models.YearLevel, classes []models.ClassLevel, students []models.Student) *Lookup {
	l := &Lookup{
		students: make(map[string]models.Student, len(students)),
		classes:  make(map[string]models.ClassLevel, len(classes)),
		years:    make(map[string]models.YearLevel, len(years)),
	}
	for _, s := range students {
		if _, dup := l.students[s.ID]; !dup {
			l.students[s.ID] = s
		}
	}
	for _, c := range classes {
		if _, dup := l.classes[c.ID]; !dup {
			l.classes[c.ID] = c
		}
	}
	for _, y := range years {
		if _, dup := l.years[y.ID]; !dup {
			l.years[y.ID] = y
		}
	}
	return l
}

// Student resolves a student id.
func (l *Lookup) Student(id string) (models.Student, bool) {
	s, ok := l.students[id]
	return s, ok
}

// Class resolves a class id.
func (l *Lookup) Class(id string) (models.ClassLevel, bool) {
	c, ok := l.classes[id]
	return c, ok
}

// JoinIncident resolves the student, class and year names of one incident.
func (l *Lookup) JoinIncident(in models.Incident) models.JoinedIncident {
	joined := models.JoinedIncident{
		Incident:      in,
		StudentName:   UnknownStudent,
		ClassName:     UnknownRef,
		YearLevelName: UnknownRef,
	}
	student, ok := l.students[in.StudentID]
	if !ok {
		return joined
	}
	joined.StudentName = student.DisplayName()

	class, ok := l.classes[student.ClassID]
	if !ok {
		return joined
	}
	joined.ClassName = class.Name
	joined.ClassID = class.ID

	if year, ok := l.years[class.YearLevelID]; ok {
		joined.YearLevelName = year.Name
	}
	return joined
}

// JoinIncidents joins every incident, keeping the input order.
func JoinIncidents(incidents []models.Incident, students []models.Student, classes []models.ClassLevel, years []models.YearLevel) []models.JoinedIncident {
	l := NewLookup(years, classes, students)
	out := make([]models.JoinedIncident, 0, len(incidents))
	for _, in := range incidents {
		out = append(out, l.JoinIncident(in))
	}
	return out
}

// JoinConversation prefers the linked student's current name and class and
// falls back to the names stored on the protocol.
func (l *Lookup) JoinConversation(c models.Conversation) models.JoinedConversation {
	joined := models.JoinedConversation{
		Conversation:   c,
		DisplayStudent: c.StudentName,
		DisplayClass:   c.ClassName,
	}
	if c.StudentID == "" {
		return joined
	}
	student, ok := l.students[c.StudentID]
	if !ok {
		return joined
	}
	joined.DisplayStudent = student.DisplayName()
	if class, ok := l.classes[student.ClassID]; ok {
		joined.DisplayClass = class.Name
	}
	return joined
}

// JoinConversations joins every conversation, keeping the input order.
func JoinConversations(conversations []models.Conversation, students []models.Student, classes []models.ClassLevel) []models.JoinedConversation {
	l := NewLookup(nil, classes, students)
	out := make([]models.JoinedConversation, 0, len(conversations))
	for _, c := range conversations {
		out = append(out, l.JoinConversation(c))
	}
	return out
}
