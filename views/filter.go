package views

import (
	"strings"

	"schoolrecords-server-go/models"
)

// All is the filter value that lets every record through.
const All = "ALL"

func passes(filter, value string) bool {
	return filter == "" || filter == All || filter == value
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// IncidentFilter mirrors the list filters of the incident overview.
type IncidentFilter struct {
	Search   string
	Status   string
	Category string
	ClassID  string
	Month    string // YYYY-MM, matched as a prefix of the incident date
}

// Match reports whether the incident passes every active filter.
func (f IncidentFilter) Match(in models.JoinedIncident) bool {
	term := strings.ToLower(f.Search)
	if !containsFold(in.StudentName, term) && !containsFold(in.Description, term) {
		return false
	}
	if !passes(f.Status, string(in.Status)) || !passes(f.Category, string(in.Category)) || !passes(f.ClassID, in.ClassID) {
		return false
	}
	if f.Month != "" && f.Month != All && !strings.HasPrefix(in.Date, f.Month) {
		return false
	}
	return true
}

// Apply returns the matching incidents in their original order.
func (f IncidentFilter) Apply(list []models.JoinedIncident) []models.JoinedIncident {
	out := make([]models.JoinedIncident, 0, len(list))
	for _, in := range list {
		if f.Match(in) {
			out = append(out, in)
		}
	}
	return out
}

// ConversationFilter mirrors the protocol list filters.
type ConversationFilter struct {
	Search string
	Type   string
}

func (f ConversationFilter) Match(c models.JoinedConversation) bool {
	term := strings.ToLower(f.Search)
	if !containsFold(c.DisplayStudent, term) && !containsFold(c.Subject, term) && !containsFold(c.Participants, term) {
		return false
	}
	return passes(f.Type, string(c.Type))
}

func (f ConversationFilter) Apply(list []models.JoinedConversation) []models.JoinedConversation {
	out := make([]models.JoinedConversation, 0, len(list))
	for _, c := range list {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// MeetingFilter searches title, chairperson and attendees.
type MeetingFilter struct {
	Search string
}

func (f MeetingFilter) Match(m models.MeetingMinute) bool {
	term := strings.ToLower(f.Search)
	return containsFold(m.Title, term) || containsFold(m.Chairperson, term) || containsFold(m.Attendees, term)
}

func (f MeetingFilter) Apply(list []models.MeetingMinute) []models.MeetingMinute {
	out := make([]models.MeetingMinute, 0, len(list))
	for _, m := range list {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	return out
}
