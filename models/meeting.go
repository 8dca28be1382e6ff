package models

// AgendaTask is a follow-up agreed under an agenda item.
type AgendaTask struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Assignee    string `json:"assignee"`
	Deadline    string `json:"deadline"`
	Completed   bool   `json:"completed"`
}

// AgendaItem is one numbered point of a meeting. Summary holds rich-text HTML.
type AgendaItem struct {
	ID      string       `json:"id"`
	Number  string       `json:"number"`
	Title   string       `json:"title,omitempty"`
	Summary string       `json:"summary"`
	Tasks   []AgendaTask `json:"tasks,omitempty"`
}

// MeetingMinute is the protocol of a staff meeting
type MeetingMinute struct {
	ID             string       `json:"id"`
	CreatedAt      int64        `json:"createdAt"`
	Date           string       `json:"date" validate:"required,datetime=2006-01-02"`
	Time           string       `json:"time" validate:"required"` // free text, e.g. "11:45h - 12:30h"
	Title          string       `json:"title"`
	Occasion       string       `json:"occasion,omitempty"`
	OccasionDetail string       `json:"occasionDetail,omitempty"`
	Chairperson    string       `json:"chairperson" validate:"required"`
	MinutesTaker   string       `json:"minutesTaker" validate:"required"`
	Attendees      string       `json:"attendees" validate:"required"`
	AgendaItems    []AgendaItem `json:"agendaItems"`
}

func (m MeetingMinute) GetID() string { return m.ID }
