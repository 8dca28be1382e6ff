package views

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"schoolrecords-server-go/models"
)

// SortOrder selects chronological (ASC) or reverse chronological (DESC) order.
type SortOrder string

const (
	Ascending  SortOrder = "ASC"
	Descending SortOrder = "DESC"
)

// ParseSortOrder maps query values onto a SortOrder, defaulting to DESC.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, string(Ascending)) {
		return Ascending
	}
	return Descending
}

// Timestamp turns a stored date and free-form time ("8:15", "08:00 - 09:30",
// "14h") into Unix milliseconds. Records without a usable date sort as 0.
func Timestamp(date, clock string) int64 {
	if date == "" {
		return 0
	}
	clock, _, _ = strings.Cut(clock, "-")
	clock = strings.TrimSpace(strings.ReplaceAll(clock, "h", ""))
	if clock == "" {
		clock = "00:00"
	}
	h, m, _ := strings.Cut(clock, ":")
	if h == "" {
		h = "00"
	}
	if len(h) < 2 {
		h = "0" + h
	}
	if m == "" {
		m = "00"
	}
	t, err := time.Parse("2006-01-02T15:04", date+"T"+h+":"+m)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}

func sortByTimestamp[T any](list []T, order SortOrder, stamp func(T) int64) {
	slices.SortStableFunc(list, func(a, b T) int {
		ta, tb := stamp(a), stamp(b)
		if order == Ascending {
			return cmp.Compare(ta, tb)
		}
		return cmp.Compare(tb, ta)
	})
}

// SortIncidents orders incidents in place by date and time.
func SortIncidents(list []models.JoinedIncident, order SortOrder) {
	sortByTimestamp(list, order, func(in models.JoinedIncident) int64 {
		return Timestamp(in.Date, in.Time)
	})
}

// SortConversations orders protocols in place by date and time.
func SortConversations(list []models.JoinedConversation, order SortOrder) {
	sortByTimestamp(list, order, func(c models.JoinedConversation) int64 {
		return Timestamp(c.Date, c.Time)
	})
}

// SortMeetings orders minutes in place by date and start time.
func SortMeetings(list []models.MeetingMinute, order SortOrder) {
	sortByTimestamp(list, order, func(m models.MeetingMinute) int64 {
		return Timestamp(m.Date, m.Time)
	})
}

// Neighbors holds the ids of the adjacent records in a DESC ordered list.
// Prev is the newer record, Next the older one.
type Neighbors struct {
	Prev string `json:"prevId,omitempty"`
	Next string `json:"nextId,omitempty"`
}

// MeetingNeighbors finds the records before and after id, newest first.
// The input slice is left untouched.
func MeetingNeighbors(list []models.MeetingMinute, id string) (Neighbors, bool) {
	sorted := slices.Clone(list)
	SortMeetings(sorted, Descending)
	idx := slices.IndexFunc(sorted, func(m models.MeetingMinute) bool { return m.ID == id })
	if idx < 0 {
		return Neighbors{}, false
	}
	var n Neighbors
	if idx > 0 {
		n.Prev = sorted[idx-1].ID
	}
	if idx < len(sorted)-1 {
		n.Next = sorted[idx+1].ID
	}
	return n, true
}
