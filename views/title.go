package views

import (
	"strings"
	"time"

	"schoolrecords-server-go/models"
)

// GermanDate renders an ISO date as DD.MM.YYYY; anything unparsable is
// returned unchanged.
func GermanDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02.01.2006")
}

// MeetingTitle derives the display title of a meeting from its occasion.
func MeetingTitle(occasion, detail, date string) string {
	detail = strings.TrimSpace(detail)
	if occasion == "" {
		occasion = models.DefaultOccasion
	}

	var parts []string
	switch occasion {
	case models.OccasionOther:
		if detail != "" {
			parts = append(parts, detail)
		} else {
			parts = append(parts, models.FallbackMeetingTitle)
		}
	case models.OccasionSubjectBoard, models.OccasionTeam:
		parts = append(parts, occasion)
		if detail != "" {
			parts = append(parts, detail)
		}
	default:
		parts = append(parts, occasion)
	}
	if d := GermanDate(date); d != "" {
		parts = append(parts, d)
	}
	return strings.Join(parts, " ")
}

// ApplyTitle overwrites the title with the derived one.
func ApplyTitle(m *models.MeetingMinute) {
	m.Title = MeetingTitle(m.Occasion, m.OccasionDetail, m.Date)
}
