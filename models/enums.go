package models

// IncidentCategory classifies an incident. The wire value is the German
// display string so that existing JSON documents stay readable.
type IncidentCategory string

const (
	CategoryPhysical   IncidentCategory = "Körperliche Gewalt"
	CategoryVerbal     IncidentCategory = "Verbale Gewalt"
	CategoryBullying   IncidentCategory = "Mobbing / Ausgrenzung"
	CategoryVandalism  IncidentCategory = "Sachbeschädigung"
	CategoryDisruption IncidentCategory = "Unterrichtsstörung"
	CategoryTheft      IncidentCategory = "Diebstahl"
	CategoryOther      IncidentCategory = "Sonstiges"
)

// IncidentCategories lists every category in display order.
var IncidentCategories = []IncidentCategory{
	CategoryPhysical, CategoryVerbal, CategoryBullying, CategoryVandalism,
	CategoryDisruption, CategoryTheft, CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c IncidentCategory) Valid() bool {
	for _, known := range IncidentCategories {
		if c == known {
			return true
		}
	}
	return false
}

// IncidentStatus tracks how far an incident has been handled.
type IncidentStatus string

const (
	StatusOpen       IncidentStatus = "Offen"
	StatusInProgress IncidentStatus = "In Bearbeitung"
	StatusResolved   IncidentStatus = "Geklärt"
	StatusMonitoring IncidentStatus = "Beobachtung"
)

var IncidentStatuses = []IncidentStatus{StatusOpen, StatusInProgress, StatusResolved, StatusMonitoring}

func (s IncidentStatus) Valid() bool {
	for _, known := range IncidentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ConversationType is the kind of counseling conversation that was held.
type ConversationType string

const (
	ConversationParent     ConversationType = "Elterngespräch"
	ConversationStudent    ConversationType = "Schülergespräch"
	ConversationPhone      ConversationType = "Telefonat"
	ConversationConference ConversationType = "Konferenz / Besprechung"
	ConversationRoundTable ConversationType = "Runder Tisch"
	ConversationOther      ConversationType = "Sonstiges"
)

var ConversationTypes = []ConversationType{
	ConversationParent, ConversationStudent, ConversationPhone,
	ConversationConference, ConversationRoundTable, ConversationOther,
}

func (t ConversationType) Valid() bool {
	for _, known := range ConversationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Meeting occasions offered by the minutes form. Occasion is stored as a free
// string, these are the values the title derivation knows about.
const (
	OccasionUP           = "UP-Sitzung"
	OccasionSubjectBoard = "Fachkonferenz"
	OccasionTeam         = "Teamsitzung"
	OccasionOther        = "Sonstige"
	DefaultOccasion      = OccasionUP
	FallbackMeetingTitle = "Sitzung"
)
