package models

// Incident is a logged disciplinary incident for one student
type Incident struct {
	ID                        string           `json:"id"`
	CreatedAt                 int64            `json:"createdAt"` // Unix milliseconds
	StudentID                 string           `json:"studentId" validate:"required"`
	Date                      string           `json:"date" validate:"required,datetime=2006-01-02"`
	Time                      string           `json:"time" validate:"required"`
	Location                  string           `json:"location" validate:"required"`
	ReportedBy                string           `json:"reportedBy" validate:"required"`
	Category                  IncidentCategory `json:"category" validate:"incident_category"`
	Description               string           `json:"description" validate:"required"`
	InvolvedPersons           string           `json:"involvedPersons"`
	Witnesses                 string           `json:"witnesses"`
	ImmediateActions          string           `json:"immediateActions"`
	Agreements                string           `json:"agreements"`
	ParentContacted           bool             `json:"parentContacted"`
	AdministrationContacted   bool             `json:"administrationContacted"`
	SocialServiceContacted    bool             `json:"socialServiceContacted"`
	SocialServiceAbbreviation string           `json:"socialServiceAbbreviation"`
	Status                    IncidentStatus   `json:"status" validate:"incident_status"`
}

// JoinedIncident is an incident enriched with the names resolved from its
// student, class and year. It is a view model and never persisted.
type JoinedIncident struct {
	Incident
	StudentName   string `json:"studentName"`
	ClassName     string `json:"className"`
	ClassID       string `json:"classId,omitempty"`
	YearLevelName string `json:"yearLevelName"`
}

func (i Incident) GetID() string { return i.ID }
