package models

// Appointment is a follow-up meeting agreed on during a conversation
type Appointment struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	Location     string `json:"location"`
	Participants string `json:"participants"`
}

// Conversation is a counseling conversation protocol. StudentName and
// ClassName are free-text fallbacks kept for protocols without a student link.
type Conversation struct {
	ID         string           `json:"id"`
	CreatedAt  int64            `json:"createdAt"`
	Date       string           `json:"date" validate:"required,datetime=2006-01-02"`
	Time       string           `json:"time" validate:"required"`
	Location   string           `json:"location"`
	ReportedBy string           `json:"reportedBy"`
	Type       ConversationType `json:"type" validate:"conversation_type"`

	StudentID    string `json:"studentId,omitempty"`
	StudentName  string `json:"studentName"`
	ClassName    string `json:"className"`
	Participants string `json:"participants"`

	Subject string `json:"subject" validate:"required"`
	Content string `json:"content" validate:"required"`
	Goals   string `json:"goals"`
	Results string `json:"results"`

	NextAppointment *Appointment `json:"nextAppointment,omitempty"`
}

// JoinedConversation carries the student and class names to display, taken
// from the linked student when it still exists.
type JoinedConversation struct {
	Conversation
	DisplayStudent string `json:"displayStudent"`
	DisplayClass   string `json:"displayClass"`
}

func (c Conversation) GetID() string { return c.ID }
