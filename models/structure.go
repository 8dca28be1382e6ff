package models

// YearLevel represents a year group (Jahrgang), the root of the school structure
type YearLevel struct {
	ID   string `json:"id"`                       // Unique year ID
	Name string `json:"name" validate:"required"` // Display name, e.g. "Jahrgang 8"
}

// ClassLevel represents a class section inside a year group
type ClassLevel struct {
	ID          string `json:"id"`                              // Unique class ID
	YearLevelID string `json:"yearLevelId" validate:"required"` // ID of the year the class belongs to
	Name        string `json:"name" validate:"required"`        // Class name, e.g. "8b"
}

// Student represents a student
type Student struct {
	ID        string `json:"id"`                            // Unique student ID
	ClassID   string `json:"classId" validate:"required"`   // ID of the class the student belongs to
	FirstName string `json:"firstName" validate:"required"` // Given name
	LastName  string `json:"lastName" validate:"required"`  // Family name
}

// DisplayName renders the student the way lists and print views show it.
func (s Student) DisplayName() string {
	return s.LastName + ", " + s.FirstName
}

func (y YearLevel) GetID() string  { return y.ID }
func (c ClassLevel) GetID() string { return c.ID }
func (s Student) GetID() string    { return s.ID }
