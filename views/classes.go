package views

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"schoolrecords-server-go/models"
)

// SortClasses returns the classes ordered by name the way a German reader
// expects, with embedded numbers compared by value ("5a" < "10a").
func SortClasses(classes []models.ClassLevel) []models.ClassLevel {
	c := collate.New(language.German, collate.Numeric)
	out := slices.Clone(classes)
	slices.SortStableFunc(out, func(a, b models.ClassLevel) int {
		return c.CompareString(a.Name, b.Name)
	})
	return out
}

// SortYears orders year levels by name with numeric collation.
func SortYears(years []models.YearLevel) []models.YearLevel {
	c := collate.New(language.German, collate.Numeric)
	out := slices.Clone(years)
	slices.SortStableFunc(out, func(a, b models.YearLevel) int {
		return c.CompareString(a.Name, b.Name)
	})
	return out
}
