package views

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"schoolrecords-server-go/models"
)

var germanMonths = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// AvailableMonths lists the distinct YYYY-MM keys of the incidents, newest first.
func AvailableMonths(list []models.JoinedIncident) []string {
	seen := make(map[string]struct{})
	months := make([]string, 0)
	for _, in := range list {
		if len(in.Date) < len("2006-01") {
			continue
		}
		key := in.Date[:7]
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		months = append(months, key)
	}
	slices.Sort(months)
	slices.Reverse(months)
	return months
}

// MonthLabel renders "2024-03" as "März 2024".
func MonthLabel(key string) string {
	y, m, ok := strings.Cut(key, "-")
	if !ok {
		return key
	}
	month, err := strconv.Atoi(m)
	if err != nil || month < 1 || month > 12 {
		return key
	}
	return fmt.Sprintf("%s %s", germanMonths[month-1], y)
}
