package views

import (
	"cmp"
	"slices"

	"schoolrecords-server-go/models"
)

const recentIncidentLimit = 5

// Summary feeds the dashboard tiles.
type Summary struct {
	Total      int                     `json:"total"`
	Open       int                     `json:"open"`
	Monitoring int                     `json:"monitoring"`
	Resolved   int                     `json:"resolved"`
	Recent     []models.JoinedIncident `json:"recent"`
}

// DashboardSummary counts incidents per open, monitored and resolved status and picks the most
// recently recorded ones.
func DashboardSummary(list []models.JoinedIncident) Summary {
	s := Summary{Total: len(list)}
	for _, in := range list {
		switch in.Status {
		case models.StatusOpen:
			s.Open++
		case models.StatusMonitoring:
			s.Monitoring++
		case models.StatusResolved:
			s.Resolved++
		}
	}
	recent := slices.Clone(list)
	slices.SortStableFunc(recent, func(a, b models.JoinedIncident) int {
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})
	if len(recent) > recentIncidentLimit {
		recent = recent[:recentIncidentLimit]
	}
	if recent == nil {
		recent = []models.JoinedIncident{}
	}
	s.Recent = recent
	return s
}
