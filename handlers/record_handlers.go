package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"schoolrecords-server-go/db"
	"schoolrecords-server-go/models"
	"schoolrecords-server-go/views"
)

func (h *APIHandler) joinedIncidents(ctx context.Context) ([]models.JoinedIncident, error) {
	var (
		s         db.Structure
		incidents []models.Incident
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s, err = h.Repo.LoadStructure(gctx)
		return err
	})
	g.Go(func() (err error) {
		incidents, err = h.Repo.Incidents.FetchAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views.JoinIncidents(incidents, s.Students, s.Classes, s.Years), nil
}

func (h *APIHandler) joinedConversations(ctx context.Context) ([]models.JoinedConversation, error) {
	var (
		classes       []models.ClassLevel
		students      []models.Student
		conversations []models.Conversation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		classes, err = h.Repo.Classes.FetchAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		students, err = h.Repo.Students.FetchAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		conversations, err = h.Repo.Conversations.FetchAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views.JoinConversations(conversations, students, classes), nil
}

func incidentFilterFrom(c *gin.Context) views.IncidentFilter {
	return views.IncidentFilter{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Category: c.Query("category"),
		ClassID:  c.Query("class"),
		Month:    c.Query("month"),
	}
}

func conversationFilterFrom(c *gin.Context) views.ConversationFilter {
	return views.ConversationFilter{Search: c.Query("search"), Type: c.Query("protocolType")}
}

func (h *APIHandler) filteredIncidents(c *gin.Context) ([]models.JoinedIncident, error) {
	all, err := h.joinedIncidents(c.Request.Context())
	if err != nil {
		return nil, err
	}
	list := incidentFilterFrom(c).Apply(all)
	views.SortIncidents(list, views.ParseSortOrder(c.Query("sort")))
	return list, nil
}

func (h *APIHandler) filteredConversations(c *gin.Context) ([]models.JoinedConversation, error) {
	all, err := h.joinedConversations(c.Request.Context())
	if err != nil {
		return nil, err
	}
	list := conversationFilterFrom(c).Apply(all)
	views.SortConversations(list, views.ParseSortOrder(c.Query("sort")))
	return list, nil
}

func (h *APIHandler) filteredMeetings(c *gin.Context) ([]models.MeetingMinute, error) {
	all, err := h.Repo.MeetingMinutes.FetchAll(c.Request.Context())
	if err != nil {
		return nil, err
	}
	list := views.MeetingFilter{Search: c.Query("search")}.Apply(all)
	views.SortMeetings(list, views.ParseSortOrder(c.Query("sort")))
	return list, nil
}

// --- Incident Handlers ---

// ListIncidents handles GET /api/incidents
func (h *APIHandler) ListIncidents(c *gin.Context) {
	list, err := h.filteredIncidents(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// IncidentMonths handles GET /api/incidents/months
func (h *APIHandler) IncidentMonths(c *gin.Context) {
	incidents, err := h.Repo.Incidents.FetchAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	joined := views.JoinIncidents(incidents, nil, nil, nil)
	months := views.AvailableMonths(joined)
	out := make([]gin.H, 0, len(months))
	for _, m := range months {
		out = append(out, gin.H{"key": m, "label": views.MonthLabel(m)})
	}
	c.JSON(http.StatusOK, out)
}

// GetIncident handles GET /api/incidents/:id and returns the joined record.
func (h *APIHandler) GetIncident(c *gin.Context) {
	in, err := h.joinedIncident(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, in)
}

func (h *APIHandler) joinedIncident(ctx context.Context, id string) (models.JoinedIncident, error) {
	in, found, err := h.Repo.Incidents.GetByID(ctx, id)
	if err != nil {
		return models.JoinedIncident{}, err
	}
	if !found {
		return models.JoinedIncident{}, errNotFound
	}
	s, err := h.Repo.LoadStructure(ctx)
	if err != nil {
		return models.JoinedIncident{}, err
	}
	return views.NewLookup(s.Years, s.Classes, s.Students).JoinIncident(in), nil
}

// CreateIncident handles POST /api/incidents
func (h *APIHandler) CreateIncident(c *gin.Context) {
	var in models.Incident
	if !h.bindJSON(c, &in) {
		return
	}
	created, err := h.Repo.Incidents.Add(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.log.Info("incident recorded", "id", created.ID, "studentId", created.StudentID, "category", created.Category)
	c.JSON(http.StatusCreated, created)
}

// UpdateIncident handles PUT /api/incidents/:id. The creation time of the
// stored record is kept.
func (h *APIHandler) UpdateIncident(c *gin.Context) {
	var in models.Incident
	if !h.bindJSON(c, &in) {
		return
	}
	ctx := c.Request.Context()
	existing, found, err := h.Repo.Incidents.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !found {
		h.respondError(c, errNotFound)
		return
	}
	in.ID, in.CreatedAt = existing.ID, existing.CreatedAt
	if found, err = h.Repo.Incidents.Update(ctx, in); err != nil {
		h.respondError(c, err)
		return
	}
	if !found {
		h.respondError(c, errNotFound)
		return
	}
	c.JSON(http.StatusOK, in)
}

// DeleteIncident handles DELETE /api/incidents/:id
func (h *APIHandler) DeleteIncident(c *gin.Context) {
	if err := h.Repo.Incidents.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Conversation Handlers ---

// ListConversations handles GET /api/conversations
func (h *APIHandler) ListConversations(c *gin.Context) {
	list, err := h.filteredConversations(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *APIHandler) joinedConversation(ctx context.Context, id string) (models.JoinedConversation, error) {
	conv, found, err := h.Repo.Conversations.GetByID(ctx, id)
	if err != nil {
		return models.JoinedConversation{}, err
	}
	if !found {
		return models.JoinedConversation{}, errNotFound
	}
	s, err := h.Repo.LoadStructure(ctx)
	if err != nil {
		return models.JoinedConversation{}, err
	}
	return views.NewLookup(s.Years, s.Classes, s.Students).JoinConversation(conv), nil
}

// GetConversation handles GET /api/conversations/:id
func (h *APIHandler) GetConversation(c *gin.Context) {
	conv, err := h.joinedConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// CreateConversation handles POST /api/conversations
func (h *APIHandler) CreateConversation(c *gin.Context) {
	var conv models.Conversation
	if !h.bindJSON(c, &conv) {
		return
	}
	created, err := h.Repo.Conversations.Add(c.Request.Context(), conv)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateConversation handles PUT /api/conversations/:id
func (h *APIHandler) UpdateConversation(c *gin.Context) {
	var conv models.Conversation
	if !h.bindJSON(c, &conv) {
		return
	}
	ctx := c.Request.Context()
	existing, found, err := h.Repo.Conversations.GetByID(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !found {
		h.respondError(c, errNotFound)
		return
	}
	conv.ID, conv.CreatedAt = existing.ID, existing.CreatedAt
	if found, err = h.Repo.Conversations.Update(ctx, conv); err != nil {
		h.respondError(c, err)
		return
	}
	if !found {
		h.respondError(c, errNotFound)
		return
	}
	c.JSON(http.StatusOK, conv)
}

// DeleteConversation handles DELETE /api/conversations/:id
func (h *APIHandler) DeleteConversation(c *gin.Context) {
	if err := h.Repo.Conversations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Meeting Handlers ---

// ListMeetings handles GET /api/meetings
func (h *APIHandler) ListMeetings(c *gin.Context) {
	list, err := h.filteredMeetings(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *APIHandler) meeting(ctx context.Context, id string) (models.MeetingMinute, error) {
	m, found, err := h.Repo.MeetingMinutes.GetByID(ctx, id)
	if err != nil {
		return m, err
	}
	if !found {
		return m, errNotFound
	}
	return m, nil
}

// GetMeeting handles GET /api/meetings/:id
func (h *APIHandler) GetMeeting(c *gin.Context) {
	m, err := h.meeting(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// GetMeetingNeighbors handles GET /api/meetings/:id/neighbors
func (h *APIHandler) GetMeetingNeighbors(c *gin.Context) {
	all, err := h.Repo.MeetingMinutes.FetchAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	n, ok := views.MeetingNeighbors(all, c.Param("id"))
	if !ok {
		h.respondError(c, errNotFound)
		return
	}
	c.JSON(http.StatusOK, n)
}

// prepareMeeting derives the title and numbers agenda items that arrive
// without id or number.
func (h *APIHandler) prepareMeeting(m *models.MeetingMinute) {
	views.ApplyTitle(m)
	if m.AgendaItems == nil {
		m.AgendaItems = []models.AgendaItem{}
	}
	for i := range m.AgendaItems {
		if m.AgendaItems[i].ID == "" {
			m.AgendaItems[i].ID = h.Repo.NewID()
		}
		if m.AgendaItems[i].Number == "" {
			m.AgendaItems[i].Number = strconv.Itoa(i + 1)
		}
	}
}

// CreateMeeting handles POST /api/meetings
func (h *APIHandler) CreateMeeting(c *gin.Context) {
	var m models.MeetingMinute
	if !h.bindJSON(c, &m) {
		return
	}
	h.prepareMeeting(&m)
	created, err := h.Repo.MeetingMinutes.Add(c.Request.Context(), m)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateMeeting handles PUT /api/meetings/:id
func (h *APIHandler) UpdateMeeting(c *gin.Context) {
	var m models.MeetingMinute
	if !h.bindJSON(c, &m) {
		return
	}
	ctx := c.Request.Context()
	existing, err := h.meeting(ctx, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	m.ID, m.CreatedAt = existing.ID, existing.CreatedAt
	h.prepareMeeting(&m)
	found, err := h.Repo.MeetingMinutes.Update(ctx, m)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !found {
		h.respondError(c, errNotFound)
		return
	}
	c.JSON(http.StatusOK, m)
}

// DeleteMeeting handles DELETE /api/meetings/:id
func (h *APIHandler) DeleteMeeting(c *gin.Context) {
	if err := h.Repo.MeetingMinutes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Dashboard handles GET /api/dashboard
func (h *APIHandler) Dashboard(c *gin.Context) {
	list, err := h.joinedIncidents(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views.DashboardSummary(list))
}
