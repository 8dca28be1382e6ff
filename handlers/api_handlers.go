package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"schoolrecords-server-go/config"
	"schoolrecords-server-go/db"
	"schoolrecords-server-go/logger"
	"schoolrecords-server-go/render"
	"schoolrecords-server-go/seed"
)

// SettingsStore is implemented by stores whose connection can be changed at
// runtime (the WebDAV store).
type SettingsStore interface {
	Settings() config.WebDAVConfig
	Configure(config.WebDAVConfig)
}

// Deps are the collaborators of the API.
type Deps struct {
	Repo       *db.Repository
	Renderer   *render.HTMLRenderer
	Printer    render.Printer
	Seeder     *seed.Generator
	Config     *config.Config
	ConfigPath string        // settings are written back here when set
	Settings   SettingsStore // nil unless the backend is webdav
	Log        *logger.Logger
	Now        func() time.Time
}

// APIHandler holds the dependencies for API handlers
type APIHandler struct {
	Deps
	mu       sync.Mutex // guards Config
	log      *logger.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(deps Deps) *APIHandler {
	h := &APIHandler{Deps: deps, log: deps.Log, validate: newValidator(), now: deps.Now}
	if h.log == nil {
		h.log = logger.Nop()
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

// NewRouter builds the gin engine with CORS for the browser front end and
// all API routes under /api.
func NewRouter(h *APIHandler, origins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(origins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.ExposeHeaders = []string{"Content-Disposition"}
	router.Use(cors.New(corsCfg))

	h.RegisterRoutes(router.Group("/api"))
	return router
}

// RegisterRoutes mounts every endpoint on api.
func (h *APIHandler) RegisterRoutes(api gin.IRouter) {
	api.GET("/ping", PingHandler)
	api.GET("/status", h.Status)

	// School structure
	api.GET("/years", h.GetYears)
	api.POST("/years", h.AddYear)
	api.DELETE("/years/:id", h.DeleteYear)
	api.GET("/years/:id/classes", h.GetClassesByYear)
	api.POST("/years/:id/classes", h.AddClass)
	api.DELETE("/classes/:id", h.DeleteClass)
	api.GET("/classes", h.GetClasses)
	api.GET("/classes/:id/students", h.GetStudentsByClass)
	api.POST("/classes/:id/students", h.AddStudent)
	api.DELETE("/students/:id", h.DeleteStudent)
	api.POST("/import/students", h.ImportStudents)

	// Incidents
	api.GET("/incidents", h.ListIncidents)
	api.GET("/incidents/months", h.IncidentMonths)
	api.POST("/incidents", h.CreateIncident)
	api.GET("/incidents/:id", h.GetIncident)
	api.PUT("/incidents/:id", h.UpdateIncident)
	api.DELETE("/incidents/:id", h.DeleteIncident)

	// Conversation protocols
	api.GET("/conversations", h.ListConversations)
	api.POST("/conversations", h.CreateConversation)
	api.GET("/conversations/:id", h.GetConversation)
	api.PUT("/conversations/:id", h.UpdateConversation)
	api.DELETE("/conversations/:id", h.DeleteConversation)

	// Meeting minutes
	api.GET("/meetings", h.ListMeetings)
	api.POST("/meetings", h.CreateMeeting)
	api.GET("/meetings/:id", h.GetMeeting)
	api.GET("/meetings/:id/neighbors", h.GetMeetingNeighbors)
	api.PUT("/meetings/:id", h.UpdateMeeting)
	api.DELETE("/meetings/:id", h.DeleteMeeting)

	api.GET("/dashboard", h.Dashboard)

	// Print and export
	api.GET("/print", h.PrintList)
	api.GET("/print/incidents/:id", h.PrintIncident)
	api.GET("/print/conversations/:id", h.PrintConversation)
	api.GET("/print/meetings/:id", h.PrintMeeting)

	// Settings and maintenance
	api.GET("/settings", h.GetSettings)
	api.PUT("/settings", h.SaveSettings)
	api.POST("/settings/share-link", h.ParseShareLink)
	api.POST("/settings/test", h.TestConnection)
	api.POST("/seed", h.Seed)
}

// PingHandler handles GET /api/ping
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}

// Status handles GET /api/status
func (h *APIHandler) Status(c *gin.Context) {
	backend := config.BackendMemory
	configured := true
	h.mu.Lock()
	if h.Config != nil {
		backend = h.Config.Store.Backend
	}
	h.mu.Unlock()
	if h.Settings != nil {
		configured = h.Settings.Settings().IsConfigured()
	}
	c.JSON(http.StatusOK, gin.H{"backend": backend, "configured": configured})
}
