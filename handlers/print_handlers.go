package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"schoolrecords-server-go/render"
	"schoolrecords-server-go/views"
)

const (
	formatHTML = "html"
	formatPDF  = "pdf"
	formatXLSX = "xlsx"

	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var errPrinterMissing = errors.New("pdf rendering is not available")

// document bundles the renderers of one printable thing; xlsx is nil where a
// spreadsheet makes no sense.
type document struct {
	name string // file name without extension
	html func(io.Writer) error
	xlsx func(io.Writer) error
}

func (h *APIHandler) sendDocument(c *gin.Context, doc document) {
	format := c.DefaultQuery("format", formatHTML)
	var buf bytes.Buffer
	switch format {
	case formatHTML:
		if err := doc.html(&buf); err != nil {
			h.respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	case formatPDF:
		if h.Printer == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": errPrinterMissing.Error()})
			return
		}
		if err := doc.html(&buf); err != nil {
			h.respondError(c, err)
			return
		}
		pdf, err := h.Printer.PrintPDF(c.Request.Context(), buf.String())
		if err != nil {
			h.log.Error("pdf rendering failed", "document", doc.name, "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": errPrinterMissing.Error(), "detail": err.Error()})
			return
		}
		attachment(c, doc.name+".pdf", "application/pdf", pdf)
	case formatXLSX:
		if doc.xlsx == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "xlsx export is only available for lists"})
			return
		}
		if err := doc.xlsx(&buf); err != nil {
			h.respondError(c, err)
			return
		}
		attachment(c, doc.name+".xlsx", mimeXLSX, buf.Bytes())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown format %q", format)})
	}
}

// listName is the export file name of a list without its extension.
func listName(kind string, now time.Time) string {
	return strings.TrimSuffix(views.ListPDFFilename(kind, now), ".pdf")
}

func attachment(c *gin.Context, filename, mime string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, mime, body)
}

// filterLabels describes the active list filters for the print header.
func (h *APIHandler) filterLabels(c *gin.Context, kind string) []string {
	var labels []string
	active := func(key string) (string, bool) {
		v := c.Query(key)
		return v, v != "" && v != views.All
	}
	if v, ok := active("search"); ok {
		labels = append(labels, fmt.Sprintf("Suche: %q", v))
	}
	switch kind {
	case "incidents":
		if id, ok := active("class"); ok {
			name := id
			if class, found, err := h.Repo.Classes.GetByID(c.Request.Context(), id); err == nil && found {
				name = class.Name
			}
			labels = append(labels, "Klasse: "+name)
		}
		if v, ok := active("status"); ok {
			labels = append(labels, "Status: "+v)
		}
		if v, ok := active("category"); ok {
			labels = append(labels, "Kategorie: "+v)
		}
		if v, ok := active("month"); ok {
			labels = append(labels, "Monat: "+views.MonthLabel(v))
		}
	case "protocols":
		if v, ok := active("protocolType"); ok {
			labels = append(labels, "Typ: "+v)
		}
	}
	return labels
}

// PrintList handles GET /api/print?type=incidents|protocols|meetings with the
// same filters as the list endpoints.
func (h *APIHandler) PrintList(c *gin.Context) {
	kind := c.DefaultQuery("type", "incidents")
	now := h.now()

	switch kind {
	case "incidents":
		list, err := h.filteredIncidents(c)
		if err != nil {
			h.respondError(c, err)
			return
		}
		labels := h.filterLabels(c, kind)
		h.sendDocument(c, document{
			name: listName("Vorfaelle", now),
			html: func(w io.Writer) error { return h.Renderer.IncidentList(w, list, labels) },
			xlsx: func(w io.Writer) error { return render.IncidentsXLSX(w, list) },
		})
	case "protocols":
		list, err := h.filteredConversations(c)
		if err != nil {
			h.respondError(c, err)
			return
		}
		labels := h.filterLabels(c, kind)
		h.sendDocument(c, document{
			name: listName("Gespraechsprotokolle", now),
			html: func(w io.Writer) error { return h.Renderer.ConversationList(w, list, labels) },
			xlsx: func(w io.Writer) error { return render.ConversationsXLSX(w, list) },
		})
	case "meetings":
		list, err := h.filteredMeetings(c)
		if err != nil {
			h.respondError(c, err)
			return
		}
		labels := h.filterLabels(c, kind)
		h.sendDocument(c, document{
			name: listName("Sitzungsprotokolle", now),
			html: func(w io.Writer) error { return h.Renderer.MeetingList(w, list, labels) },
			xlsx: func(w io.Writer) error { return render.MeetingsXLSX(w, list) },
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown print type %q", kind)})
	}
}

// PrintIncident handles GET /api/print/incidents/:id
func (h *APIHandler) PrintIncident(c *gin.Context) {
	in, err := h.joinedIncident(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.sendDocument(c, document{
		name: "Vorfall_" + views.SafeFilename(in.StudentName) + "_" + in.Date,
		html: func(w io.Writer) error { return h.Renderer.Incident(w, in) },
	})
}

// PrintConversation handles GET /api/print/conversations/:id
func (h *APIHandler) PrintConversation(c *gin.Context) {
	conv, err := h.joinedConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.sendDocument(c, document{
		name: "Gespraechsprotokoll_" + views.SafeFilename(conv.Subject) + "_" + conv.Date,
		html: func(w io.Writer) error { return h.Renderer.Conversation(w, conv) },
	})
}

// PrintMeeting handles GET /api/print/meetings/:id
func (h *APIHandler) PrintMeeting(c *gin.Context) {
	m, err := h.meeting(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	name := views.MeetingPDFFilename(m.Title, m.Date)
	h.sendDocument(c, document{
		name: strings.TrimSuffix(name, ".pdf"),
		html: func(w io.Writer) error { return h.Renderer.Meeting(w, m) },
	})
}
