package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"schoolrecords-server-go/config"
	"schoolrecords-server-go/db"
	"schoolrecords-server-go/seed"
)

var errNotFound = errors.New("not found")

// respondError maps store, validation and lookup failures onto HTTP answers.
// Handlers call it before writing anything else, so a failed request leaves
// no partial state behind on the client side.
func (h *APIHandler) respondError(c *gin.Context, err error) {
	var (
		verrs  validator.ValidationErrors
		remote *db.RemoteError
	)
	switch {
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
	case errors.Is(err, errNotFound), errors.Is(err, db.ErrClassNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, db.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "setup required"})
	case errors.As(err, &remote):
		h.log.Warn("remote store rejected request", "path", c.FullPath(), "status", remote.Status, "body", remote.Body)
		c.JSON(http.StatusBadGateway, gin.H{"error": "remote store error", "status": remote.Status, "body": remote.Body})
	case errors.Is(err, db.ErrNetwork):
		h.log.Warn("remote store unreachable", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": db.ErrNetwork.Error()})
	case errors.Is(err, config.ErrShareLinkFormat), errors.Is(err, config.ErrInvalidURL), errors.Is(err, seed.ErrNoStudents),
		errors.Is(err, db.ErrInvalidWorkbook):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// bindJSON decodes the body into v and runs the struct validations.
func (h *APIHandler) bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		h.respondError(c, err)
		return false
	}
	return true
}
