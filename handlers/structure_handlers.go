package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolrecords-server-go/models"
	"schoolrecords-server-go/views"
)

// --- Year Handlers ---

// GetYears handles GET /api/years
func (h *APIHandler) GetYears(c *gin.Context) {
	years, err := h.Repo.Years.FetchAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views.SortYears(years))
}

// AddYear handles POST /api/years
func (h *APIHandler) AddYear(c *gin.Context) {
	var year models.YearLevel
	if !h.bindJSON(c, &year) {
		return
	}
	created, err := h.Repo.AddYear(c.Request.Context(), year.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DeleteYear handles DELETE /api/years/:id and removes its classes and
// students with it.
func (h *APIHandler) DeleteYear(c *gin.Context) {
	if err := h.Repo.DeleteYear(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Class Handlers ---

// GetClasses handles GET /api/classes, used by the class filter
func (h *APIHandler) GetClasses(c *gin.Context) {
	classes, err := h.Repo.Classes.FetchAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views.SortClasses(classes))
}

// GetClassesByYear handles GET /api/years/:id/classes
func (h *APIHandler) GetClassesByYear(c *gin.Context) {
	classes, err := h.Repo.ClassesByYear(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views.SortClasses(classes))
}

// AddClass handles POST /api/years/:id/classes
func (h *APIHandler) AddClass(c *gin.Context) {
	var class models.ClassLevel
	if err := c.ShouldBindJSON(&class); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	class.YearLevelID = c.Param("id")
	if err := h.validate.Struct(&class); err != nil {
		h.respondError(c, err)
		return
	}
	created, err := h.Repo.AddClass(c.Request.Context(), class.YearLevelID, class.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DeleteClass handles DELETE /api/classes/:id
func (h *APIHandler) DeleteClass(c *gin.Context) {
	if err := h.Repo.DeleteClass(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Student Handlers ---

// GetStudentsByClass handles GET /api/classes/:id/students
func (h *APIHandler) GetStudentsByClass(c *gin.Context) {
	students, err := h.Repo.StudentsByClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

// AddStudent handles POST /api/classes/:id/students
func (h *APIHandler) AddStudent(c *gin.Context) {
	var student models.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	student.ClassID = c.Param("id")
	if err := h.validate.Struct(&student); err != nil {
		h.respondError(c, err)
		return
	}
	created, err := h.Repo.AddStudent(c.Request.Context(), student.ClassID, student.FirstName, student.LastName)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DeleteStudent handles DELETE /api/students/:id. Records referring to the
// student are kept.
func (h *APIHandler) DeleteStudent(c *gin.Context) {
	if err := h.Repo.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Import Handler ---

// ImportStudents handles POST /api/import/students
func (h *APIHandler) ImportStudents(c *gin.Context) {
	classID := c.PostForm("classId")
	if classID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'classId' in form data"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error retrieving uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	h.log.Info("received student import", "file", header.Filename, "classId", classID)

	imported, err := h.Repo.ImportStudentsFromExcel(c.Request.Context(), file, classID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Import successful",
		"importedCount": imported,
		"classId":       classID,
	})
}
