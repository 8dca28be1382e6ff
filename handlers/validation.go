package handlers

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"schoolrecords-server-go/models"
)

// newValidator returns a validator that knows the enum tags used on the
// models and reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("incident_category", func(fl validator.FieldLevel) bool {
		return models.IncidentCategory(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("incident_status", func(fl validator.FieldLevel) bool {
		return models.IncidentStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("conversation_type", func(fl validator.FieldLevel) bool {
		return models.ConversationType(fl.Field().String()).Valid()
	})
	return v
}
