package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report errors under the json field name, not the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// bindAndValidate decodes the JSON body into dst and validates it. Malformed
// JSON gets 400, failed validation gets 422 with per-field messages. Returns
// false when a response has already been written.
func bindAndValidate(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		failValidation(c, err)
		return false
	}
	return true
}

// failValidation writes a 422 with the field-level error shape
// {"errors": {"field": ["message"]}}.
func failValidation(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": validationMessages(err)})
}

// fieldErrors writes a 422 for errors detected outside the validator, e.g.
// referencing another user's project.
func fieldErrors(c *gin.Context, field, message string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": map[string][]string{field: {message}}})
}

func validationMessages(err error) map[string][]string {
	res := make(map[string][]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		res["_"] = []string{"invalid input"}
		return res
	}

	for _, fe := range verrs {
		res[fe.Field()] = append(res[fe.Field()], fieldMessage(fe))
	}
	return res
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("must be %s or more", fe.Param())
	case "lte":
		return fmt.Sprintf("must be %s or less", fe.Param())
	default:
		return "is invalid"
	}
}
