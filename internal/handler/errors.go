package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"

	"usermanager/internal/service"
	"usermanager/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const detailInvalidPayload = "Invalid request payload"

func init() {
	// Report request field names as clients send them, not as Go struct fields.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	}
}

// bindError answers a failed ShouldBind*: 422 with field details for validation
// failures, 400 for anything that could not be decoded at all.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]response.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, response.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		c.JSON(http.StatusUnprocessableEntity, response.Validation(fields))
		return
	}
	c.JSON(http.StatusBadRequest, response.Error(detailInvalidPayload))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "excludes":
		return fmt.Sprintf("must not contain '%s'", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

// serviceError maps a service error to a response. verb completes the generic
// 500 message ("creating", "updating", ...); the cause is only logged.
func serviceError(c *gin.Context, err error, verb string) {
	var fieldErr *service.FieldError
	switch {
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusUnprocessableEntity, response.Validation([]response.FieldError{
			{Field: fieldErr.Field, Message: fieldErr.Message},
		}))
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, response.Error("User not found"))
	case errors.Is(err, service.ErrRoleNotFound):
		c.JSON(http.StatusNotFound, response.Error("User role not found"))
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusConflict, response.Error("User already exists"))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, response.Error("Incorrect username or password"))
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, response.Error("An error occurred while "+verb+" the user"))
	}
}
