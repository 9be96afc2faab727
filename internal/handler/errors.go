// internal/handler/errors.go
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"baniya/internal/domain"
	"baniya/internal/logger"
	val "baniya/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func statusOf(code domain.ErrorCode) int {
	switch code {
	case domain.CodeInvalidInput:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeUpstreamFailure:
		return http.StatusBadGateway
	case domain.CodeCatalogUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status. Internal errors are logged and hidden
// from the client.
func writeError(c *gin.Context, log *zap.Logger, op string, err error) {
	code := domain.CodeOf(err)
	status := statusOf(code)
	_ = c.Error(err)

	body := gin.H{"code": string(code)}
	var de *domain.Error
	if errors.As(err, &de) && code != domain.CodeInternal {
		body["error"] = de.Message
		if de.Field != "" {
			body["field"] = de.Field
		}
	} else {
		body["error"] = "Internal error"
	}

	reqLog := logger.FromContext(c.Request.Context(), log)
	if status >= http.StatusInternalServerError {
		reqLog.Error(op+" failed", zap.String("code", string(code)), zap.Error(err))
	} else {
		reqLog.Debug(op+" rejected", zap.String("code", string(code)), zap.Error(err))
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": string(domain.CodeInvalidInput)})
}

func validateStruct(v any) error {
	if err := val.Validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return domain.Invalid("", err.Error())
		}
		errs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			errs = append(errs, fieldErrorToString(e))
		}
		return domain.Invalid("", "invalid input: "+strings.Join(errs, "; "))
	}
	return nil
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", e.Field())
	case "platform":
		return fmt.Sprintf("%s is not a valid platform name", e.Field())
	case "category":
		return fmt.Sprintf("%s is not a known category", e.Field())
	case "max":
		return fmt.Sprintf("%s must have at most %s entries", e.Field(), e.Param())
	case "gte":
		return fmt.Sprintf("%s must not be negative", e.Field())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
