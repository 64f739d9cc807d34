package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lensfolio/internal/domain"
	"github.com/lensfolio/internal/repository"
	"go.uber.org/zap"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// respondItem writes the value of res under "item", or its error.
func respondItem[T any](a *API, c *gin.Context, status int, res domain.Result[T]) {
	if res.IsFailure() {
		a.respondDomainError(c, res.Err())
		return
	}
	c.JSON(status, gin.H{"item": res.Value()})
}

// respondItems writes the value of res under "items", or its error.
func respondItems[T any](a *API, c *gin.Context, res domain.Result[[]T]) {
	if res.IsFailure() {
		a.respondDomainError(c, res.Err())
		return
	}
	items := res.Value()
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func statusForError(err *domain.Error) int {
	switch err.Kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindFileUpload:
		if errors.Is(err, repository.ErrFileTooLarge) {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondDomainError maps a repository error onto a JSON response. Store
// failures are logged and reported without their cause.
func (a *API) respondDomainError(c *gin.Context, err *domain.Error) {
	if err == nil {
		respondError(c, http.StatusInternalServerError, "未知错误")
		return
	}

	status := statusForError(err)
	body := gin.H{"error": err.Message, "kind": err.Kind}
	if status >= http.StatusInternalServerError {
		a.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("kind", string(err.Kind)),
			zap.Error(err),
		)
		body["error"] = "服务暂时不可用，请稍后重试"
	}
	if err.Field != "" {
		body["field"] = err.Field
	}
	if len(err.Fields) > 0 {
		body["fields"] = err.Fields
	}
	if outcome := outcomeView(err.Detail); outcome != nil {
		body["outcome"] = outcome
	}
	c.JSON(status, body)
}

func outcomeView(detail any) gin.H {
	switch d := detail.(type) {
	case domain.BatchOutcome:
		return gin.H{"deleted": nonNil(d.Deleted), "failed": failureMessages(d.Failed)}
	case domain.ReorderOutcome:
		return gin.H{"updated": nonNil(d.Updated), "failed": failureMessages(d.Failed)}
	}
	return nil
}

func failureMessages(failed map[string]*domain.Error) map[string]string {
	out := make(map[string]string, len(failed))
	for id, err := range failed {
		out[id] = err.Message
	}
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// parseListOptions reads orderBy, desc, limit, offset, dateFrom and dateTo.
// Dates are RFC 3339.
func parseListOptions(c *gin.Context) (domain.ListOptions, error) {
	opts := domain.ListOptions{OrderBy: strings.TrimSpace(c.Query("orderBy"))}

	desc, err := parseOptionalBool(c.Query("desc"))
	if err != nil {
		return opts, fmt.Errorf("invalid desc")
	}
	opts.Descending = desc != nil && *desc

	if opts.Limit, err = parseNonNegativeInt(c.Query("limit")); err != nil {
		return opts, fmt.Errorf("invalid limit")
	}
	if opts.Offset, err = parseNonNegativeInt(c.Query("offset")); err != nil {
		return opts, fmt.Errorf("invalid offset")
	}
	if opts.DateFrom, err = parseOptionalTime(c.Query("dateFrom")); err != nil {
		return opts, fmt.Errorf("invalid dateFrom")
	}
	if opts.DateTo, err = parseOptionalTime(c.Query("dateTo")); err != nil {
		return opts, fmt.Errorf("invalid dateTo")
	}
	return opts, nil
}

func parseNonNegativeInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	return value, nil
}

func parseOptionalBool(raw string) (*bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func parseOptionalInt(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func parseOptionalTime(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func optionalString(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}
