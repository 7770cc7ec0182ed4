package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mautops/survey-gin/internal/catalog"
	"github.com/mautops/survey-gin/internal/editor"
	"github.com/mautops/survey-gin/internal/model"
	"github.com/mautops/survey-gin/internal/service"
	"github.com/mautops/survey-gin/internal/store"
	"github.com/sirupsen/logrus"
)

// APIError API 错误
// Key 为国际化消息 key,响应时按请求语言翻译
type APIError struct {
	Code   int
	Key    string
	Detail string
}

func (e *APIError) Error() string {
	return e.Key
}

// ErrorHandlerMiddleware 错误处理中间件
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		writeError(c, c.Errors.Last().Err)
	}
}

// WrapError 包装错误
func WrapError(err error, code int, key string) *APIError {
	return &APIError{
		Code:   code,
		Key:    key,
		Detail: err.Error(),
	}
}

// abortWithError 记录错误并终止请求,由 ErrorHandlerMiddleware 输出响应
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// classify 将领域错误映射为 HTTP 状态码和消息 key
func classify(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	var vErr *model.ValidationError
	switch {
	case errors.As(err, &vErr):
		return &APIError{Code: http.StatusBadRequest, Key: vErr.Code, Detail: vErr.Message}
	case errors.Is(err, store.ErrConfirmationRequired):
		return &APIError{Code: http.StatusPreconditionRequired, Key: "error.confirmation_required"}
	case errors.Is(err, store.ErrScheduleNotFound):
		return &APIError{Code: http.StatusNotFound, Key: "error.schedule_not_found", Detail: err.Error()}
	case errors.Is(err, store.ErrBlockNotFound):
		return &APIError{Code: http.StatusNotFound, Key: "error.block_not_found", Detail: err.Error()}
	case errors.Is(err, catalog.ErrTemplateNotFound):
		return &APIError{Code: http.StatusNotFound, Key: "error.template_not_found", Detail: err.Error()}
	case errors.Is(err, service.ErrDraftNotFound):
		return &APIError{Code: http.StatusNotFound, Key: "error.draft_not_found", Detail: err.Error()}
	case errors.Is(err, service.ErrBackupNotFound):
		return &APIError{Code: http.StatusNotFound, Key: "error.backup_not_found", Detail: err.Error()}
	case errors.Is(err, service.ErrInvalidBackupName):
		return &APIError{Code: http.StatusBadRequest, Key: "error.invalid_backup_name", Detail: err.Error()}
	case errors.Is(err, editor.ErrInvalidTransition):
		return &APIError{Code: http.StatusConflict, Key: "error.invalid_transition", Detail: err.Error()}
	case errors.Is(err, editor.ErrOptionIndex):
		return &APIError{Code: http.StatusBadRequest, Key: "error.option_index", Detail: err.Error()}
	}
	return nil
}

// writeError 输出错误响应,未识别的错误按 500 处理并记录日志
func writeError(c *gin.Context, err error) {
	apiErr := classify(err)
	if apiErr == nil {
		GetLogger().WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"path":       c.Request.URL.Path,
		}).WithError(err).Error("request failed")
		apiErr = &APIError{Code: http.StatusInternalServerError, Key: "error.internal_error"}
	}

	c.JSON(apiErr.Code, ErrorResponse{
		Code:    apiErr.Code,
		Message: T(c, apiErr.Key),
		Key:     apiErr.Key,
		Detail:  apiErr.Detail,
	})
}
