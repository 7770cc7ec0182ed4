package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mautops/survey-gin/internal/model"
)

// 名称和描述的最大长度(按字符计)
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
)

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateID 验证路径参数中的 ID 格式
// 调查计划、区块、草稿、模板 ID 都只允许字母、数字、连字符、下划线
func ValidateID(id string) error {
	// 1. 检查是否为空
	if id == "" {
		return ErrEmptyID
	}

	// 2. 检查长度（最大 64 字符）
	if len(id) > 64 {
		return ErrIDTooLong
	}

	// 3. 检查格式
	if !idPattern.MatchString(id) {
		return ErrInvalidIDFormat
	}

	return nil
}

// ValidateText 验证名称、描述等自由文本,空字符串合法
func ValidateText(s string, maxLen int) error {
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		return ErrTextTooLong
	}
	if containsDangerousChars(s) {
		return ErrDangerousChars
	}
	for _, r := range s {
		if unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r' {
			return ErrDangerousChars
		}
	}
	return nil
}

// containsDangerousChars 检查字符串是否包含危险字符
func containsDangerousChars(s string) bool {
	// 检查常见的 XSS 模式
	dangerousPatterns := []string{
		"<script",
		"</script>",
		"javascript:",
		"onerror=",
		"onload=",
		"<iframe",
		"<img",
		"<svg",
	}

	lower := strings.ToLower(s)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}

	return false
}

// 错误定义,Code 作为国际化消息 key
var (
	ErrEmptyID         = &model.ValidationError{Code: "input.empty_id", Message: "id cannot be empty"}
	ErrInvalidIDFormat = &model.ValidationError{Code: "input.invalid_id", Message: "id contains invalid characters"}
	ErrIDTooLong       = &model.ValidationError{Code: "input.id_too_long", Message: "id exceeds maximum length"}
	ErrTextTooLong     = &model.ValidationError{Code: "input.text_too_long", Message: "text exceeds maximum length"}
	ErrDangerousChars  = &model.ValidationError{Code: "input.dangerous_chars", Message: "text contains dangerous characters"}
)
