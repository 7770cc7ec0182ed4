package api

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// I18nManager 国际化管理器
type I18nManager struct {
	messages map[string]map[string]string // lang -> key -> message
}

var defaultI18nManager *I18nManager

func init() {
	defaultI18nManager = NewI18nManager()
	// 加载默认语言资源
	defaultI18nManager.LoadMessages("en", map[string]string{
		"success.ok":                  "Success",
		"success.created":             "Created successfully",
		"success.updated":             "Updated successfully",
		"success.deleted":             "Deleted successfully",
		"error.not_found":             "Resource not found",
		"error.bad_request":           "Bad request",
		"error.internal_error":        "Internal server error",
		"error.too_many_requests":     "Too many requests",
		"error.confirmation_required": "This action cannot be undone, please confirm",
		"error.schedule_not_found":    "Schedule not found",
		"error.block_not_found":       "Block not found",
		"error.template_not_found":    "Template not found",
		"error.draft_not_found":       "Block draft not found or expired",
		"error.backup_not_found":      "Backup not found",
		"error.invalid_backup_name":   "Invalid backup filename",
		"error.invalid_transition":    "Operation not allowed at the current step",
		"error.option_index":          "Option index out of range",
		"schedule.name_year_required": "Please provide schedule name and year",
		"schedule.invalid_sector":     "Unknown sector",
		"schedule.invalid_id":         "Schedule ID is empty or duplicated",
		"block.name_required":         "Please provide block name",
		"block.template_required":     "Please select a template",
		"block.invalid_mode":          "Creation mode must be template or custom",
		"block.invalid_direction":     "Direction must be up or down",
		"block.invalid_id":            "Block ID is empty or duplicated",
		"item.id_name_required":       "Please provide Item ID and Item Name",
		"item.duplicate":              "Item ID already exists in this block",
		"item.invalid_json":           "Invalid JSON format for validation rules",
		"item.invalid_type":           "Unsupported field type",
		"input.empty_id":              "ID cannot be empty",
		"input.invalid_id":            "ID contains invalid characters",
		"input.id_too_long":           "ID is too long",
		"input.text_too_long":         "Text is too long",
		"input.dangerous_chars":       "Text contains forbidden content",
	})
	// 加载中文语言资源
	defaultI18nManager.LoadMessages("zh", map[string]string{
		"success.ok":                  "成功",
		"success.created":             "创建成功",
		"success.updated":             "更新成功",
		"success.deleted":             "删除成功",
		"error.not_found":             "资源未找到",
		"error.bad_request":           "请求错误",
		"error.internal_error":        "服务器内部错误",
		"error.too_many_requests":     "请求过于频繁",
		"error.confirmation_required": "该操作无法撤销,请确认",
		"error.schedule_not_found":    "调查计划不存在",
		"error.block_not_found":       "区块不存在",
		"error.template_not_found":    "模板不存在",
		"error.draft_not_found":       "区块草稿不存在或已过期",
		"error.backup_not_found":      "备份不存在",
		"error.invalid_backup_name":   "备份文件名不合法",
		"error.invalid_transition":    "当前步骤不允许该操作",
		"error.option_index":          "选项序号超出范围",
		"schedule.name_year_required": "请填写调查计划名称和年份",
		"schedule.invalid_sector":     "未知行业",
		"schedule.invalid_id":         "调查计划 ID 为空或重复",
		"block.name_required":         "请填写区块名称",
		"block.template_required":     "请选择模板",
		"block.invalid_mode":          "创建方式必须为模板或自定义",
		"block.invalid_direction":     "移动方向必须为上或下",
		"block.invalid_id":            "区块 ID 为空或重复",
		"item.id_name_required":       "请填写条目 ID 和条目名称",
		"item.duplicate":              "该区块中已存在相同的条目 ID",
		"item.invalid_json":           "校验规则不是合法的 JSON",
		"item.invalid_type":           "不支持的字段类型",
		"input.empty_id":              "ID 不能为空",
		"input.invalid_id":            "ID 包含非法字符",
		"input.id_too_long":           "ID 过长",
		"input.text_too_long":         "文本过长",
		"input.dangerous_chars":       "文本包含非法内容",
	})
}

// NewI18nManager 创建国际化管理器
func NewI18nManager() *I18nManager {
	return &I18nManager{
		messages: make(map[string]map[string]string),
	}
}

// LoadMessages 加载语言消息
func (m *I18nManager) LoadMessages(lang string, messages map[string]string) {
	m.messages[lang] = messages
}

// Translate 翻译消息
func (m *I18nManager) Translate(lang, key string) string {
	if messages, ok := m.messages[lang]; ok {
		if message, ok := messages[key]; ok {
			return message
		}
	}
	// 如果找不到翻译，尝试使用英文
	if lang != "en" {
		if messages, ok := m.messages["en"]; ok {
			if message, ok := messages[key]; ok {
				return message
			}
		}
	}
	// 如果还是找不到，返回 key
	return key
}

// I18nMiddleware 国际化中间件
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := "en" // 默认语言

		// 方式 1: 从查询参数获取语言
		if queryLang := c.Query("lang"); queryLang != "" {
			lang = normalizeLanguage(queryLang)
		} else if headerLang := c.GetHeader("Accept-Language"); headerLang != "" {
			// 方式 2: 从 Accept-Language 头获取语言
			lang = parseAcceptLanguage(headerLang)
		}

		// 将语言信息存储到上下文
		c.Set("language", lang)

		c.Next()
	}
}

// GetLanguage 从上下文获取语言
func GetLanguage(c *gin.Context) string {
	if lang, exists := c.Get("language"); exists {
		if l, ok := lang.(string); ok {
			return l
		}
	}
	return "en" // 默认语言
}

// T 翻译消息（使用默认管理器）
func T(c *gin.Context, key string) string {
	lang := GetLanguage(c)
	return defaultI18nManager.Translate(lang, key)
}

// normalizeLanguage 规范化语言代码
func normalizeLanguage(lang string) string {
	lang = strings.ToLower(lang)
	// 支持的语言代码映射
	langMap := map[string]string{
		"zh-cn": "zh",
		"zh-tw": "zh",
		"zh-hk": "zh",
		"en-us": "en",
		"en-gb": "en",
	}
	if normalized, ok := langMap[lang]; ok {
		return normalized
	}
	// 如果语言代码以 zh 开头，返回 zh
	if strings.HasPrefix(lang, "zh") {
		return "zh"
	}
	// 如果语言代码以 en 开头，返回 en
	if strings.HasPrefix(lang, "en") {
		return "en"
	}
	return lang
}

// parseAcceptLanguage 解析 Accept-Language 头
func parseAcceptLanguage(header string) string {
	// 解析 Accept-Language: zh-CN,zh;q=0.9,en;q=0.8
	parts := strings.Split(header, ",")
	if len(parts) > 0 {
		// 取第一个语言代码
		lang := strings.TrimSpace(parts[0])
		// 移除质量值（如果有）
		if idx := strings.Index(lang, ";"); idx != -1 {
			lang = lang[:idx]
		}
		return normalizeLanguage(lang)
	}
	return "en"
}

