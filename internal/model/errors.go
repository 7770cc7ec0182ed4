package model

// ValidationError 用户可修正的输入错误
// Code 同时作为国际化消息的 key
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// 错误定义
var (
	ErrNameAndYearRequired = &ValidationError{Code: "schedule.name_year_required", Message: "please provide schedule name and year"}
	ErrInvalidSector       = &ValidationError{Code: "schedule.invalid_sector", Message: "unknown sector"}
	ErrBlockNameRequired   = &ValidationError{Code: "block.name_required", Message: "please provide block name"}
	ErrTemplateRequired    = &ValidationError{Code: "block.template_required", Message: "please select a template"}
	ErrInvalidCreationMode = &ValidationError{Code: "block.invalid_mode", Message: "creation mode must be template or custom"}
	ErrInvalidDirection    = &ValidationError{Code: "block.invalid_direction", Message: "direction must be up or down"}
	ErrItemIDAndName       = &ValidationError{Code: "item.id_name_required", Message: "please provide item id and item name"}
	ErrDuplicateItem       = &ValidationError{Code: "item.duplicate", Message: "item id already exists in this block"}
	ErrInvalidRuleJSON     = &ValidationError{Code: "item.invalid_json", Message: "invalid JSON format for validation rule"}
	ErrInvalidFieldType    = &ValidationError{Code: "item.invalid_type", Message: "unsupported field type"}
	ErrInvalidScheduleID   = &ValidationError{Code: "schedule.invalid_id", Message: "schedule id is empty or duplicated"}
	ErrInvalidBlockID      = &ValidationError{Code: "block.invalid_id", Message: "block id is empty or duplicated"}
)
