// Package editor 实现区块创建流程的草稿状态机和数据项编辑器
//
// 草稿不是并发安全的,调用方需要自行加锁。
package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mautops/survey-gin/internal/model"
)

// Stage 区块创建流程阶段
type Stage string

const (
	StageNotStarted          Stage = "not_started"
	StageConfiguringMetadata Stage = "configuring_metadata"
	StageChoosingMethod      Stage = "choosing_method"
	StageSelectingTemplate   Stage = "selecting_template"
	StageAddingItems         Stage = "adding_items"
	StageSaved               Stage = "saved"
)

var (
	// ErrInvalidTransition 当前阶段不允许该操作
	ErrInvalidTransition = errors.New("operation not allowed in current stage")
	// ErrOptionIndex 选项下标越界
	ErrOptionIndex = errors.New("option index out of range")
)

// ItemForm 数据项表单的基础属性
type ItemForm struct {
	ItemID     string          `json:"item_id"`
	ItemName   string          `json:"item_name"`
	DataType   model.FieldType `json:"data_type"`
	MaxLength  int             `json:"max_length"`
	IsRequired bool            `json:"is_required"`
}

// ItemDraft 正在编辑的数据项
type ItemDraft struct {
	ItemForm
	ValidationRules map[string]interface{} `json:"validation_rules"`
	Options         []string               `json:"options"`
}

func newItemDraft() ItemDraft {
	return ItemDraft{
		ItemForm:        ItemForm{DataType: model.FieldTypeText},
		ValidationRules: make(map[string]interface{}),
		Options:         []string{},
	}
}

// Draft 单个区块的草稿
type Draft struct {
	ID         string             `json:"id"`
	ScheduleID string             `json:"schedule_id"`
	BlockID    string             `json:"block_id,omitempty"` // 编辑已有区块时非空
	Stage      Stage              `json:"stage"`
	Metadata   model.BlockDraft   `json:"metadata"`
	Mode       model.CreationMode `json:"mode,omitempty"`
	TemplateID string             `json:"template_id,omitempty"`
	Item       ItemDraft          `json:"item"`
}

// New 为新区块创建草稿,进入元数据配置阶段
func New(id, scheduleID string) *Draft {
	return &Draft{
		ID:         id,
		ScheduleID: scheduleID,
		Stage:      StageConfiguringMetadata,
		Metadata:   model.BlockDraft{Fields: []model.Field{}},
		Item:       newItemDraft(),
	}
}

// FromBlock 基于已有区块创建编辑草稿,字段可直接增删
func FromBlock(id, scheduleID string, block model.Block) *Draft {
	b := block.Clone()
	return &Draft{
		ID:         id,
		ScheduleID: scheduleID,
		BlockID:    b.ID,
		Stage:      StageAddingItems,
		Metadata: model.BlockDraft{
			Name:        b.Name,
			Description: b.Description,
			Fields:      b.Fields,
			Completed:   b.Completed,
			IsGrid:      b.IsGrid,
		},
		Mode: model.CreationModeCustom,
		Item: newItemDraft(),
	}
}

// IsEdit 是否为编辑已有区块
func (d *Draft) IsEdit() bool {
	return d.BlockID != ""
}

func (d *Draft) ensureOpen() error {
	if d.Stage == StageSaved || d.Stage == StageNotStarted {
		return fmt.Errorf("%w: %s", ErrInvalidTransition, d.Stage)
	}
	return nil
}

func (d *Draft) ensureAddingItems() error {
	if err := d.ensureOpen(); err != nil {
		return err
	}
	if d.Stage != StageAddingItems {
		return fmt.Errorf("%w: items can only be edited in custom mode, stage is %s", ErrInvalidTransition, d.Stage)
	}
	return nil
}

// SetMetadata 设置区块名称、描述等元数据,字段列表不受影响
func (d *Draft) SetMetadata(name, description string, completed, isGrid bool) error {
	if err := d.ensureOpen(); err != nil {
		return err
	}
	d.Metadata.Name = name
	d.Metadata.Description = description
	d.Metadata.Completed = completed
	d.Metadata.IsGrid = isGrid
	if d.Stage == StageConfiguringMetadata {
		d.Stage = StageChoosingMethod
	}
	return nil
}

// ChooseMethod 选择创建方式,保存前可随时切换
func (d *Draft) ChooseMethod(mode model.CreationMode) error {
	if err := d.ensureOpen(); err != nil {
		return err
	}
	if !mode.IsValid() {
		return model.ErrInvalidCreationMode
	}
	if d.IsEdit() && mode == model.CreationModeTemplate {
		return fmt.Errorf("%w: existing blocks cannot be re-seeded from a template", ErrInvalidTransition)
	}
	d.Mode = mode
	switch mode {
	case model.CreationModeTemplate:
		d.Stage = StageSelectingTemplate
	case model.CreationModeCustom:
		d.TemplateID = ""
		d.Stage = StageAddingItems
	}
	return nil
}

// SelectTemplate 记录所选模板,模板条目在保存时才生成字段
func (d *Draft) SelectTemplate(templateID string) error {
	if err := d.ensureOpen(); err != nil {
		return err
	}
	if d.Stage != StageSelectingTemplate {
		return fmt.Errorf("%w: choose template mode first", ErrInvalidTransition)
	}
	d.TemplateID = strings.TrimSpace(templateID)
	return nil
}

// SetItem 更新当前数据项的基础属性,保留已录入的规则和选项
func (d *Draft) SetItem(form ItemForm) error {
	if err := d.ensureAddingItems(); err != nil {
		return err
	}
	if form.DataType == "" {
		form.DataType = model.FieldTypeText
	}
	if !form.DataType.IsValid() {
		return model.ErrInvalidFieldType
	}
	d.Item.ItemForm = form
	return nil
}

// AddValidationRule 解析 JSON 并合并到当前数据项的校验规则
// 解析失败时规则保持不变,同名 key 后者覆盖前者
func (d *Draft) AddValidationRule(jsonText string) error {
	if err := d.ensureAddingItems(); err != nil {
		return err
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return model.ErrInvalidRuleJSON
	}
	if d.Item.ValidationRules == nil {
		d.Item.ValidationRules = make(map[string]interface{}, len(parsed))
	}
	for k, v := range parsed {
		d.Item.ValidationRules[k] = v
	}
	return nil
}

// RemoveValidationRule 删除一条校验规则
func (d *Draft) RemoveValidationRule(key string) error {
	if err := d.ensureAddingItems(); err != nil {
		return err
	}
	delete(d.Item.ValidationRules, key)
	return nil
}

// AddOption 为 select/radio 数据项添加选项,空白选项忽略
func (d *Draft) AddOption(option string) error {
	if err := d.ensureAddingItems(); err != nil {
		return err
	}
	option = strings.TrimSpace(option)
	if option == "" {
		return nil
	}
	d.Item.Options = append(d.Item.Options, option)
	return nil
}

// RemoveOption 按下标删除选项
func (d *Draft) RemoveOption(index int) error {
	if err := d.ensureAddingItems(); err != nil {
		return err
	}
	if index < 0 || index >= len(d.Item.Options) {
		return fmt.Errorf("%w: %d", ErrOptionIndex, index)
	}
	opts := make([]string, 0, len(d.Item.Options)-1)
	opts = append(opts, d.Item.Options[:index]...)
	d.Item.Options = append(opts, d.Item.Options[index+1:]...)
	return nil
}

// AddItem 将当前数据项追加为字段并重置数据项表单
// 只检查草稿内已有字段的 ID,不检查模板内部条目
func (d *Draft) AddItem() (model.Field, error) {
	if err := d.ensureAddingItems(); err != nil {
		return model.Field{}, err
	}
	item := d.Item
	if strings.TrimSpace(item.ItemID) == "" || strings.TrimSpace(item.ItemName) == "" {
		return model.Field{}, model.ErrItemIDAndName
	}
	for _, f := range d.Metadata.Fields {
		if f.ID == item.ItemID {
			return model.Field{}, model.ErrDuplicateItem
		}
	}

	validation, err := model.EncodeRules(item.ValidationRules)
	if err != nil {
		return model.Field{}, err
	}
	field := model.Field{
		ID:         item.ItemID,
		Label:      item.ItemName,
		Type:       item.DataType,
		Value:      "",
		Required:   item.IsRequired,
		Validation: validation,
		MaxLength:  item.MaxLength,
	}
	if item.DataType.HasOptions() {
		field.Options = append([]string(nil), item.Options...)
	}

	d.Metadata.Fields = append(d.Metadata.Fields, field)
	d.Item = newItemDraft()
	return field, nil
}

// RemoveItem 删除字段,无需确认,返回是否删除
func (d *Draft) RemoveItem(id string) (bool, error) {
	if err := d.ensureAddingItems(); err != nil {
		return false, err
	}
	fields := make([]model.Field, 0, len(d.Metadata.Fields))
	removed := false
	for _, f := range d.Metadata.Fields {
		if f.ID == id {
			removed = true
			continue
		}
		fields = append(fields, f)
	}
	d.Metadata.Fields = fields
	return removed, nil
}

// Fields 返回草稿中的字段副本
func (d *Draft) Fields() []model.Field {
	out := make([]model.Field, len(d.Metadata.Fields))
	for i, f := range d.Metadata.Fields {
		out[i] = f.Clone()
	}
	return out
}

// Ready 检查草稿是否可以保存
func (d *Draft) Ready() error {
	if err := d.ensureOpen(); err != nil {
		return err
	}
	if err := d.Metadata.Validate(); err != nil {
		return err
	}
	switch d.Stage {
	case StageSelectingTemplate:
		if d.TemplateID == "" {
			return model.ErrTemplateRequired
		}
	case StageAddingItems:
	default:
		return fmt.Errorf("%w: choose a creation method first", ErrInvalidTransition)
	}
	return nil
}

// MarkSaved 标记草稿已保存,之后不可再修改
func (d *Draft) MarkSaved() {
	d.Stage = StageSaved
}

// Clone 深拷贝草稿
func (d *Draft) Clone() *Draft {
	c := *d
	c.Metadata.Fields = d.Fields()
	c.Item.Options = append([]string{}, d.Item.Options...)
	c.Item.ValidationRules = make(map[string]interface{}, len(d.Item.ValidationRules))
	for k, v := range d.Item.ValidationRules {
		c.Item.ValidationRules[k] = v
	}
	return &c
}
