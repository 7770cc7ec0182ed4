package model

import "strings"

// Sector 行业
type Sector string

const (
	SectorAll           Sector = ""
	SectorManufacturing Sector = "Manufacturing"
	SectorServices      Sector = "Services"
	SectorConstruction  Sector = "Construction"
	SectorTrade         Sector = "Trade"
	SectorTransport     Sector = "Transport"
)

// Sectors 可选行业,空值表示全部行业
var Sectors = []Sector{
	SectorAll,
	SectorManufacturing,
	SectorServices,
	SectorConstruction,
	SectorTrade,
	SectorTransport,
}

// IsValid 判断行业是否合法
func (s Sector) IsValid() bool {
	for _, v := range Sectors {
		if v == s {
			return true
		}
	}
	return false
}

// Schedule 调查计划
type Schedule struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description"`
	Sector      Sector    `json:"sector,omitempty" yaml:"sector"`
	Year        string    `json:"year" yaml:"year"`
	IsActive    bool      `json:"is_active" yaml:"is_active"`
	Blocks      BlockList `json:"blocks" yaml:"blocks"`
}

// Clone 深拷贝调查计划
func (s *Schedule) Clone() *Schedule {
	if s == nil {
		return nil
	}
	out := *s
	out.Blocks = s.Blocks.Clone()
	return &out
}

// Matches 名称、描述或行业包含关键字(调用方负责大小写折叠)
func (s *Schedule) Matches(folded func(string) string, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(folded(s.Name), term) ||
		strings.Contains(folded(s.Description), term) ||
		strings.Contains(folded(string(s.Sector)), term)
}

// ScheduleDraft 创建或编辑调查计划时提交的表单
type ScheduleDraft struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Sector      Sector `json:"sector"`
	Year        string `json:"year"`
	IsActive    bool   `json:"is_active"`
}

// Validate 名称与年份为必填项
func (d ScheduleDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.Year) == "" {
		return ErrNameAndYearRequired
	}
	if !d.Sector.IsValid() {
		return ErrInvalidSector
	}
	return nil
}

// BlockDraft 创建或编辑区块时提交的元数据
type BlockDraft struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Fields      []Field `json:"fields"`
	Completed   bool    `json:"completed"`
	IsGrid      bool    `json:"is_grid"`
}

// Validate 区块名称为必填项
func (d BlockDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrBlockNameRequired
	}
	return nil
}

// CreationMode 区块创建方式
type CreationMode string

const (
	CreationModeTemplate CreationMode = "template"
	CreationModeCustom   CreationMode = "custom"
)

// IsValid 判断创建方式是否合法
func (m CreationMode) IsValid() bool {
	return m == CreationModeTemplate || m == CreationModeCustom
}
