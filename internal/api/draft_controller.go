package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mautops/survey-gin/internal/editor"
	"github.com/mautops/survey-gin/internal/model"
	"github.com/mautops/survey-gin/internal/service"
	"github.com/mautops/survey-gin/internal/utils"
)

// DraftController 区块草稿控制器
// 对应区块创建流程:元数据 -> 创建方式 -> 选择模板或逐项添加字段 -> 保存
type DraftController struct {
	draftService    service.DraftService
	templateService service.TemplateService
}

// NewDraftController 创建区块草稿控制器
func NewDraftController(draftService service.DraftService, templateService service.TemplateService) *DraftController {
	return &DraftController{
		draftService:    draftService,
		templateService: templateService,
	}
}

// MetadataRequest 区块元数据
type MetadataRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	IsGrid      bool   `json:"is_grid"`
}

// MethodRequest 创建方式
type MethodRequest struct {
	Mode       model.CreationMode `json:"mode"`
	TemplateID string             `json:"template_id"`
}

// RuleRequest 校验规则,Rule 为 JSON 文本
type RuleRequest struct {
	Rule string `json:"rule"`
}

// OptionRequest 选项
type OptionRequest struct {
	Option string `json:"option"`
}

// Open 为调查计划新建区块草稿
// @Summary      新建区块草稿
// @Description  为调查计划打开新的区块创建流程
// @Tags         区块草稿
// @Accept       json
// @Produce      json
// @Param        id path string true "调查计划 ID"
// @Success      201  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /schedules/{id}/drafts [post]
func (c *DraftController) Open(ctx *gin.Context) {
	scheduleID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	draft, err := c.draftService.Open(scheduleID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	Created(ctx, draft)
}

// OpenForBlock 基于已有区块创建编辑草稿
// @Summary      编辑区块草稿
// @Description  基于已有区块打开编辑流程
// @Tags         区块草稿
// @Accept       json
// @Produce      json
// @Param        id path string true "调查计划 ID"
// @Param        blockId path string true "区块 ID"
// @Success      201  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /schedules/{id}/blocks/{blockId}/drafts [post]
func (c *DraftController) OpenForBlock(ctx *gin.Context) {
	scheduleID, blockID, ok := blockPath(ctx)
	if !ok {
		return
	}

	draft, err := c.draftService.OpenForBlock(scheduleID, blockID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	Created(ctx, draft)
}

// Get 获取草稿
// @Summary      获取草稿
// @Description  获取草稿当前状态
// @Tags         区块草稿
// @Accept       json
// @Produce      json
// @Param        draftId path string true "草稿 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /drafts/{draftId} [get]
func (c *DraftController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "draftId")
	if !ok {
		return
	}

	draft, err := c.draftService.Get(id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	Success(ctx, draft)
}

// Discard 放弃草稿
// @Summary      放弃草稿
// @Description  丢弃草稿,不影响调查计划
// @Tags         区块草稿
// @Accept       json
// @Produce      json
// @Param        draftId path string true "草稿 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /drafts/{draftId} [delete]
func (c *DraftController) Discard(ctx *gin.Context) {
	id, ok := pathID(ctx, "draftId")
	if !ok {
		return
	}

	if err := c.draftService.Discard(id); err != nil {
		abortWithError(ctx, err)
		return
	}
	Success(ctx, nil)
}

// SetMetadata 设置区块名称、描述等元数据
// @Summary      设置区块元数据
// @Description  设置名称、描述、完成状态和网格布局
// @Tags         区块草稿
// @Accept       json
// @Produce      json
// @Param        draftId path string true "草稿 ID"
// @Param        request body MetadataRequest true "请求体"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /drafts/{draftId}/metadata [put]
func (c *DraftController) SetMetadata(ctx *gin.Context) {
	var req MetadataRequest
	c.apply(ctx, &req, func(d *editor.Draft) error {
		if err := validateTexts(req.Name, req.Description); err != nil {
			return err
		}
		return d.SetMetadata(req.Name, req.Description, req.Completed, req.IsGrid)
	})
}

// ChooseMethod 选择创建方式,模板方式可同时指定模板
// @Summary      选择创建方式
// @Description  mode 为 template 或 custom,模板方式可同时指定 template_id
// @Tags         区块草稿
// @Accept       json
// @Produce      json
// @Param        draftId path string true "草稿 ID"
// @Param        request body MethodRequest true "请求体"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /drafts/{draftId}/method [put]
func (c *DraftController) ChooseMethod(ctx *gin.Context) {
	var req MethodRequest
	c.apply(ctx, &req, func(d *editor.Draft) error {
		if err := d.ChooseMethod(req.Mode); err != nil {
			return err
		}
		if req.Mode != model.CreationModeTemplate || req.TemplateID == "" {
			return nil
		}
		if _, err := c.templateService.Get(req.TemplateID); err != nil {
			return err
		}
		return d.SelectTemplate(req.TemplateID)
	})
}

// SetItem 更新当前数据项的基础属性
// @Summary      设置当前数据项
// @Description  更新数据项基础属性,保留已录入的规则和选项
// @Tags         区块草稿
// @Accept       json
// @Produce      json
// @Param        draftId path string true "草稿 ID"
// @Param        request body editor.ItemForm true "请求体"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /drafts/{draftId}/item [put]
func (c *DraftController) SetItem(ctx *gin.Context) {
	var req editor.ItemForm
	c.apply(ctx, &req, func(d *editor.Draft) error {
		// 字段 ID 之后会出现在删除路径中
		if req.ItemID != "" {
			if err := utils.ValidateID(req.ItemID); err != nil {
				return err
			}
		}
		if err := utils.ValidateText(req.ItemName, utils.MaxNameLength); err != nil {
			return err
		}
		return d.SetItem(req)
	})
}

// AddRule 合并一条 JSON 校验规则,解析失败时规则保持不变
// @Summary      添加校验规则
// @Description  rule 为 JSON 对象文本,合并到现有规则,解析失败时规则不变
// @Tags         区块草稿
// @Accept       json
// @Produce      json
// @Param        draftId path string true "草稿 ID"
// @Param        request body RuleRequest true "请求体"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /drafts/{draftId}/item/rules [post]
func (c *DraftController) AddRule(ctx *gin.Context) {
	var req RuleRequest
	c.apply(ctx, &req, func(d *editor.Draft) error {
		return d.AddValidationRule(req.Rule)
	})
}

// RemoveRule 删除一条校验规则
// @Summary      删除校验规则
// @Description  按 key 删除一条校验规则
// @Tags         区块草稿
// @Accept       json
// @Produce      json
// @Param        draftId path string true "草稿 ID"
// @Param        key path string true "规则名"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /drafts/{draftId}/item/rules/{key} [delete]
func (c *DraftController) RemoveRule(ctx *gin.Context) {
	key := ctx.Param("key")
	c.apply(ctx, nil, func(d *editor.Draft) error {
		return d.RemoveValidationRule(key)
	})
}

// AddOption 添加选项
// @Summary      添加选项
// @Description  为 select/radio 数据项添加选项,空白选项忽略
// @Tags         区块草稿
// @Accept       json
// @Produce      json
// @Param        draftId path string true "草稿 ID"
// @Param        request body OptionRequest true "请求体"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /drafts/{draftId}/item/options [post]
func (c *DraftController) AddOption(ctx *gin.Context) {
	var req OptionRequest
	c.apply(ctx, &req, func(d *editor.Draft) error {
		if err := utils.ValidateText(req.Option, utils.MaxNameLength); err != nil {
			return err
		}
		return d.AddOption(req.Option)
	})
}

// RemoveOption 按下标删除选项
// @Summary      删除选项
// @Description  按下标删除选项
// @Tags         区块草稿
// @Accept       json
// @Produce      json
// @Param        draftId path string true "草稿 ID"
// @Param        index path int true "选项下标"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /drafts/{draftId}/item/options/{index} [delete]
func (c *DraftController) RemoveOption(ctx *gin.Context) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		abortWithError(ctx, WrapError(err, http.StatusBadRequest, "error.option_index"))
		return
	}
	c.apply(ctx, nil, func(d *editor.Draft) error {
		return d.RemoveOption(index)
	})
}

// AddItem 将当前数据项追加为字段
// @Summary      添加数据项
// @Description  将当前数据项追加为字段,ID 在草稿内必须唯一
// @Tags         区块草稿
// @Accept       json
// @Produce      json
// @Param        draftId path string true "草稿 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /drafts/{draftId}/items [post]
func (c *DraftController) AddItem(ctx *gin.Context) {
	c.apply(ctx, nil, func(d *editor.Draft) error {
		_, err := d.AddItem()
		return err
	})
}

// RemoveItem 删除字段,无需确认
// @Summary      删除数据项
// @Description  删除字段,无需确认
// @Tags         区块草稿
// @Accept       json
// @Produce      json
// @Param        draftId path string true "草稿 ID"
// @Param        itemId path string true "字段 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /drafts/{draftId}/items/{itemId} [delete]
func (c *DraftController) RemoveItem(ctx *gin.Context) {
	itemID := ctx.Param("itemId")
	c.apply(ctx, nil, func(d *editor.Draft) error {
		_, err := d.RemoveItem(itemID)
		return err
	})
}

// Commit 保存草稿为区块
// @Summary      保存草稿
// @Description  将草稿保存为区块,新建时追加到末尾,编辑时原位替换
// @Tags         区块草稿
// @Accept       json
// @Produce      json
// @Param        draftId path string true "草稿 ID"
// @Success      201  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /drafts/{draftId}/commit [post]
func (c *DraftController) Commit(ctx *gin.Context) {
	id, ok := pathID(ctx, "draftId")
	if !ok {
		return
	}

	block, err := c.draftService.Commit(ctx.Request.Context(), id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	Created(ctx, block)
}

// apply 解析请求体(req 为 nil 时跳过)并在草稿上执行编辑,返回最新草稿
func (c *DraftController) apply(ctx *gin.Context, req interface{}, fn func(d *editor.Draft) error) {
	id, ok := pathID(ctx, "draftId")
	if !ok {
		return
	}
	if req != nil && !bindJSON(ctx, req) {
		return
	}

	draft, err := c.draftService.Apply(id, fn)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	Success(ctx, draft)
}
