package api

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mautops/survey-gin/internal/model"
	"github.com/mautops/survey-gin/internal/service"
	"github.com/mautops/survey-gin/internal/utils"
)

// ScheduleController 调查计划控制器
type ScheduleController struct {
	scheduleService service.ScheduleService
}

// NewScheduleController 创建调查计划控制器
func NewScheduleController(scheduleService service.ScheduleService) *ScheduleController {
	return &ScheduleController{
		scheduleService: scheduleService,
	}
}

// List 列出调查计划,支持 ?search= 按名称、描述或行业过滤
// @Summary      列出调查计划
// @Description  按列表顺序返回调查计划,search 按名称、描述或行业过滤(不区分大小写)
// @Tags         调查计划
// @Accept       json
// @Produce      json
// @Param        search query string false "搜索关键字"
// @Success      200  {object}  ListResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /schedules [get]
func (c *ScheduleController) List(ctx *gin.Context) {
	search := ctx.Query("search")
	if err := utils.ValidateText(search, maxSearchLength); err != nil {
		abortWithError(ctx, err)
		return
	}
	schedules := c.scheduleService.List(search)
	List(ctx, schedules, len(schedules))
}

// Get 获取调查计划详情
// @Summary      获取调查计划详情
// @Description  返回调查计划及其有序区块
// @Tags         调查计划
// @Accept       json
// @Produce      json
// @Param        id path string true "调查计划 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /schedules/{id} [get]
func (c *ScheduleController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	schedule, err := c.scheduleService.Get(id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	Success(ctx, schedule)
}

// Create 创建调查计划
// @Summary      创建调查计划
// @Description  名称和年份必填,新计划追加到列表末尾
// @Tags         调查计划
// @Accept       json
// @Produce      json
// @Param        request body model.ScheduleDraft true "请求体"
// @Success      201  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /schedules [post]
func (c *ScheduleController) Create(ctx *gin.Context) {
	var draft model.ScheduleDraft
	if !bindJSON(ctx, &draft) {
		return
	}
	if err := validateScheduleDraft(draft); err != nil {
		abortWithError(ctx, err)
		return
	}

	schedule, err := c.scheduleService.Create(ctx.Request.Context(), draft)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	Created(ctx, schedule)
}

// Update 更新调查计划属性,区块保持不变
// @Summary      更新调查计划
// @Description  替换名称、描述、行业、年份和启用状态,区块保持不变
// @Tags         调查计划
// @Accept       json
// @Produce      json
// @Param        id path string true "调查计划 ID"
// @Param        request body model.ScheduleDraft true "请求体"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /schedules/{id} [put]
func (c *ScheduleController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var draft model.ScheduleDraft
	if !bindJSON(ctx, &draft) {
		return
	}
	if err := validateScheduleDraft(draft); err != nil {
		abortWithError(ctx, err)
		return
	}

	schedule, err := c.scheduleService.Update(ctx.Request.Context(), id, draft)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	Success(ctx, schedule)
}

// Delete 删除调查计划,需携带 ?confirm=true
// @Summary      删除调查计划
// @Description  删除无法撤销,未携带 confirm=true 时返回 428
// @Tags         调查计划
// @Accept       json
// @Produce      json
// @Param        id path string true "调查计划 ID"
// @Param        confirm query bool false "确认删除,必须为 true"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      428  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /schedules/{id} [delete]
func (c *ScheduleController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.scheduleService.Delete(ctx.Request.Context(), id, confirmed(ctx)); err != nil {
		abortWithError(ctx, err)
		return
	}
	Success(ctx, nil)
}

// Clone 复制调查计划
// @Summary      复制调查计划
// @Description  副本名称追加 " (Copy)",处于停用状态,计划和区块均分配新 ID
// @Tags         调查计划
// @Accept       json
// @Produce      json
// @Param        id path string true "调查计划 ID"
// @Success      201  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /schedules/{id}/clone [post]
func (c *ScheduleController) Clone(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	schedule, err := c.scheduleService.Clone(ctx.Request.Context(), id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	Created(ctx, schedule)
}

// History 调查计划的审计日志
// @Summary      调查计划审计日志
// @Description  按时间倒序返回调查计划及其区块的变更记录
// @Tags         调查计划
// @Accept       json
// @Produce      json
// @Param        id path string true "调查计划 ID"
// @Success      200  {object}  ListResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /schedules/{id}/audit-logs [get]
func (c *ScheduleController) History(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	logs, err := c.scheduleService.History(ctx.Request.Context(), id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	out := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, newAuditLogResponse(l))
	}
	List(ctx, out, len(out))
}

// AuditLogResponse 审计日志
type AuditLogResponse struct {
	ID           string          `json:"id"`
	Operator     string          `json:"operator"`
	Action       string          `json:"action"`
	ResourceType string          `json:"resource_type"`
	ResourceID   string          `json:"resource_id"`
	ScheduleID   string          `json:"schedule_id"`
	RequestID    string          `json:"request_id,omitempty"`
	Details      json.RawMessage `json:"details,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func newAuditLogResponse(l *model.AuditLogModel) AuditLogResponse {
	r := AuditLogResponse{
		ID:           l.ID,
		Operator:     l.Operator,
		Action:       l.Action,
		ResourceType: l.ResourceType,
		ResourceID:   l.ResourceID,
		ScheduleID:   l.ScheduleID,
		RequestID:    l.RequestID,
		CreatedAt:    l.CreatedAt,
	}
	if json.Valid(l.Details) {
		r.Details = json.RawMessage(l.Details)
	}
	return r
}
