package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mautops/survey-gin/internal/model"
	"github.com/mautops/survey-gin/internal/service"
	"github.com/mautops/survey-gin/internal/store"
)

// BlockController 区块控制器
type BlockController struct {
	blockService service.BlockService
}

// NewBlockController 创建区块控制器
func NewBlockController(blockService service.BlockService) *BlockController {
	return &BlockController{
		blockService: blockService,
	}
}

// CreateBlockRequest 新增区块请求
type CreateBlockRequest struct {
	model.BlockDraft
	Mode       model.CreationMode `json:"mode"`
	TemplateID string             `json:"template_id"`
}

// MoveBlockRequest 移动区块请求
type MoveBlockRequest struct {
	Direction model.Direction `json:"direction"`
}

// MoveBlockResponse 移动区块响应
type MoveBlockResponse struct {
	Blocks model.BlockList `json:"blocks"`
	Moved  bool            `json:"moved"`
}

// blockPath 读取路径中的调查计划 ID 和区块 ID
func blockPath(ctx *gin.Context) (string, string, bool) {
	scheduleID, ok := pathID(ctx, "id")
	if !ok {
		return "", "", false
	}
	blockID, ok := pathID(ctx, "blockId")
	if !ok {
		return "", "", false
	}
	return scheduleID, blockID, true
}

// List 按顺序列出区块
// @Summary      列出区块
// @Description  按顺序返回调查计划的区块
// @Tags         区块
// @Accept       json
// @Produce      json
// @Param        id path string true "调查计划 ID"
// @Success      200  {object}  ListResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /schedules/{id}/blocks [get]
func (c *BlockController) List(ctx *gin.Context) {
	scheduleID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	blocks, err := c.blockService.List(scheduleID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	List(ctx, blocks, len(blocks))
}

// Get 获取区块
// @Summary      获取区块
// @Description  获取单个区块
// @Tags         区块
// @Accept       json
// @Produce      json
// @Param        id path string true "调查计划 ID"
// @Param        blockId path string true "区块 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /schedules/{id}/blocks/{blockId} [get]
func (c *BlockController) Get(ctx *gin.Context) {
	scheduleID, blockID, ok := blockPath(ctx)
	if !ok {
		return
	}

	block, err := c.blockService.Get(scheduleID, blockID)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	Success(ctx, block)
}

// Create 新增区块,mode 为 template 时需指定 template_id
// @Summary      新增区块
// @Description  mode 为 template 时按模板生成字段,为 custom 时使用请求中的字段
// @Tags         区块
// @Accept       json
// @Produce      json
// @Param        id path string true "调查计划 ID"
// @Param        request body CreateBlockRequest true "请求体"
// @Success      201  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /schedules/{id}/blocks [post]
func (c *BlockController) Create(ctx *gin.Context) {
	scheduleID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req CreateBlockRequest
	if !bindJSON(ctx, &req) {
		return
	}
	if err := validateBlockDraft(req.BlockDraft); err != nil {
		abortWithError(ctx, err)
		return
	}

	block, err := c.blockService.Create(ctx.Request.Context(), scheduleID, store.AddBlockRequest{
		Draft:      req.BlockDraft,
		Mode:       req.Mode,
		TemplateID: req.TemplateID,
	})
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	Created(ctx, block)
}

// Update 替换区块内容,ID 保持不变
// @Summary      更新区块
// @Description  替换区块内容,ID 和位置保持不变
// @Tags         区块
// @Accept       json
// @Produce      json
// @Param        id path string true "调查计划 ID"
// @Param        blockId path string true "区块 ID"
// @Param        request body model.BlockDraft true "请求体"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /schedules/{id}/blocks/{blockId} [put]
func (c *BlockController) Update(ctx *gin.Context) {
	scheduleID, blockID, ok := blockPath(ctx)
	if !ok {
		return
	}
	var draft model.BlockDraft
	if !bindJSON(ctx, &draft) {
		return
	}
	if err := validateBlockDraft(draft); err != nil {
		abortWithError(ctx, err)
		return
	}

	block, err := c.blockService.Update(ctx.Request.Context(), scheduleID, blockID, draft)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	Success(ctx, block)
}

// Delete 删除区块,需携带 ?confirm=true
// @Summary      删除区块
// @Description  删除无法撤销,未携带 confirm=true 时返回 428
// @Tags         区块
// @Accept       json
// @Produce      json
// @Param        id path string true "调查计划 ID"
// @Param        blockId path string true "区块 ID"
// @Param        confirm query bool false "确认删除,必须为 true"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      428  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /schedules/{id}/blocks/{blockId} [delete]
func (c *BlockController) Delete(ctx *gin.Context) {
	scheduleID, blockID, ok := blockPath(ctx)
	if !ok {
		return
	}

	if err := c.blockService.Delete(ctx.Request.Context(), scheduleID, blockID, confirmed(ctx)); err != nil {
		abortWithError(ctx, err)
		return
	}
	Success(ctx, nil)
}

// Move 与相邻区块交换位置,边界移动返回 moved=false
// @Summary      移动区块
// @Description  与相邻区块交换位置,边界移动返回 moved=false
// @Tags         区块
// @Accept       json
// @Produce      json
// @Param        id path string true "调查计划 ID"
// @Param        blockId path string true "区块 ID"
// @Param        request body MoveBlockRequest true "请求体"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /schedules/{id}/blocks/{blockId}/move [post]
func (c *BlockController) Move(ctx *gin.Context) {
	scheduleID, blockID, ok := blockPath(ctx)
	if !ok {
		return
	}
	var req MoveBlockRequest
	if !bindJSON(ctx, &req) {
		return
	}

	blocks, moved, err := c.blockService.Move(ctx.Request.Context(), scheduleID, blockID, req.Direction)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	Success(ctx, MoveBlockResponse{Blocks: blocks, Moved: moved})
}
