package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mautops/survey-gin/internal/service"
)

// BackupController 备份控制器
type BackupController struct {
	backupService *service.BackupService
}

// NewBackupController 创建备份控制器
func NewBackupController(backupService *service.BackupService) *BackupController {
	return &BackupController{
		backupService: backupService,
	}
}

// RestoreResponse 恢复结果
type RestoreResponse struct {
	Filename  string `json:"filename"`
	Schedules int    `json:"schedules"`
}

// CreateBackup 创建备份
// @Summary      创建备份
// @Description  将调查计划集合写入备份文件
// @Tags         备份
// @Accept       json
// @Produce      json
// @Success      201  {object}  Response
// @Failure      500  {object}  ErrorResponse
// @Router       /backups [post]
func (c *BackupController) CreateBackup(ctx *gin.Context) {
	backupPath, err := c.backupService.CreateBackup(ctx.Request.Context())
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	// 获取备份信息
	backups, err := c.backupService.ListBackups(ctx.Request.Context())
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	// 找到刚创建的备份
	for _, b := range backups {
		if b.Path == backupPath {
			Created(ctx, b)
			return
		}
	}
	abortWithError(ctx, service.ErrBackupNotFound)
}

// ListBackups 列出所有备份,按时间倒序
// @Summary      列出备份
// @Description  按创建时间倒序
// @Tags         备份
// @Accept       json
// @Produce      json
// @Success      200  {object}  ListResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /backups [get]
func (c *BackupController) ListBackups(ctx *gin.Context) {
	backups, err := c.backupService.ListBackups(ctx.Request.Context())
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	List(ctx, backups, len(backups))
}

// RestoreBackup 用备份整体替换调查计划集合
// @Summary      恢复备份
// @Description  用备份整体替换调查计划集合,内容不合法时集合保持不变
// @Tags         备份
// @Accept       json
// @Produce      json
// @Param        filename path string true "备份文件名"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /backups/{filename}/restore [post]
func (c *BackupController) RestoreBackup(ctx *gin.Context) {
	filename := ctx.Param("filename")

	n, err := c.backupService.RestoreBackup(ctx.Request.Context(), filename)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	Success(ctx, RestoreResponse{Filename: filename, Schedules: n})
}

// DeleteBackup 删除备份
// @Summary      删除备份
// @Description  删除备份文件
// @Tags         备份
// @Accept       json
// @Produce      json
// @Param        filename path string true "备份文件名"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /backups/{filename} [delete]
func (c *BackupController) DeleteBackup(ctx *gin.Context) {
	filename := ctx.Param("filename")

	if err := c.backupService.DeleteBackup(ctx.Request.Context(), filename); err != nil {
		abortWithError(ctx, err)
		return
	}

	Success(ctx, nil)
}
