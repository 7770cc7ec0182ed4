package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mautops/survey-gin/internal/model"
	"github.com/mautops/survey-gin/internal/utils"
)

// pathID 读取并校验路径中的 ID 参数
func pathID(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if err := utils.ValidateID(id); err != nil {
		abortWithError(c, err)
		return "", false
	}
	return id, true
}

// bindJSON 解析请求体,失败时返回 400
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		abortWithError(c, WrapError(err, http.StatusBadRequest, "error.bad_request"))
		return false
	}
	return true
}

// confirmed 读取 ?confirm=true
func confirmed(c *gin.Context) bool {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return ok
}

// validateTexts 校验名称与描述的长度和内容
func validateTexts(name, description string) error {
	if err := utils.ValidateText(name, utils.MaxNameLength); err != nil {
		return err
	}
	return utils.ValidateText(description, utils.MaxDescriptionLength)
}

// validateScheduleDraft 校验调查计划表单中的文本
func validateScheduleDraft(d model.ScheduleDraft) error {
	if err := validateTexts(d.Name, d.Description); err != nil {
		return err
	}
	return utils.ValidateText(d.Year, utils.MaxNameLength)
}

// validateBlockDraft 校验区块表单及字段中的文本
func validateBlockDraft(d model.BlockDraft) error {
	if err := validateTexts(d.Name, d.Description); err != nil {
		return err
	}
	for _, f := range d.Fields {
		if err := utils.ValidateText(f.Label, utils.MaxNameLength); err != nil {
			return err
		}
	}
	return nil
}

// maxSearchLength 搜索关键字最大长度
const maxSearchLength = 100
