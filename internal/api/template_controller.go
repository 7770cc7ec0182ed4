package api

import (
	"github.com/gin-gonic/gin"
	"github.com/mautops/survey-gin/internal/service"
)

// TemplateController 模板控制器
type TemplateController struct {
	templateService service.TemplateService
}

// NewTemplateController 创建模板控制器
func NewTemplateController(templateService service.TemplateService) *TemplateController {
	return &TemplateController{
		templateService: templateService,
	}
}

// List 列出模板,支持 ?category= 过滤
// @Summary      列出模板
// @Description  category 为空时返回全部模板
// @Tags         模板
// @Accept       json
// @Produce      json
// @Param        category query string false "模板分类"
// @Success      200  {object}  ListResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /templates [get]
func (c *TemplateController) List(ctx *gin.Context) {
	templates := c.templateService.List(ctx.Query("category"))
	List(ctx, templates, len(templates))
}

// Get 获取模板详情
// @Summary      获取模板详情
// @Description  返回模板及其条目
// @Tags         模板
// @Accept       json
// @Produce      json
// @Param        id path string true "模板 ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /templates/{id} [get]
func (c *TemplateController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	template, err := c.templateService.Get(id)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	Success(ctx, template)
}

// Categories 模板分类
// @Summary      模板分类
// @Description  返回去重后的模板分类
// @Tags         模板
// @Accept       json
// @Produce      json
// @Success      200  {object}  ListResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /templates/categories [get]
func (c *TemplateController) Categories(ctx *gin.Context) {
	categories := c.templateService.Categories()
	List(ctx, categories, len(categories))
}
