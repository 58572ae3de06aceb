package handlers

import (
	"boutique/internal/services"
	"boutique/pkg/pagination"
	"boutique/pkg/response"

	"github.com/gin-gonic/gin"
)

// PermissionHandler 权限目录接口
type PermissionHandler struct {
	permissionService *services.PermissionService
}

func NewPermissionHandler(permissionService *services.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

// List 分页权限列表（可按分类过滤）
// GET /api/permissions
func (h *PermissionHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	category := c.Query("category")

	permissions, total, err := h.permissionService.List(params, category)
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, permissions, pageInfo)
}

// Grouped 按分类分组的全部权限（角色编辑界面用）
// GET /api/permissions/grouped
func (h *PermissionHandler) Grouped(c *gin.Context) {
	grouped, err := h.permissionService.GetAllGrouped()
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.Success(c, grouped)
}
