package handlers

import (
	"errors"
	"strconv"

	"boutique/internal/middleware"
	"boutique/internal/models"
	"boutique/internal/services"
	"boutique/pkg/response"

	"github.com/gin-gonic/gin"
)

// RoleHandler 角色管理接口
type RoleHandler struct {
	roleService *services.RoleService
}

func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// actingRoleID 解析当前用户的角色ID
//
// RoleID 为空的存量用户按字符串角色名回查角色表。
func (h *RoleHandler) actingRoleID(c *gin.Context) (uint, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return 0, false
	}
	if user.RoleID != nil {
		return *user.RoleID, true
	}

	role, err := h.roleService.GetByName(user.Role)
	if err != nil {
		return 0, false
	}
	return role.ID, true
}

// ========== 请求结构 ==========

type createRoleRequest struct {
	Name         string   `json:"name" binding:"required"`
	DisplayName  string   `json:"displayName" binding:"required"`
	Description  string   `json:"description"`
	Level        int      `json:"level" binding:"required,gt=0"`
	ParentRoleID *uint    `json:"parentRoleId"`
	Permissions  []string `json:"permissions"`
}

type updateRoleRequest struct {
	DisplayName  *string `json:"displayName"`
	Description  *string `json:"description"`
	Level        *int    `json:"level"`
	ParentRoleID *uint   `json:"parentRoleId"`
	ClearParent  bool    `json:"clearParent"`
	IsActive     *bool   `json:"isActive"`
}

type assignPermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// roleView 角色列表项（带用户数）
type roleView struct {
	*models.Role
	UserCount int64 `json:"userCount"`
}

// ========== 接口 ==========

// List 角色列表
// GET /api/roles
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roleService.GetAll()
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	counts, err := h.roleService.UserCounts()
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	views := make([]roleView, 0, len(roles))
	for _, role := range roles {
		views = append(views, roleView{Role: role, UserCount: counts[role.ID]})
	}

	response.SuccessWithCount(c, views, len(views))
}

// Get 角色详情（含有效权限集）
// GET /api/roles/:id
func (h *RoleHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	role, err := h.roleService.GetByID(uint(id))
	if err != nil {
		if notFound(err) {
			response.NotFound(c, "Rôle non trouvé")
			return
		}
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	effective, err := h.roleService.GetEffectivePermissions(role.ID)
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.Success(c, gin.H{
		"role":                 role,
		"effectivePermissions": effective,
	})
}

// Manageable 当前用户可管理的角色列表
// GET /api/roles/manageable
func (h *RoleHandler) Manageable(c *gin.Context) {
	actingID, ok := h.actingRoleID(c)
	if !ok {
		response.Success(c, []*models.Role{})
		return
	}

	roles, err := h.roleService.GetManageableRoles(actingID)
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithCount(c, roles, len(roles))
}

// Create 创建角色
// POST /api/roles
func (h *RoleHandler) Create(c *gin.Context) {
	var req createRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, formatBindingError(err))
		return
	}

	actingID, ok := h.actingRoleID(c)
	if !ok {
		response.Forbidden(c, "Rôle utilisateur non trouvé")
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	role, err := h.roleService.Create(actingID, services.CreateRoleParams{
		Name:         req.Name,
		DisplayName:  req.DisplayName,
		Description:  req.Description,
		Level:        req.Level,
		ParentRoleID: req.ParentRoleID,
		Permissions:  req.Permissions,
	}, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoleNameTaken):
			response.Conflict(c, err.Error())
		case errors.Is(err, services.ErrCannotManageRole):
			response.Forbidden(c, err.Error())
		case errors.Is(err, services.ErrLevelNotBelowParent):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, "Erreur interne du serveur")
		}
		return
	}

	response.Created(c, "Rôle créé", role)
}

// Update 更新角色
// PUT /api/roles/:id
func (h *RoleHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, formatBindingError(err))
		return
	}

	actingID, ok := h.actingRoleID(c)
	if !ok {
		response.Forbidden(c, "Rôle utilisateur non trouvé")
		return
	}

	role, err := h.roleService.Update(actingID, uint(id), services.UpdateRoleParams{
		DisplayName:  req.DisplayName,
		Description:  req.Description,
		Level:        req.Level,
		ParentRoleID: req.ParentRoleID,
		ClearParent:  req.ClearParent,
		IsActive:     req.IsActive,
	})
	if err != nil {
		switch {
		case notFound(err):
			response.NotFound(c, "Rôle non trouvé")
		case errors.Is(err, services.ErrSystemRole):
			response.Forbidden(c, err.Error())
		case errors.Is(err, services.ErrCannotManageRole):
			response.Forbidden(c, err.Error())
		case errors.Is(err, services.ErrLevelNotBelowParent):
			response.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrRoleCycle):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, "Erreur interne du serveur")
		}
		return
	}

	response.SuccessWithMessage(c, "Rôle mis à jour", role)
}

// Delete 删除角色
// DELETE /api/roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	actingID, ok := h.actingRoleID(c)
	if !ok {
		response.Forbidden(c, "Rôle utilisateur non trouvé")
		return
	}

	if err := h.roleService.Delete(actingID, uint(id)); err != nil {
		switch {
		case notFound(err):
			response.NotFound(c, "Rôle non trouvé")
		case errors.Is(err, services.ErrSystemRole):
			response.Forbidden(c, err.Error())
		case errors.Is(err, services.ErrRoleInUse):
			response.Conflict(c, err.Error())
		case errors.Is(err, services.ErrCannotManageRole):
			response.Forbidden(c, err.Error())
		default:
			response.ServerError(c, "Erreur interne du serveur")
		}
		return
	}

	response.SuccessWithMessage(c, "Rôle supprimé", nil)
}

// AssignPermissions 重设角色权限集
// POST /api/roles/:id/permissions
func (h *RoleHandler) AssignPermissions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	var req assignPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, formatBindingError(err))
		return
	}

	actingID, ok := h.actingRoleID(c)
	if !ok {
		response.Forbidden(c, "Rôle utilisateur non trouvé")
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	if err := h.roleService.AssignPermissions(actingID, uint(id), req.Permissions, userID); err != nil {
		switch {
		case notFound(err):
			response.NotFound(c, "Rôle non trouvé")
		case errors.Is(err, services.ErrCannotManageRole):
			response.Forbidden(c, err.Error())
		default:
			response.ServerError(c, "Erreur interne du serveur")
		}
		return
	}

	response.SuccessWithMessage(c, "Permissions mises à jour", nil)
}

// InitDefaults 初始化默认角色（幂等）
// POST /api/roles/init/default
func (h *RoleHandler) InitDefaults(c *gin.Context) {
	if err := h.roleService.InitializeDefaults(); err != nil {
		response.ServerError(c, "Erreur lors de l'initialisation des rôles")
		return
	}

	response.SuccessWithMessage(c, "Rôles par défaut initialisés", nil)
}
