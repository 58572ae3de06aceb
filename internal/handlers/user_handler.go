package handlers

import (
	"strconv"

	"boutique/internal/middleware"
	"boutique/internal/services"
	"boutique/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户管理接口
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ========== 请求结构 ==========

type updateUserRequest struct {
	Nom      *string `json:"nom"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin manager cashier user"`
	RoleID   *uint   `json:"roleId"`
	IsActive *bool   `json:"isActive"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

type grantPermissionRequest struct {
	Permission string `json:"permission" binding:"required"`
}

// ========== 接口 ==========

// List 用户列表
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.GetAll()
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithCount(c, users, len(users))
}

// Get 用户详情（含完整权限集）
// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	user, err := h.userService.GetByID(uint(id))
	if err != nil {
		if notFound(err) {
			response.NotFound(c, "Utilisateur non trouvé")
			return
		}
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	permissions, err := h.userService.GetUserPermissions(user.ID)
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.Success(c, gin.H{
		"user":        user,
		"permissions": permissions,
	})
}

// Update 更新用户
// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, formatBindingError(err))
		return
	}

	user, err := h.userService.Update(uint(id), services.UpdateUserParams{
		Nom:      req.Nom,
		Role:     req.Role,
		RoleID:   req.RoleID,
		IsActive: req.IsActive,
		Password: req.Password,
	})
	if err != nil {
		if notFound(err) {
			response.NotFound(c, "Utilisateur non trouvé")
			return
		}
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithMessage(c, "Utilisateur mis à jour", user)
}

// Delete 删除用户（不能删除自己）
// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	if currentID, ok := middleware.CurrentUserID(c); ok && currentID == uint(id) {
		response.BadRequest(c, "Vous ne pouvez pas supprimer votre propre compte")
		return
	}

	if err := h.userService.Delete(uint(id)); err != nil {
		if notFound(err) {
			response.NotFound(c, "Utilisateur non trouvé")
			return
		}
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithMessage(c, "Utilisateur supprimé", nil)
}

// Permissions 用户的直接授权列表
// GET /api/users/:id/permissions
func (h *UserHandler) Permissions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	grants, err := h.userService.GetDirectPermissions(uint(id))
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithCount(c, grants, len(grants))
}

// GrantPermission 直接授予权限
// POST /api/users/:id/permissions
func (h *UserHandler) GrantPermission(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	var req grantPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, formatBindingError(err))
		return
	}

	grantedBy, _ := middleware.CurrentUserID(c)
	if err := h.userService.GrantPermission(uint(id), req.Permission, grantedBy); err != nil {
		if notFound(err) {
			response.NotFound(c, "Utilisateur non trouvé")
			return
		}
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithMessage(c, "Permission accordée", nil)
}

// RevokePermission 撤销直接授权
// DELETE /api/users/:id/permissions/:permission
func (h *UserHandler) RevokePermission(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	permission := c.Param("permission")
	if err := h.userService.RevokePermission(uint(id), permission); err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithMessage(c, "Permission révoquée", nil)
}
