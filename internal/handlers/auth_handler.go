package handlers

import (
	"errors"

	"boutique/internal/models"
	"boutique/internal/services"
	"boutique/pkg/logger"
	"boutique/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler 认证相关接口
type AuthHandler struct {
	userService  *services.UserService
	tokenService *services.TokenService
}

func NewAuthHandler(userService *services.UserService, tokenService *services.TokenService) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
	}
}

// ========== 请求结构 ==========

type initRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Nom      string `json:"nom" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Nom      string `json:"nom" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=admin manager cashier user"`
	RoleID   *uint  `json:"roleId"`
}

// authPayload 登录/刷新的返回载荷
type authPayload struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// ========== 接口 ==========

// Init 引导首个管理员（已有任何用户则拒绝）
// POST /api/auth/init
func (h *AuthHandler) Init(c *gin.Context) {
	var req initRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, formatBindingError(err))
		return
	}

	count, err := h.userService.CountUsers()
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}
	if count > 0 {
		response.Forbidden(c, "L'initialisation a déjà été effectuée")
		return
	}

	user, err := h.userService.Create(services.CreateUserParams{
		Email:    req.Email,
		Password: req.Password,
		Nom:      req.Nom,
		Role:     models.RoleNameAdmin,
	})
	if err != nil {
		response.ServerError(c, "Erreur lors de la création de l'administrateur")
		return
	}

	pair, err := h.tokenService.GeneratePair(user)
	if err != nil {
		response.ServerError(c, "Erreur lors de la génération des tokens")
		return
	}

	logger.GetLogger().Infof("Administrateur initial créé: %s", user.Email)
	response.Created(c, "Administrateur créé", authPayload{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Login 登录
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, formatBindingError(err))
		return
	}

	user, err := h.userService.GetByEmail(req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		// 不区分账号不存在和密码错误
		response.Unauthorized(c, "Email ou mot de passe incorrect")
		return
	}
	if !user.IsActive {
		response.Unauthorized(c, "Ce compte a été désactivé")
		return
	}

	pair, err := h.tokenService.GeneratePair(user)
	if err != nil {
		response.ServerError(c, "Erreur lors de la génération des tokens")
		return
	}

	response.Success(c, authPayload{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Refresh 刷新令牌（轮换）
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, formatBindingError(err))
		return
	}

	pair, err := h.tokenService.Refresh(req.RefreshToken)
	if err != nil {
		// 四种失败服务层可区分，对客户端统一401
		switch {
		case errors.Is(err, services.ErrRefreshTokenNotFound),
			errors.Is(err, services.ErrRefreshTokenRevoked),
			errors.Is(err, services.ErrRefreshTokenExpired),
			errors.Is(err, services.ErrUserInactive):
			response.Unauthorized(c, "Refresh token invalide ou expiré")
		default:
			response.ServerError(c, "Erreur interne du serveur")
		}
		return
	}

	response.Success(c, pair)
}

// Logout 登出（作废提交的Refresh Token）
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, formatBindingError(err))
		return
	}

	if err := h.tokenService.Revoke(req.RefreshToken); err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithMessage(c, "Déconnexion réussie", nil)
}

// LogoutAll 全端登出（作废当前用户的全部Refresh Token）
// POST /api/auth/logout-all
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	userID := c.GetUint("user_id")
	if err := h.tokenService.RevokeAllForUser(userID); err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithMessage(c, "Déconnexion de tous les appareils réussie", nil)
}

// CheckAdmin 检查是否已有管理员（前端引导页用，无需认证）
// GET /api/auth/check-admin
func (h *AuthHandler) CheckAdmin(c *gin.Context) {
	count, err := h.userService.CountAdmins()
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.Success(c, gin.H{"hasAdmin": count > 0})
}

// Profile 当前用户信息及其有效权限
// GET /api/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	userID := c.GetUint("user_id")

	user, err := h.userService.GetByID(userID)
	if err != nil {
		response.NotFound(c, "Utilisateur non trouvé")
		return
	}

	permissions, err := h.userService.GetUserPermissions(userID)
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.Success(c, gin.H{
		"user":        user,
		"permissions": permissions,
	})
}

// Register 创建用户（仅管理员）
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, formatBindingError(err))
		return
	}

	user, err := h.userService.Create(services.CreateUserParams{
		Email:    req.Email,
		Password: req.Password,
		Nom:      req.Nom,
		Role:     req.Role,
		RoleID:   req.RoleID,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.ServerError(c, "Erreur lors de la création de l'utilisateur")
		return
	}

	response.Created(c, "Utilisateur créé", user)
}

// notFound 判断是否为记录不存在
func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
