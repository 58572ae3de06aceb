package middleware

import (
	"strings"

	"boutique/internal/models"
	"boutique/internal/services"
	"boutique/pkg/jwt"
	"boutique/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// context键
const (
	ContextUserID = "user_id"
	ContextUser   = "current_user"
	ContextClaims = "jwt_claims"
)

// AuthMiddleware 认证与授权中间件
type AuthMiddleware struct {
	userService *services.UserService
	jwtManager  *jwt.JWTManager
}

func NewAuthMiddleware(db *gorm.DB, jwtManager *jwt.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{
		userService: services.NewUserService(db),
		jwtManager:  jwtManager,
	}
}

// RequireLogin 验证Access Token并加载用户
//
// 令牌有效但用户已被禁用或删除时同样返回401，和令牌失效不作区分。
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Token d'authentification requis")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "Format du token invalide")
			c.Abort()
			return
		}

		claims, err := m.jwtManager.VerifyAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Token invalide ou expiré")
			c.Abort()
			return
		}

		user, err := m.userService.GetByID(claims.UserID)
		if err != nil || !user.IsActive {
			response.Unauthorized(c, "Token invalide ou expiré")
			c.Abort()
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RequirePermission 要求用户拥有指定权限（在RequireLogin之后使用）
func (m *AuthMiddleware) RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserID)
		if !exists {
			response.Unauthorized(c, "Token d'authentification requis")
			c.Abort()
			return
		}

		ok, err := m.userService.HasPermission(userID.(uint), permission)
		if err != nil {
			response.ServerError(c, "Erreur lors de la vérification des permissions")
			c.Abort()
			return
		}
		if !ok {
			response.Forbidden(c, "Permission insuffisante: "+permission)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAnyPermission 要求用户拥有任一指定权限
func (m *AuthMiddleware) RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserID)
		if !exists {
			response.Unauthorized(c, "Token d'authentification requis")
			c.Abort()
			return
		}

		ok, err := m.userService.HasAnyPermission(userID.(uint), permissions)
		if err != nil {
			response.ServerError(c, "Erreur lors de la vérification des permissions")
			c.Abort()
			return
		}
		if !ok {
			response.Forbidden(c, "Permission insuffisante")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin 要求管理员层级（admin或更高）
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserID)
		if !exists {
			response.Unauthorized(c, "Token d'authentification requis")
			c.Abort()
			return
		}

		ok, err := m.userService.HasRoleOrHigher(userID.(uint), models.RoleNameAdmin)
		if err != nil {
			response.ServerError(c, "Erreur lors de la vérification des permissions")
			c.Abort()
			return
		}
		if !ok {
			response.Forbidden(c, "Accès réservé aux administrateurs")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser 从context取当前用户（RequireLogin之后可用）
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// CurrentUserID 从context取当前用户ID
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
