package router

import (
	"boutique/internal/handlers"
	"boutique/internal/middleware"
	"boutique/internal/models"
	"boutique/internal/services"
	"boutique/pkg/config"
	"boutique/pkg/jwt"
	"boutique/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup 组装路由
func Setup(cfg *config.Config, db *gorm.DB, tokenService *services.TokenService) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger())
	engine.Use(middleware.Recovery())
	engine.Use(middleware.CORS(cfg))

	jwtManager := jwt.GetJWTManager()
	auth := middleware.NewAuthMiddleware(db, jwtManager)

	userService := services.NewUserService(db)
	roleService := services.NewRoleService(db)
	permissionService := services.NewPermissionService(db)

	authHandler := handlers.NewAuthHandler(userService, tokenService)
	roleHandler := handlers.NewRoleHandler(roleService)
	permissionHandler := handlers.NewPermissionHandler(permissionService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(services.NewProductService(db))
	saleHandler := handlers.NewSaleHandler(services.NewSaleService(db))
	clientHandler := handlers.NewClientHandler(services.NewClientService(db))
	creditHandler := handlers.NewCreditHandler(services.NewCreditService(db))
	expenseHandler := handlers.NewExpenseHandler(services.NewExpenseService(db))
	statsHandler := handlers.NewStatsHandler(services.NewStatsService(db))

	engine.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")

	// 认证
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/init", authHandler.Init)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/check-admin", authHandler.CheckAdmin)

		authGroup.POST("/logout-all", auth.RequireLogin(), authHandler.LogoutAll)
		authGroup.GET("/profile", auth.RequireLogin(), authHandler.Profile)
		authGroup.POST("/register", auth.RequireLogin(), auth.RequireAdmin(), authHandler.Register)
	}

	// 角色管理（按用户管理权限细分）
	roles := api.Group("/roles", auth.RequireLogin())
	{
		roles.GET("", auth.RequirePermission(models.PermUsersRead), roleHandler.List)
		roles.GET("/manageable", auth.RequirePermission(models.PermUsersRead), roleHandler.Manageable)
		roles.GET("/:id", auth.RequirePermission(models.PermUsersRead), roleHandler.Get)
		roles.POST("", auth.RequirePermission(models.PermUsersCreate), roleHandler.Create)
		roles.PUT("/:id", auth.RequirePermission(models.PermUsersUpdate), roleHandler.Update)
		roles.DELETE("/:id", auth.RequirePermission(models.PermUsersDelete), roleHandler.Delete)
		roles.POST("/:id/permissions", auth.RequirePermission(models.PermUsersManagePermissions), roleHandler.AssignPermissions)
		roles.POST("/init/default", auth.RequireAdmin(), roleHandler.InitDefaults)
	}

	// 权限目录
	permissions := api.Group("/permissions", auth.RequireLogin(), auth.RequirePermission(models.PermUsersManagePermissions))
	{
		permissions.GET("", permissionHandler.List)
		permissions.GET("/grouped", permissionHandler.Grouped)
	}

	// 用户管理
	users := api.Group("/users", auth.RequireLogin())
	{
		users.GET("", auth.RequirePermission(models.PermUsersRead), userHandler.List)
		users.GET("/:id", auth.RequirePermission(models.PermUsersRead), userHandler.Get)
		users.PUT("/:id", auth.RequirePermission(models.PermUsersUpdate), userHandler.Update)
		users.DELETE("/:id", auth.RequirePermission(models.PermUsersDelete), userHandler.Delete)
		users.GET("/:id/permissions", auth.RequirePermission(models.PermUsersManagePermissions), userHandler.Permissions)
		users.POST("/:id/permissions", auth.RequirePermission(models.PermUsersManagePermissions), userHandler.GrantPermission)
		users.DELETE("/:id/permissions/:permission", auth.RequirePermission(models.PermUsersManagePermissions), userHandler.RevokePermission)
	}

	// 产品
	products := api.Group("/products", auth.RequireLogin())
	{
		products.GET("", auth.RequirePermission(models.PermProductsRead), productHandler.List)
		products.GET("/low-stock", auth.RequirePermission(models.PermProductsRead), productHandler.LowStock)
		products.GET("/code/:code", auth.RequirePermission(models.PermProductsRead), productHandler.GetByCode)
		products.GET("/:id", auth.RequirePermission(models.PermProductsRead), productHandler.Get)
		products.POST("", auth.RequirePermission(models.PermProductsCreate), productHandler.Create)
		products.PUT("/:id", auth.RequirePermission(models.PermProductsUpdate), productHandler.Update)
		products.DELETE("/:id", auth.RequirePermission(models.PermProductsDelete), productHandler.Delete)
		products.PATCH("/:id/restock", auth.RequirePermission(models.PermProductsRestock), productHandler.Restock)
	}

	// 销售
	sales := api.Group("/sales", auth.RequireLogin())
	{
		sales.GET("", auth.RequirePermission(models.PermSalesRead), saleHandler.List)
		sales.GET("/stats", auth.RequirePermission(models.PermSalesRead), saleHandler.Stats)
		sales.GET("/:id", auth.RequirePermission(models.PermSalesRead), saleHandler.Get)
		sales.POST("", auth.RequirePermission(models.PermSalesCreate), saleHandler.Create)
		sales.DELETE("/:id", auth.RequirePermission(models.PermSalesDelete), saleHandler.Cancel)
	}

	// 客户
	clients := api.Group("/clients", auth.RequireLogin())
	{
		clients.GET("", auth.RequirePermission(models.PermClientsRead), clientHandler.List)
		clients.GET("/:id", auth.RequirePermission(models.PermClientsRead), clientHandler.Get)
		clients.GET("/:id/stats", auth.RequirePermission(models.PermClientsRead), clientHandler.Stats)
		clients.POST("", auth.RequirePermission(models.PermClientsCreate), clientHandler.Create)
		clients.PUT("/:id", auth.RequirePermission(models.PermClientsUpdate), clientHandler.Update)
		clients.DELETE("/:id", auth.RequirePermission(models.PermClientsDelete), clientHandler.Delete)
	}

	// 赊账
	credits := api.Group("/credits", auth.RequireLogin())
	{
		credits.GET("", auth.RequirePermission(models.PermCreditsRead), creditHandler.List)
		credits.GET("/:id", auth.RequirePermission(models.PermCreditsRead), creditHandler.Get)
		credits.PATCH("/:id/pay", auth.RequirePermission(models.PermCreditsPay), creditHandler.Pay)
	}

	// 支出
	expenses := api.Group("/expenses", auth.RequireLogin())
	{
		expenses.GET("", auth.RequirePermission(models.PermExpensesRead), expenseHandler.List)
		expenses.GET("/:id", auth.RequirePermission(models.PermExpensesRead), expenseHandler.Get)
		expenses.POST("", auth.RequirePermission(models.PermExpensesCreate), expenseHandler.Create)
		expenses.DELETE("/:id", auth.RequirePermission(models.PermExpensesDelete), expenseHandler.Delete)
	}

	// 统计
	stats := api.Group("/stats", auth.RequireLogin())
	{
		stats.GET("/dashboard", auth.RequirePermission(models.PermStatsRead), statsHandler.Dashboard)
	}

	return engine
}
