package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boutique/internal/database"
	"boutique/internal/router"
	"boutique/internal/services"
	"boutique/pkg/config"
	"boutique/pkg/jwt"
	"boutique/pkg/logger"
)

func main() {
	// 加载配置
	cfg := config.GetConfig()

	// 初始化日志
	if err := logger.Initialize(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	appLogger := logger.GetLogger()
	appLogger.Info("Démarrage de Boutique Pro...")

	// 初始化数据库
	if err := database.Initialize(cfg); err != nil {
		appLogger.Fatalf("Échec de la connexion à la base de données: %v", err)
	}
	defer database.Close()

	// 数据库迁移
	if err := database.Migrate(); err != nil {
		appLogger.Fatalf("Échec de la migration: %v", err)
	}

	db := database.GetDB()

	// 种子数据（权限目录+默认角色，幂等）
	if err := seedData(db); err != nil {
		appLogger.Fatalf("Échec de l'initialisation des données: %v", err)
	}

	// 令牌服务和定时清理
	refreshTTL, err := config.ParseExpiration(cfg.JWT.RefreshExpiresIn)
	if err != nil {
		refreshTTL = 7 * 24 * time.Hour
	}
	tokenService := services.NewTokenService(db, jwt.GetJWTManager(), refreshTTL)

	sweeper := services.NewTokenSweeper(tokenService)
	if err := sweeper.Start(); err != nil {
		appLogger.Fatalf("Échec du démarrage de la tâche de nettoyage: %v", err)
	}

	// 路由
	engine := router.Setup(cfg, db, tokenService)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: engine,
	}

	// 启动HTTP(S)服务
	go func() {
		var err error
		if cfg.TLS.Enabled {
			appLogger.Infof("Serveur HTTPS démarré sur le port %s", cfg.Server.Port)
			err = server.ListenAndServeTLS(cfg.TLS.CertPath, cfg.TLS.KeyPath)
		} else {
			appLogger.Infof("Serveur HTTP démarré sur le port %s", cfg.Server.Port)
			err = server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Échec du démarrage du serveur: %v", err)
		}
	}()

	// 优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Arrêt du serveur...")
	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Errorf("Arrêt forcé du serveur: %v", err)
	}

	appLogger.Info("Serveur arrêté")
}
