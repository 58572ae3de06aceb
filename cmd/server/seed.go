package main

import (
	"boutique/internal/services"
	"boutique/pkg/logger"

	"gorm.io/gorm"
)

// seedData 初始化权限目录和默认角色（可重复执行）
func seedData(db *gorm.DB) error {
	appLogger := logger.GetLogger()

	if err := services.NewPermissionService(db).InitializeDefaults(); err != nil {
		return err
	}

	if err := services.NewRoleService(db).InitializeDefaults(); err != nil {
		return err
	}

	appLogger.Info("Données de base initialisées")
	return nil
}
