package services

import (
	"boutique/pkg/logger"

	"github.com/robfig/cron/v3"
)

// TokenSweeper 定时清理过期刷新令牌
type TokenSweeper struct {
	tokenService *TokenService
	cron         *cron.Cron
}

func NewTokenSweeper(tokenService *TokenService) *TokenSweeper {
	return &TokenSweeper{
		tokenService: tokenService,
		cron:         cron.New(),
	}
}

// Start 启动定时任务（每小时整点执行一次）
func (s *TokenSweeper) Start() error {
	_, err := s.cron.AddFunc("0 * * * *", func() {
		if _, err := s.tokenService.SweepExpired(); err != nil {
			logger.GetLogger().Errorf("Échec du nettoyage des refresh tokens: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.GetLogger().Info("Tâche de nettoyage des refresh tokens démarrée")
	return nil
}

// Stop 停止定时任务，等待进行中的任务完成
func (s *TokenSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
