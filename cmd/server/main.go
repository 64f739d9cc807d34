package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/lensfolio/internal/config"
	"github.com/lensfolio/internal/container"
	"github.com/lensfolio/internal/db"
	"github.com/lensfolio/internal/handler"
	"github.com/lensfolio/internal/logger"
	"github.com/lensfolio/internal/router"
	"github.com/lensfolio/internal/storage"
	"go.uber.org/zap"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl := logger.New(logger.Config{Env: cfg.LogEnv, Level: cfg.LogLevel, ServiceName: "lensfolio"})
	defer zl.Sync()

	gin.SetMode(cfg.GinMode)

	// 初始化数据库与对象存储
	repos, err := container.Open(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize repositories", zap.Error(err))
	}
	defer repos.Close()

	if err := db.EnsureUser(repos.DB(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		zl.Fatal("failed to ensure admin user", zap.Error(err))
	}

	media, _ := repos.Bucket().(*storage.DiskBucket)
	mediaPath := ""
	if media != nil {
		mediaPath = cfg.UploadURLPath
	}

	api := handler.NewAPI(repos.DB(), repos, handler.Options{
		Media:          media,
		Logger:         zl,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
	r := router.SetupRouter(api, router.Options{
		SessionSecret: cfg.SessionSecret,
		MediaURLPath:  mediaPath,
		Logger:        zl,
	})

	zl.Info("server starting", zap.String("addr", cfg.ListenAddr), zap.String("storage", cfg.StorageDriver))
	if err := r.Run(cfg.ListenAddr); err != nil {
		zl.Fatal("failed to run server", zap.Error(err))
	}
}
