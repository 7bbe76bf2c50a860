package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"uni-guide/backend/config"
	"uni-guide/backend/internal/api/handler"
	"uni-guide/backend/internal/api/router"
	"uni-guide/backend/internal/catalog"
	"uni-guide/backend/internal/planner"
	"uni-guide/backend/internal/repository"
	"uni-guide/backend/internal/service"
	"uni-guide/backend/pkg/database"
	applogger "uni-guide/backend/pkg/logger"
	"uni-guide/backend/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer applogger.Sync(logger)

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.String("persistence", cfg.Persistence.Driver),
	)

	ctx := context.Background()

	// 3. 连接数据库（可选）
	var (
		db   *gorm.DB
		repo *repository.Repository
	)
	if cfg.Database.Enabled() {
		db, err = database.NewDB(&cfg.Database, logger)
		if err != nil {
			logger.Fatal("数据库连接失败", zap.Error(err))
		}
		if err := database.Migrate(db, cfg.Database.Driver, logger); err != nil {
			logger.Fatal("数据库迁移失败", zap.Error(err))
		}
		repo = repository.NewRepository(db)
		logger.Info("数据库连接成功", zap.String("driver", cfg.Database.Driver))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, cfg.Persistence.KeyPrefix, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，限流功能将不可用", zap.Error(err))
			rdb = nil
		}
	}

	// 5. 加载课程目录（失败即终止）
	cat, err := loadCatalog(ctx, cfg, repo, logger)
	if err != nil {
		logger.Fatal("课程目录加载失败", zap.Error(err))
	}
	report := catalog.Check(cat)
	logger.Info("课程目录加载完成",
		zap.Int("courses", report.Courses),
		zap.Int("rules", report.Rules),
		zap.String("integrity", report.Status),
	)
	for _, c := range report.Checks {
		if c.Status != catalog.StatusPass {
			logger.Warn("目录完整性检查未通过", zap.String("check", c.Name), zap.Int("count", c.Count), zap.Strings("sample", c.Sample))
		}
	}

	// 6. 规划状态持久化
	kv, err := newKVStore(cfg, repo, rdb)
	if err != nil {
		logger.Fatal("初始化持久化失败", zap.Error(err))
	}
	store := planner.NewStore(kv, planner.Options{
		HistoryCapacity: cfg.Planner.HistoryCapacity,
		Years:           cfg.Planner.Years,
		TermsPerYear:    cfg.Planner.TermsPerYear,
		LockedTerms:     cfg.Planner.LockedTerms,
	}, logger)
	if err := store.Load(ctx); err != nil {
		logger.Fatal("读取规划状态失败", zap.Error(err))
	}

	// 7. 依赖注入: Store → Service → Handler
	svc := service.NewService(cfg, cat, store, logger)
	h := handler.NewHandler(svc, cat, db, rdb)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, rdb, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 停止向导后台任务
	svc.Close()

	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// loadCatalog 按 catalog.source 选择加载器；数据库目录为空时可先写入内置目录
func loadCatalog(ctx context.Context, cfg *config.Config, repo *repository.Repository, logger *zap.Logger) (*catalog.Catalog, error) {
	switch cfg.Catalog.Source {
	case config.CatalogFile:
		return catalog.Load(ctx, catalog.FileLoader{Path: cfg.Catalog.Path})
	case config.CatalogDatabase:
		if cfg.Catalog.SeedDatabase {
			builtin, err := catalog.Load(ctx, catalog.EmbeddedLoader{})
			if err != nil {
				return nil, err
			}
			seeded, err := catalog.Seed(ctx, repo.Course, repo.RequirementRule, builtin)
			if err != nil {
				return nil, err
			}
			if seeded {
				logger.Info("已写入内置课程目录", zap.Int("courses", builtin.Len()))
			}
		}
		return catalog.Load(ctx, catalog.DatabaseLoader{Courses: repo.Course, Rules: repo.RequirementRule})
	default:
		return catalog.Load(ctx, catalog.EmbeddedLoader{})
	}
}

// newKVStore 按 persistence.driver 选择键值存储
func newKVStore(cfg *config.Config, repo *repository.Repository, rdb *redis.Client) (planner.KVStore, error) {
	switch cfg.Persistence.Driver {
	case config.PersistFile:
		return repository.NewFileKV(cfg.Persistence.Dir)
	case config.PersistDatabase:
		return repo.KV, nil
	case config.PersistRedis:
		if rdb == nil {
			return nil, errors.New("persistence.driver 为 redis 但 Redis 不可用")
		}
		return rdb, nil
	default:
		return repository.NewMemoryKV(), nil
	}
}
