package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"gatepass-nexus/backend/config"
	"gatepass-nexus/backend/internal/api/handler"
	"gatepass-nexus/backend/internal/api/middleware"
	"gatepass-nexus/backend/internal/api/router"
	"gatepass-nexus/backend/internal/notify"
	"gatepass-nexus/backend/internal/realtime"
	"gatepass-nexus/backend/internal/repository"
	"gatepass-nexus/backend/internal/service"
	"gatepass-nexus/backend/pkg/database"
	"gatepass-nexus/backend/pkg/jwt"
	applogger "gatepass-nexus/backend/pkg/logger"
	"gatepass-nexus/backend/pkg/redis"
	"gatepass-nexus/backend/pkg/telemetry"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认搜索 ./config.yaml 与 ./config/config.yaml）")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log, cfg.Telemetry.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("realtime", cfg.Feature.RealtimeEnabled),
	)

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. 链路追踪（未配置 OTLP 地址时为空操作）
	shutdownTracing := telemetry.Setup(rootCtx, &cfg.Telemetry, logger)

	// 4. 连接数据库并执行迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 5. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	// 降级后：不限流、编号使用时间戳、变更只在本实例广播、通知只写日志
	var (
		limiter  middleware.RateLimiter
		sequence service.Sequencer
		broker   realtime.Broker
		notices  handler.NoticeReader
		sinks    = []notify.Sink{notify.NewLogSink(logger)}
	)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，限流与跨实例推送将不可用", zap.Error(err))
		rdb = nil
	} else {
		limiter, sequence, broker, notices = rdb, rdb, rdb, rdb
		sinks = append(sinks, notify.NewInboxSink(rdb, logger))
	}

	// 6. 实时变更总线
	var (
		hub    *realtime.Hub
		events realtime.Publisher
	)
	if cfg.Feature.RealtimeEnabled {
		hub = realtime.NewHub(logger)
		bus := realtime.NewBus(hub, broker, logger)
		events = bus
		go func() {
			if err := bus.Run(rootCtx); err != nil && rootCtx.Err() == nil {
				logger.Error("变更总线异常退出", zap.Error(err))
			}
		}()
	}

	// 7. 依赖注入: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	codes := service.NewCodeGenerator(sequence, logger)
	svc := service.NewService(repo, codes, events, notify.Multi(sinks...), logger)
	h := handler.NewHandler(svc, notices, hub, logger)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, limiter, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	// SSE 长连接不设置 WriteTimeout
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           otelhttp.NewHandler(engine, cfg.Telemetry.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return rootCtx },
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	// 先取消根上下文，结束总线订阅与 SSE 连接
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("链路追踪关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
