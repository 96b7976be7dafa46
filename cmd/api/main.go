// @title           Library API
// @version         1.0
// @description     图书馆管理后台：目录、库存、借阅与用户
// @BasePath        /
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"

	_ "github.com/xiebiao/library/docs"
	"github.com/xiebiao/library/internal/app"
	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

func main() {
	if err := run(); err != nil {
		slog.Error("服务异常退出", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}

	// 2. 日志
	log, closer, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer closer.Close()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. 链路追踪(可选)
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(tracing.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRate:  cfg.Tracing.SampleRate,
		})
		if err != nil {
			return err
		}
		defer shutdown(context.Background())
	}
	if cfg.Metrics.Enabled {
		metrics.InitMetrics()
	}

	// 4. 数据库(启动时迁移并写入保留行)
	db, err := mysql.NewDB(cfg)
	if err != nil {
		return fmt.Errorf("初始化数据库失败: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	// 5. Redis请求日志(可选，失败时降级为只写slog)
	var sink middleware.LogSink
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("Redis不可用，请求日志仅输出到slog", "error", err)
		} else {
			defer client.Close()
			sink = redis.NewLogStore(client, cfg.Redis.RequestLogStream, cfg.Redis.ExceptionStream, cfg.Redis.StreamMaxLen)
		}
	}

	// 6. 领域事件发布者
	events, closeEvents, err := messaging.New(cfg.MQ)
	if err != nil {
		return err
	}
	defer closeEvents()

	// 7. 依赖注入
	uc := app.InitializeUseCases(cfg, db, events)
	engine := router.New(router.Handlers{
		Authors:    handler.NewLookupHandler(catalog.KindAuthor, uc.Lookups),
		Categories: handler.NewLookupHandler(catalog.KindCategory, uc.Lookups),
		Publishers: handler.NewLookupHandler(catalog.KindPublisher, uc.Lookups),
		Books:      handler.NewBookHandler(uc.Books),
		Copies:     handler.NewCopyHandler(uc.ManageCopies, uc.QueryCopies),
		Borrows:    handler.NewBorrowHandler(uc.BorrowCopy, uc.ReturnBorrow, uc.QueryBorrows),
		Users:      handler.NewUserHandler(uc.Register, uc.Users),
		UserTypes:  handler.NewUserTypeHandler(uc.UserTypes),
	}, routerOptions(cfg, sink))

	// 8. gRPC健康检查(可选)
	if cfg.Server.GRPCHealthPort > 0 {
		gs, err := startHealthServer(ctx, cfg.Server.GRPCHealthPort, db)
		if err != nil {
			return err
		}
		defer gs.GracefulStop()
	}

	// 9. 启动HTTP服务，收到信号后优雅退出
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP服务启动", "addr", srv.Addr, "mode", cfg.Server.Mode, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP服务异常: %w", err)
	case <-ctx.Done():
	}

	slog.Info("正在关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func routerOptions(cfg *config.Config, sink middleware.LogSink) router.Options {
	opts := router.Options{
		Mode:    cfg.Server.Mode,
		LogSink: sink,
		Swagger: cfg.Server.Mode != "release",
	}
	if cfg.RateLimit.Enabled {
		opts.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
	}
	return opts
}

// startHealthServer 暴露标准grpc.health.v1服务，状态跟随数据库连通性
func startHealthServer(ctx context.Context, port int, db *gorm.DB) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("监听gRPC健康检查端口失败: %w", err)
	}
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	go watchDB(ctx, db, hs)

	go func() {
		if err := gs.Serve(lis); err != nil {
			slog.Error("gRPC健康检查服务退出", "error", err)
		}
	}()
	slog.Info("gRPC健康检查启动", "port", port)
	return gs, nil
}

// watchDB 每10秒ping一次数据库并更新健康状态
func watchDB(ctx context.Context, db *gorm.DB, hs *health.Server) {
	check := func() {
		status := healthpb.HealthCheckResponse_SERVING
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(pingCtx) != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		hs.SetServingStatus("", status)
	}

	check()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-ticker.C:
			check()
		}
	}
}
