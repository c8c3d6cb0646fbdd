package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taoyao-code/xtstate/internal/api"
	"github.com/taoyao-code/xtstate/internal/api/middleware"
	"github.com/taoyao-code/xtstate/internal/app"
	cfgpkg "github.com/taoyao-code/xtstate/internal/config"
	"github.com/taoyao-code/xtstate/internal/metrics"
)

// Run 统一启动流程
func Run(cfg *cfgpkg.Config, log *zap.Logger) error {
	instanceID := app.GenerateInstanceID()
	log.Info("starting xtstate server", zap.String("instance", instanceID))

	// 阶段1: 指标
	reg, appm := app.NewMetrics()
	metricsHandler := metrics.Handler(reg)

	// 阶段2: 共享状态（可选地从清单/配置注册槽位）
	state, err := app.NewSharedState(cfg.Slots, metrics.StateObserver(appm), log)
	if err != nil {
		log.Error("state initialization failed", zap.Error(err))
		return err
	}

	// 阶段3: HTTP 服务，readyz 与激活状态联动
	httpSrv := app.NewHTTPServer(cfg.HTTP, cfg.Metrics.Path, metricsHandler, state.Activated)

	var limiter *middleware.RateLimiter
	if cfg.API.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.API.RateLimit.PerSecond, cfg.API.RateLimit.Burst)
	}
	handler := api.NewSlotHandler(state, appm, log)
	httpSrv.Register(func(r *gin.Engine) {
		api.RegisterRoutes(r, handler, api.RouteOptions{
			Auth: middleware.AuthConfig{
				Enabled: cfg.API.Auth.Enabled,
				APIKeys: cfg.API.Auth.APIKeys,
			},
			RateLimit: limiter,
		})
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
		errCh <- httpSrv.Start()
	}()

	// 信号处理，优雅关闭
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("http server error", zap.Error(err))
		return err
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}
