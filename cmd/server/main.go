package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/taoyao-code/xtstate/internal/app/bootstrap"
	cfgpkg "github.com/taoyao-code/xtstate/internal/config"
	"github.com/taoyao-code/xtstate/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// 1) 加载配置
	cfg, err := cfgpkg.Load(*configPath)
	if err != nil {
		panic(err)
	}

	// 2) 初始化日志
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	log := zap.L()

	// 3) 启动
	if err := bootstrap.Run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
