package app

import (
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/xtstate/internal/config"
	"github.com/taoyao-code/xtstate/internal/xtstate"
)

// NewSharedState 构建共享状态并按配置注册槽位。
// 清单文件优先于内联列表；两者都为空时不做 setup，等待调用方通过 API 注册。
func NewSharedState(cfg cfgpkg.SlotsConfig, observer xtstate.Observer, log *zap.Logger) (*xtstate.Shared, error) {
	state := xtstate.NewShared(xtstate.WithObserver(observer))

	slots := cfg.Names
	if cfg.ManifestPath != "" {
		m, err := xtstate.LoadManifest(cfg.ManifestPath)
		if err != nil {
			return nil, err
		}
		slots = m.Slots
		log.Info("slot manifest loaded",
			zap.String("path", cfg.ManifestPath),
			zap.Int("slots", len(slots)),
		)
	}

	if len(slots) == 0 {
		log.Info("no slots configured, waiting for setup via API")
		return state, nil
	}

	if err := state.SetupSlots(slots, cfg.Force); err != nil {
		return nil, err
	}
	log.Info("slots registered", zap.Strings("slots", slots))
	return state, nil
}
