package xtstate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest 槽位清单文件：列出服务启动时注册的全部槽位标识符
type Manifest struct {
	Slots []string `yaml:"slots"`
}

// LoadManifest 从 YAML 文件加载槽位清单，重复标识符按集合语义折叠
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	seen := make(map[string]struct{}, len(m.Slots))
	uniq := m.Slots[:0]
	for _, slot := range m.Slots {
		if _, dup := seen[slot]; dup {
			continue
		}
		seen[slot] = struct{}{}
		uniq = append(uniq, slot)
	}
	m.Slots = uniq
	return &m, nil
}
