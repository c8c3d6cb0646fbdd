package app

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// GenerateInstanceID 生成服务实例ID
// 优先使用环境变量XT_INSTANCE_ID，否则生成UUID
func GenerateInstanceID() string {
	if id := os.Getenv("XT_INSTANCE_ID"); id != "" {
		return id
	}

	// 生成格式：xtstate-{hostname}-{uuid}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	shortUUID := uuid.New().String()[:8]
	return fmt.Sprintf("xtstate-%s-%s", hostname, shortUUID)
}
