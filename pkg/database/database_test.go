package database

import (
	"testing"

	"skillswap_backend/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestShouldMigrate(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		force bool
		want  bool
	}{
		{"debug 模式默认迁移", "debug", false, true},
		{"release 模式默认跳过", "release", false, false},
		{"release 模式可强制开启", "release", true, true},
		{"debug 加 force 仍然迁移", "debug", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{ForceMigrate: tt.force}
			cfg.Server.Mode = tt.mode
			assert.Equal(t, tt.want, shouldMigrate(cfg))
		})
	}
}
