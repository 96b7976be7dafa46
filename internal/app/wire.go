//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/application/shared"
	"github.com/xiebiao/library/internal/infrastructure/config"
)

// InitializeUseCases 由 `wire gen ./internal/app` 生成实现
func InitializeUseCases(cfg *config.Config, db *gorm.DB, events shared.EventPublisher) *UseCases {
	wire.Build(ProviderSet)
	return nil
}
