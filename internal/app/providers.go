// Package app 组装仓储、领域服务与用例
// 依赖关系由Wire在编译期生成(wire_gen.go)，cmd/api与cmd/libraryctl共用
package app

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	appborrow "github.com/xiebiao/library/internal/application/borrow"
	appcatalog "github.com/xiebiao/library/internal/application/catalog"
	appinventory "github.com/xiebiao/library/internal/application/inventory"
	"github.com/xiebiao/library/internal/application/shared"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/audit"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/cascade"
	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/domain/inventory"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/library/pkg/metrics"
)

// UseCases 全部应用层用例
type UseCases struct {
	Lookups      *appcatalog.LookupUseCase
	Books        *appcatalog.BookUseCase
	ManageCopies *appinventory.ManageCopiesUseCase
	QueryCopies  *appinventory.QueryCopiesUseCase
	BorrowCopy   *appborrow.BorrowCopyUseCase
	ReturnBorrow *appborrow.ReturnBorrowUseCase
	QueryBorrows *appborrow.QueryBorrowsUseCase
	Register     *appuser.RegisterUseCase
	Users        *appuser.UserUseCase
	UserTypes    *appuser.UserTypeUseCase
}

// repositorySet 仓储层
var repositorySet = wire.NewSet(
	mysql.NewLookupRepository,
	mysql.NewBookRepository,
	mysql.NewCopyRepository,
	mysql.NewCopyLogRepository,
	mysql.NewBorrowRepository,
	mysql.NewUserRepository,
	mysql.NewUserTypeRepository,
	mysql.NewReassigner,
	ProvideTxManager,
	wire.Bind(new(shared.Transactor), new(*mysql.TxManager)),
)

// domainSet 领域层
var domainSet = wire.NewSet(
	ProvideAuditPolicy,
	cascade.NewPolicy,
	catalog.NewService,
	ProvideInventoryService,
	ProvideUserService,
	ProvideBorrowService,
)

// applicationSet 应用层
var applicationSet = wire.NewSet(
	appcatalog.NewLookupUseCase,
	appcatalog.NewBookUseCase,
	appinventory.NewManageCopiesUseCase,
	appinventory.NewQueryCopiesUseCase,
	appborrow.NewBorrowCopyUseCase,
	appborrow.NewReturnBorrowUseCase,
	appborrow.NewQueryBorrowsUseCase,
	appuser.NewRegisterUseCase,
	appuser.NewUserUseCase,
	appuser.NewUserTypeUseCase,
	wire.Struct(new(UseCases), "*"),
)

// ProviderSet 供wire.Build使用
var ProviderSet = wire.NewSet(repositorySet, domainSet, applicationSet)

// ProvideTxManager 按配置设置重试次数，重试计入指标
func ProvideTxManager(db *gorm.DB, cfg *config.Config) *mysql.TxManager {
	metrics.InitMetrics()
	return mysql.NewTxManager(db,
		mysql.WithMaxAttempts(cfg.Database.TxMaxAttempts),
		mysql.WithBaseDelay(cfg.Database.TxBaseDelay),
		mysql.WithRetryObserver(metrics.ObserveTxRetry),
	)
}

func ProvideAuditPolicy() *audit.Policy {
	return audit.NewPolicy(audit.SystemClock)
}

// ProvideInventoryService 副本归档需要级联到图书
func ProvideInventoryService(repo inventory.Repository, logs inventory.LogRepository, books catalog.Service, ap *audit.Policy) inventory.Service {
	return inventory.NewService(repo, logs, books, ap)
}

func ProvideUserService(repo user.Repository, types user.TypeRepository, ap *audit.Policy, cp *cascade.Policy) user.Service {
	return user.NewService(repo, types, ap, cp)
}

// ProvideBorrowService 借期取自配置
func ProvideBorrowService(cfg *config.Config, repo borrow.Repository, copies inventory.Service, users user.Service, ap *audit.Policy) borrow.Service {
	return borrow.NewService(repo, copies, users, ap, borrow.WithLoanDays(cfg.Borrow.DefaultLoanDays))
}
