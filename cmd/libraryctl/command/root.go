// Package command libraryctl运维命令
package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/app"
	"github.com/xiebiao/library/internal/application/shared"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/mysql"
)

var (
	cfgFile    string // 配置文件路径，为空时按LIBRARY_ENV加载
	sqlitePath string // 覆盖database.sqlite_path
)

var rootCmd = &cobra.Command{
	Use:   "libraryctl",
	Short: "libraryctl - 图书馆后台运维工具",
	Long: `libraryctl 直接连接数据库与消息代理，用于：
- 初始化表结构与保留行
- 查看逾期借阅与借阅报表
- 订阅并打印领域事件
- 查看Redis中的请求/异常日志`,
	SilenceUsage: true,
}

// Execute 由main调用
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径")
	rootCmd.PersistentFlags().StringVar(&sqlitePath, "db", "", "SQLite数据库文件(覆盖配置)")

	rootCmd.AddCommand(seedCmd, overdueCmd, borrowsCmd, eventsCmd, logsCmd)
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if sqlitePath != "" {
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.SQLitePath = sqlitePath
	}
	return cfg, nil
}

// openDB 打开数据库(会执行迁移与保留行写入)
func openDB(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}, nil
}

// useCases 命令行只读查询不发布事件
func useCases(cfg *config.Config, db *gorm.DB) *app.UseCases {
	return app.InitializeUseCases(cfg, db, shared.NoopPublisher{})
}
