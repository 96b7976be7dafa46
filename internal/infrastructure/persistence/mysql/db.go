package mysql

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // 纯Go的SQLite驱动，注册为"sqlite"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 1. database.driver选择MySQL(生产)或SQLite(开发/命令行)
// 2. 配置连接池参数
// 3. 开发环境开启SQL日志
// 4. 自动迁移表结构并写入保留行
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		dialector = sqliteDialector(cfg.Database.SQLitePath)
	default:
		dialector = mysql.Open(cfg.Database.DSN())
	}

	db, err := open(dialector, logLevel)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	if cfg.Database.Driver == config.DriverSQLite {
		// SQLite单写者，单连接让并发事务排队
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	slog.Info("数据库连接成功", "driver", cfg.Database.Driver)

	// 生产环境应使用版本化的迁移脚本
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	if err := Seed(context.Background(), db); err != nil {
		return nil, fmt.Errorf("写入保留行失败: %w", err)
	}
	return db, nil
}

// OpenSQLite 打开SQLite数据库文件并完成迁移与保留行写入
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := open(sqliteDialector(path), logger.Silent)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	if err := Seed(context.Background(), db); err != nil {
		return nil, fmt.Errorf("写入保留行失败: %w", err)
	}
	return db, nil
}

func sqliteDialector(path string) gorm.Dialector {
	return sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite",
	}
}

func open(dialector gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}
	return db, nil
}

// Migrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&AuthorModel{},
		&CategoryModel{},
		&PublisherModel{},
		&BookModel{},
		&CopyModel{},
		&CopyLogModel{},
		&UserTypeModel{},
		&UserModel{},
		&BorrowModel{},
	)
}
