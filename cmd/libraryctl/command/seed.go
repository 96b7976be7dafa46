package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "迁移表结构并写入保留行(Unknown、Admin、Normal)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// NewDB内部完成迁移与保留行写入，可重复执行
		_, closeDB, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		fmt.Fprintf(cmd.OutOrStdout(), "✓ 数据库已初始化 (driver=%s)\n", cfg.Database.Driver)
		return nil
	},
}
