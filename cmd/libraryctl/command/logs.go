package command

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
)

var (
	logCount      int64
	logExceptions bool
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "查看Redis中最近的请求日志或异常日志",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := redis.NewClient(cmd.Context(), cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()

		store := redis.NewLogStore(client, cfg.Redis.RequestLogStream, cfg.Redis.ExceptionStream, cfg.Redis.StreamMaxLen)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()

		if logExceptions {
			logs, err := store.RecentExceptions(cmd.Context(), logCount)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "TIME\tREQUEST\tMETHOD\tPATH\tCODE\tMESSAGE\tCAUSE")
			for _, l := range logs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
					l.Time.Format("01-02 15:04:05"), l.RequestID, l.Method, l.Path, l.Code, l.Message, l.Cause)
			}
			return nil
		}

		logs, err := store.RecentRequests(cmd.Context(), logCount)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "TIME\tREQUEST\tMETHOD\tPATH\tSTATUS\tLATENCY\tACTOR")
		for _, l := range logs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%d\n",
				l.Time.Format("01-02 15:04:05"), l.RequestID, l.Method, l.Path, l.Status, l.Latency, l.ActorID)
		}
		return nil
	},
}

func init() {
	logsCmd.Flags().Int64VarP(&logCount, "count", "n", 20, "条数")
	logsCmd.Flags().BoolVar(&logExceptions, "exceptions", false, "查看异常日志")
}
