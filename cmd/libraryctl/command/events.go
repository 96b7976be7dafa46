package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/mq"
)

var (
	eventQueue string
	eventKeys  []string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "订阅领域事件并打印，Ctrl+C退出",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.MQ.URL == "" {
			return errors.New("未配置mq.url")
		}

		consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, mq.ExchangeTopic, eventQueue, eventKeys)
		if err != nil {
			return err
		}
		defer consumer.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "监听 %s %v ...\n", cfg.MQ.Exchange, eventKeys)
		return consumer.Consume(ctx, printEvent(cmd.OutOrStdout(), eventQueue))
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventQueue, "queue", "", "持久队列名，为空时使用临时队列")
	eventsCmd.Flags().StringSliceVar(&eventKeys, "key", []string{"#"}, "路由键，如 borrow.* copy.archived")
}

// printEvent 解析失败的消息重新入队
func printEvent(out io.Writer, queue string) mq.Handler {
	metrics.InitMetrics()
	if queue == "" {
		queue = "temporary"
	}
	return func(_ context.Context, d mq.Delivery) error {
		e, err := messaging.DecodeEvent(d.Body)
		metrics.MessagesConsumedTotal.WithLabelValues(queue, metrics.Result(err)).Inc()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s  %-16s actor=%d id=%s payload=%v\n",
			e.OccurredAt.Format("2006-01-02 15:04:05"), e.Type, e.ActorID, e.ID, e.Payload)
		return nil
	}
}
