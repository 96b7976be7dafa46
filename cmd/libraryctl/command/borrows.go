package command

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/interface/http/dto"
)

var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "列出逾期未还的借阅",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBorrowReport(cmd, true)
	},
}

var borrowsCmd = &cobra.Command{
	Use:   "borrows",
	Short: "借阅报表(含副本编号、用户名、逾期天数)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBorrowReport(cmd, false)
	},
}

func runBorrowReport(cmd *cobra.Command, overdueOnly bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, closeDB, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	q := useCases(cfg, db).QueryBorrows
	var rows []*borrow.Detail
	if overdueOnly {
		rows, err = q.ListOverdue(cmd.Context())
	} else {
		rows, err = q.ListDetails(cmd.Context())
	}
	if err != nil {
		return err
	}
	printDetails(cmd.OutOrStdout(), rows)
	return nil
}

func printDetails(out io.Writer, rows []*borrow.Detail) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "没有记录")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOPY\tUSER\tBORROWED\tDUE\tRETURNED\tOVERDUE")
	for _, r := range rows {
		returned := "-"
		if r.ReturnDate != nil {
			returned = r.ReturnDate.Format(dto.DateLayout)
		}
		overdue := "-"
		if r.OverdueDays > 0 {
			overdue = fmt.Sprintf("%d天", r.OverdueDays)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.CopyCode, r.Username,
			r.BorrowDate.Format(dto.DateLayout), r.DueDate.Format(dto.DateLayout), returned, overdue)
	}
	_ = w.Flush()
}
