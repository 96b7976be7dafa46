package borrow

import (
	"time"

	"github.com/xiebiao/library/internal/domain/audit"
)

// DefaultLoanDays 未指定应还日期时的借期
const DefaultLoanDays = 14

// Record 借阅记录
// ReturnDate为nil表示尚未归还；归还后记录不再变化
type Record struct {
	ID         int64
	CopyID     int64
	UserID     int64
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	audit.Metadata
}

// NewRecord 创建未归还的借阅记录
func NewRecord(copyID, userID int64, borrowDate, dueDate time.Time) *Record {
	return &Record{
		CopyID:     copyID,
		UserID:     userID,
		BorrowDate: borrowDate,
		DueDate:    dueDate,
	}
}

// Outstanding 是否尚未归还
func (r *Record) Outstanding() bool {
	return r.ReturnDate == nil
}

// IsOverdue 未归还且today的日期晚于应还日期
func (r *Record) IsOverdue(today time.Time) bool {
	if !r.Outstanding() {
		return false
	}
	return StartOfDay(today).After(StartOfDay(r.DueDate))
}

// OverdueDays 逾期天数
// 结束日期为归还日期，未归还时为today；结束日期不晚于应还日期时为0
func (r *Record) OverdueDays(today time.Time) int {
	end := today
	if r.ReturnDate != nil {
		end = *r.ReturnDate
	}
	days := DaysBetween(r.DueDate, end)
	if days < 0 {
		return 0
	}
	return days
}

// Detail 借阅报表行
type Detail struct {
	Record
	CopyCode    string
	Username    string
	Overdue     bool
	OverdueDays int
}

// StartOfDay 当天零点(UTC)
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween 按日历日计算from到to相差的天数
func DaysBetween(from, to time.Time) int {
	return int(StartOfDay(to).Sub(StartOfDay(from)).Hours() / 24)
}
