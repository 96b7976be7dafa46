package inventory

import (
	"regexp"
	"strings"

	"github.com/xiebiao/library/internal/domain/audit"
)

// copyCodePattern 副本编号：1-4个大写字母、短横线、2位数字，如 AB-01
var copyCodePattern = regexp.MustCompile(`^[A-Z]{1,4}-\d{2}$`)

// ValidCopyCode 校验副本编号格式
func ValidCopyCode(code string) bool {
	return copyCodePattern.MatchString(code)
}

// Copy 图书的一个物理副本(库存记录)
// 不变量:IsAvailable为false当且仅当存在未归还的借阅记录
type Copy struct {
	ID          int64
	BookID      int64
	PublisherID int64
	CopyCode    string
	IsAvailable bool
	audit.Metadata
}

// NewCopy 创建可借副本(工厂方法)
func NewCopy(bookID, publisherID int64, copyCode string) *Copy {
	return &Copy{
		BookID:      bookID,
		PublisherID: publisherID,
		CopyCode:    strings.TrimSpace(copyCode),
		IsAvailable: true,
	}
}

// Borrowable 是否可以被借出
func (c *Copy) Borrowable() bool {
	return c.IsAvailable && !c.IsArchived
}
