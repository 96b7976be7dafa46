// Package router 组装中间件链并注册 /api/v1 路由
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/response"
)

// Handlers 全部HTTP处理器
type Handlers struct {
	Authors    *handler.LookupHandler
	Categories *handler.LookupHandler
	Publishers *handler.LookupHandler
	Books      *handler.BookHandler
	Copies     *handler.CopyHandler
	Borrows    *handler.BorrowHandler
	Users      *handler.UserHandler
	UserTypes  *handler.UserTypeHandler
}

// Options 路由可选项
type Options struct {
	Mode        string // gin模式：debug/release/test
	RateLimiter *middleware.RateLimiter
	LogSink     middleware.LogSink
	MetricsPath string // 为空时不暴露/metrics
	Swagger     bool
}

// New 创建Gin引擎
// 中间件顺序：recovery → request id → tracing → metrics → actor → request log → rate limit
// 被限流的请求同样写入请求日志与异常日志
func New(h Handlers, opts Options) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	r := gin.New()

	r.Use(middleware.Recovery(), middleware.RequestID(), middleware.Tracing(), middleware.Metrics())
	r.Use(middleware.OptionalActor(), middleware.RequestLog(opts.LogSink))
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Handler())
	}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	if opts.MetricsPath != "" {
		r.GET(opts.MetricsPath, gin.WrapH(metrics.Handler()))
	}
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	write := middleware.RequireActor()

	lookups(v1.Group("/authors"), h.Authors, write)
	lookups(v1.Group("/categories"), h.Categories, write)
	lookups(v1.Group("/publishers"), h.Publishers, write)

	books := v1.Group("/books")
	{
		books.GET("", h.Books.List)
		books.POST("", write, h.Books.Create)
		books.GET("/:id", h.Books.Get)
		books.PUT("/:id", write, h.Books.Update)
		books.POST("/:id/archive", write, h.Books.Archive)
		books.GET("/:id/copies", h.Copies.ListForBook)
		books.GET("/:id/copies/available", h.Copies.Available)
	}

	copies := v1.Group("/copies")
	{
		copies.POST("", write, h.Copies.Create)
		copies.GET("/:id", h.Copies.Get)
		copies.GET("/:id/history", h.Copies.History)
		copies.POST("/:id/return", write, h.Copies.Return)
		copies.POST("/:id/archive", write, h.Copies.Archive)
	}

	borrows := v1.Group("/borrows")
	{
		// 借阅人即操作人，不要求X-Actor-ID
		borrows.POST("", h.Borrows.Borrow)
		borrows.GET("/overdue", h.Borrows.Overdue)
		borrows.GET("/details", h.Borrows.Details)
		borrows.GET("/:id", h.Borrows.Get)
		borrows.POST("/:id/return", write, h.Borrows.Return)
	}

	users := v1.Group("/users")
	{
		users.GET("", h.Users.List)
		users.POST("", write, h.Users.Create)
		users.GET("/:id", h.Users.Get)
		users.PUT("/:id", write, h.Users.Update)
		users.POST("/:id/archive", write, h.Users.Archive)
		users.GET("/:id/borrows", h.Borrows.ForUser)
	}

	types := v1.Group("/user-types")
	{
		types.GET("", h.UserTypes.List)
		types.POST("", write, h.UserTypes.Create)
		types.GET("/:id", h.UserTypes.Get)
		types.PUT("/:id", write, h.UserTypes.Rename)
		types.POST("/:id/archive", write, h.UserTypes.Archive)
	}

	return r
}

func lookups(g *gin.RouterGroup, h *handler.LookupHandler, write gin.HandlerFunc) {
	g.GET("", h.List)
	g.POST("", write, h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", write, h.Rename)
	g.POST("/:id/archive", write, h.Archive)
}
