package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/internal/domain/catalog"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/pkg/response"
)

// LookupUseCase 作者/分类/出版社用例
type LookupUseCase interface {
	Create(ctx context.Context, kind catalog.Kind, name string, actorID int64) (*catalog.Lookup, error)
	Get(ctx context.Context, kind catalog.Kind, id int64) (*catalog.Lookup, error)
	List(ctx context.Context, kind catalog.Kind) ([]*catalog.Lookup, error)
	Rename(ctx context.Context, kind catalog.Kind, id int64, name string, actorID int64) (*catalog.Lookup, error)
	Archive(ctx context.Context, kind catalog.Kind, id, actorID int64) (int64, error)
}

// LookupHandler 三种查找表共用一个处理器，按kind区分
type LookupHandler struct {
	kind    catalog.Kind
	lookups LookupUseCase
}

func NewLookupHandler(kind catalog.Kind, lookups LookupUseCase) *LookupHandler {
	return &LookupHandler{kind: kind, lookups: lookups}
}

// Create 创建作者/分类/出版社
// @Summary      创建查找表记录
// @Tags         目录
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID header int true "操作人ID"
// @Param        request body dto.LookupRequest true "名称"
// @Success      201 {object} response.Response{data=dto.LookupResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "名称已存在"
// @Router       /api/v1/authors [post]
// @Router       /api/v1/categories [post]
// @Router       /api/v1/publishers [post]
func (h *LookupHandler) Create(c *gin.Context) {
	var req dto.LookupRequest
	if !bind(c, &req) {
		return
	}
	l, err := h.lookups.Create(c.Request.Context(), h.kind, req.Name, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewLookupResponse(l))
}

// Get 查询单条(含已归档)
// @Summary      查询查找表记录
// @Tags         目录
// @Produce      json
// @Param        id path int true "ID"
// @Success      200 {object} response.Response{data=dto.LookupResponse}
// @Failure      404 {object} response.Response "不存在"
// @Router       /api/v1/authors/{id} [get]
func (h *LookupHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	l, err := h.lookups.Get(c.Request.Context(), h.kind, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewLookupResponse(l))
}

// List 未归档记录
func (h *LookupHandler) List(c *gin.Context) {
	ls, err := h.lookups.List(c.Request.Context(), h.kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewLookupList(ls))
}

// Rename 重命名
// @Summary      重命名查找表记录
// @Tags         目录
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID header int true "操作人ID"
// @Param        id path int true "ID"
// @Param        request body dto.LookupRequest true "新名称"
// @Success      200 {object} response.Response{data=dto.LookupResponse}
// @Failure      409 {object} response.Response "名称冲突或保留行"
// @Router       /api/v1/authors/{id} [put]
func (h *LookupHandler) Rename(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.LookupRequest
	if !bind(c, &req) {
		return
	}
	l, err := h.lookups.Rename(c.Request.Context(), h.kind, id, req.Name, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewLookupResponse(l))
}

// Archive 归档，引用它的图书改指向Unknown
// @Summary      归档查找表记录
// @Tags         目录
// @Produce      json
// @Param        X-Actor-ID header int true "操作人ID"
// @Param        id path int true "ID"
// @Success      200 {object} response.Response{data=dto.ArchiveResponse}
// @Failure      409 {object} response.Response "已归档或保留行"
// @Router       /api/v1/authors/{id}/archive [post]
func (h *LookupHandler) Archive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	moved, err := h.lookups.Archive(c.Request.Context(), h.kind, id, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.ArchiveResponse{ID: id, Moved: moved})
}

// BookUseCase 图书用例
type BookUseCase interface {
	Create(ctx context.Context, in catalog.BookInput, actorID int64) (*catalog.Book, error)
	Get(ctx context.Context, id int64) (*catalog.Book, error)
	List(ctx context.Context) ([]*catalog.Book, error)
	Update(ctx context.Context, id int64, in catalog.BookInput, actorID int64) (*catalog.Book, error)
	Archive(ctx context.Context, id, actorID int64) (*catalog.Book, error)
}

// BookHandler 图书HTTP处理器
type BookHandler struct {
	books BookUseCase
}

func NewBookHandler(books BookUseCase) *BookHandler {
	return &BookHandler{books: books}
}

// Create 新增图书
// @Summary      新增图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID header int true "操作人ID"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      201 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "引用的作者/分类/出版社不存在"
// @Router       /api/v1/books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req dto.BookRequest
	if !bind(c, &req) {
		return
	}
	b, err := h.books.Create(c.Request.Context(), req.ToInput(), actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewBookResponse(b))
}

// Get 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.books.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBookResponse(b))
}

// List 未归档图书
// @Summary      图书列表
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]dto.BookResponse}
// @Router       /api/v1/books [get]
func (h *BookHandler) List(c *gin.Context) {
	bs, err := h.books.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBookList(bs))
}

// Update 修改图书
// @Summary      修改图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        X-Actor-ID header int true "操作人ID"
// @Param        id path int true "图书ID"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      409 {object} response.Response "图书已归档"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.BookRequest
	if !bind(c, &req) {
		return
	}
	b, err := h.books.Update(c.Request.Context(), id, req.ToInput(), actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBookResponse(b))
}

// Archive 归档图书
// @Summary      归档图书
// @Tags         图书
// @Produce      json
// @Param        X-Actor-ID header int true "操作人ID"
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      409 {object} response.Response "已归档"
// @Router       /api/v1/books/{id}/archive [post]
func (h *BookHandler) Archive(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.books.Archive(c.Request.Context(), id, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBookResponse(b))
}
