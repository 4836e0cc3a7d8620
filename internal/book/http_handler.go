package book

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"libraryapi/internal/authz"
	"libraryapi/internal/httpx"
)

const defaultPageSize = 10

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type StoreBookReq struct {
	Title         string  `json:"title" validate:"required,max=255"`
	ISBN          string  `json:"isbn" validate:"required,isbn"`
	PublishedDate *string `json:"published_date" validate:"omitempty,datetime=2006-01-02"`
	AuthorID      int64   `json:"author_id" validate:"required"`
	Status        string  `json:"status" validate:"required,oneof=Available Borrowed"`
}

type UpdateBookReq struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=255"`
	ISBN          *string `json:"isbn" validate:"omitempty,isbn"`
	PublishedDate *string `json:"published_date" validate:"omitempty,datetime=2006-01-02"`
	AuthorID      *int64  `json:"author_id" validate:"omitempty,gte=1"`
	Status        *string `json:"status" validate:"omitempty,oneof=Available Borrowed"`
}

type listBooksParams struct {
	Search   string `validate:"omitempty,max=255"`
	Page     int    `validate:"gte=1"`
	PageSize int    `validate:"gte=1,lte=100"`
	Sort     string `validate:"omitempty,oneof=asc desc"`
}

// List handles GET /v1/books
// @Summary List books
// @Description Search and paginate the catalog, author eager-loaded
// @Tags books
// @Produce json
// @Param search query string false "Free text over title, isbn and author name"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size, at most 100"
// @Param sort query string false "asc or desc by creation time"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /v1/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	params, details := parseListParams(r)
	if len(details) > 0 {
		httpx.JSONValidationError(w, details)
		return
	}

	q := Query{
		Search: params.Search,
		Sort:   params.Sort,
		Limit:  params.PageSize,
		Offset: (params.Page - 1) * params.PageSize,
	}

	books, total, err := h.service.List(r.Context(), q)
	if err != nil {
		log.Printf("list books: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
		return
	}
	if books == nil {
		books = []Book{}
	}

	httpx.JSONSuccess(w, "Books retrieved successfully", map[string]any{
		"count":    total,
		"next":     pageURL(r, params.Page+1, params.Page*params.PageSize < total),
		"previous": pageURL(r, params.Page-1, params.Page > 1),
		"books":    books,
	})
}

// Get handles GET /v1/books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Book not found", nil)
			return
		}
		log.Printf("get book: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
		return
	}

	httpx.JSONSuccess(w, "Book retrieved successfully", b)
}

// Create handles POST /v1/books
// @Summary Create a book
// @Tags books
// @Security Bearer
// @Success 201 {object} httpx.SuccessResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /v1/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !authz.Allows(authz.Role(httpx.RoleFrom(r)), authz.ActionCreate, authz.ResourceBook) {
		httpx.JSONError(w, http.StatusForbidden, "Unauthorized", nil)
		return
	}

	var req StoreBookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONValidationError(w, details)
		return
	}

	b := Book{
		Title:    req.Title,
		ISBN:     req.ISBN,
		AuthorID: req.AuthorID,
		Status:   req.Status,
	}
	if req.PublishedDate != nil {
		t, _ := time.Parse("2006-01-02", *req.PublishedDate)
		b.PublishedDate = &t
	}

	if err := h.service.Create(r.Context(), &b); err != nil {
		h.writeMutationError(w, r, "create book", err)
		return
	}

	httpx.JSONSuccessCreated(w, "Book created successfully", b)
}

// Update handles PUT /v1/books/{id}; all fields are optional.
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !authz.Allows(authz.Role(httpx.RoleFrom(r)), authz.ActionUpdate, authz.ResourceBook) {
		httpx.JSONError(w, http.StatusForbidden, "Unauthorized", nil)
		return
	}

	var req UpdateBookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONValidationError(w, details)
		return
	}

	upd := Update{
		Title:    req.Title,
		ISBN:     req.ISBN,
		AuthorID: req.AuthorID,
		Status:   req.Status,
	}
	if req.PublishedDate != nil {
		t, _ := time.Parse("2006-01-02", *req.PublishedDate)
		upd.PublishedDate = &t
	}

	b, err := h.service.Update(r.Context(), id, upd)
	if err != nil {
		h.writeMutationError(w, r, "update book", err)
		return
	}

	httpx.JSONSuccess(w, "Book updated successfully", b)
}

// Delete handles DELETE /v1/books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !authz.Allows(authz.Role(httpx.RoleFrom(r)), authz.ActionDelete, authz.ResourceBook) {
		httpx.JSONError(w, http.StatusForbidden, "Unauthorized", nil)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Book not found", nil)
			return
		}
		log.Printf("delete book: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
		return
	}

	httpx.JSONSuccess(w, "Book deleted successfully", nil)
}

func (h *HTTPHandler) writeMutationError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "Book not found", nil)
	case errors.Is(err, ErrISBNTaken):
		httpx.JSONError(w, http.StatusConflict, "A book with this ISBN already exists", nil)
	case errors.Is(err, ErrAuthorNotFound):
		httpx.JSONValidationError(w, []httpx.ErrorDetail{
			{Field: "author_id", Message: "author_id must reference an existing author"},
		})
	default:
		log.Printf("%s: request_id=%s error=%v", op, httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
	}
}

func parseListParams(r *http.Request) (listBooksParams, []httpx.ErrorDetail) {
	query := r.URL.Query()
	params := listBooksParams{
		Search:   query.Get("search"),
		Page:     1,
		PageSize: defaultPageSize,
		Sort:     query.Get("sort"),
	}

	var details []httpx.ErrorDetail
	if raw := query.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "page", Message: "page must be an integer"})
		} else {
			params.Page = v
		}
	}
	if raw := query.Get("page_size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "page_size", Message: "page_size must be an integer"})
		} else {
			params.PageSize = v
		}
	}
	if len(details) > 0 {
		return params, details
	}

	return params, httpx.ValidateStruct(params)
}

// pageURL builds the next/previous link for the list envelope, nil when the
// page does not exist.
func pageURL(r *http.Request, page int, exists bool) *string {
	if !exists {
		return nil
	}
	q := r.URL.Query()
	q.Set("page", strconv.Itoa(page))
	u := fmt.Sprintf("%s?%s", r.URL.Path, q.Encode())
	return &u
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		httpx.JSONError(w, http.StatusNotFound, "Book not found", nil)
		return 0, false
	}
	return id, true
}
