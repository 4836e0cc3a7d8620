package borrow

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"libraryapi/internal/authz"
	"libraryapi/internal/book"
	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// BorrowReq carries the due window in days from now. Absent means the
// default loan period.
type BorrowReq struct {
	DueAt *int `json:"due_at"`
}

// Borrow handles POST /v1/books/{id}/borrow
// @Summary Borrow a book
// @Description Flip the book to Borrowed and open a borrow record
// @Tags borrow
// @Security Bearer
// @Param request body BorrowReq false "Due window in days (0-30, default 14)"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /v1/books/{id}/borrow [post]
func (h *HTTPHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathBookID(w, r)
	if !ok {
		return
	}

	var req BorrowReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "Invalid request body", nil)
		return
	}
	dueDays := DefaultDueDays
	if req.DueAt != nil {
		dueDays = *req.DueAt
	}

	rec, err := h.service.Borrow(r.Context(), httpx.UserIDFrom(r), authz.Role(httpx.RoleFrom(r)), bookID, dueDays)
	if err != nil {
		h.writeWorkflowError(w, r, "borrow book", err)
		return
	}

	httpx.JSONSuccess(w, "Book borrowed successfully", rec)
}

// Return handles POST /v1/books/{id}/return
// @Summary Return a book
// @Description Close the caller's open borrow record and flip the book back
// @Tags borrow
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/books/{id}/return [post]
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathBookID(w, r)
	if !ok {
		return
	}

	rec, err := h.service.Return(r.Context(), httpx.UserIDFrom(r), authz.Role(httpx.RoleFrom(r)), bookID)
	if err != nil {
		h.writeWorkflowError(w, r, "return book", err)
		return
	}

	httpx.JSONSuccess(w, "Book returned successfully", rec)
}

// List handles GET /v1/borrow-records
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	if !authz.Allows(authz.Role(httpx.RoleFrom(r)), authz.ActionViewAny, authz.ResourceBorrowRecord) {
		httpx.JSONError(w, http.StatusForbidden, "Unauthorized", nil)
		return
	}

	records, err := h.service.List(r.Context())
	if err != nil {
		log.Printf("list borrow records: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
		return
	}
	if records == nil {
		records = []Record{}
	}

	httpx.JSONSuccess(w, "Borrow records retrieved successfully", records)
}

// Get handles GET /v1/borrow-records/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !authz.Allows(authz.Role(httpx.RoleFrom(r)), authz.ActionView, authz.ResourceBorrowRecord) {
		httpx.JSONError(w, http.StatusForbidden, "Unauthorized", nil)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		httpx.JSONError(w, http.StatusNotFound, "Borrow record not found", nil)
		return
	}

	rec, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Borrow record not found", nil)
			return
		}
		log.Printf("get borrow record: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
		return
	}

	httpx.JSONSuccess(w, "Borrow record retrieved successfully", rec)
}

func (h *HTTPHandler) writeWorkflowError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, book.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "Book not found", nil)
	case errors.Is(err, ErrForbidden):
		httpx.JSONError(w, http.StatusForbidden, "Unauthorized", nil)
	case errors.Is(err, ErrInvalidDueDays):
		httpx.JSONValidationError(w, []httpx.ErrorDetail{
			{Field: "due_at", Message: "due_at must be between 0 and 30 days"},
		})
	case errors.Is(err, ErrNotAvailable):
		httpx.JSONError(w, http.StatusBadRequest, "Book is not available for borrowing", nil)
	case errors.Is(err, ErrNotBorrowed):
		httpx.JSONError(w, http.StatusBadRequest, "Book is not currently borrowed", nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "Borrow record not found", nil)
	default:
		log.Printf("%s: request_id=%s error=%v", op, httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
	}
}

func pathBookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		httpx.JSONError(w, http.StatusNotFound, "Book not found", nil)
		return 0, false
	}
	return id, true
}
