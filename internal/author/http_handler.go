package author

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"libraryapi/internal/authz"
	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// AuthorReq is the full payload; author create and update both require it.
type AuthorReq struct {
	Name      string  `json:"name" validate:"required"`
	Bio       *string `json:"bio"`
	Birthdate *string `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
}

func (req AuthorReq) toAuthor() Author {
	a := Author{Name: req.Name, Bio: req.Bio}
	if req.Birthdate != nil {
		// Validated against the layout already.
		t, _ := time.Parse("2006-01-02", *req.Birthdate)
		a.Birthdate = &t
	}
	return a
}

// List handles GET /v1/authors
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	authors, err := h.service.List(r.Context())
	if err != nil {
		log.Printf("list authors: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
		return
	}

	httpx.JSONSuccess(w, "Authors retrieved successfully", authors)
}

// Get handles GET /v1/authors/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	a, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Author not found", nil)
			return
		}
		log.Printf("get author: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
		return
	}

	httpx.JSONSuccess(w, "Author retrieved successfully", a)
}

// Create handles POST /v1/authors
// @Summary Create an author
// @Tags authors
// @Security Bearer
// @Success 201 {object} httpx.SuccessResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /v1/authors [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !authz.Allows(authz.Role(httpx.RoleFrom(r)), authz.ActionCreate, authz.ResourceAuthor) {
		httpx.JSONError(w, http.StatusForbidden, "Unauthorized", nil)
		return
	}

	var req AuthorReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONValidationError(w, details)
		return
	}

	a := req.toAuthor()
	if err := h.service.Create(r.Context(), &a); err != nil {
		log.Printf("create author: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
		return
	}

	httpx.JSONSuccessCreated(w, "Author created successfully", a)
}

// Update handles PUT /v1/authors/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !authz.Allows(authz.Role(httpx.RoleFrom(r)), authz.ActionUpdate, authz.ResourceAuthor) {
		httpx.JSONError(w, http.StatusForbidden, "Unauthorized", nil)
		return
	}

	var req AuthorReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONValidationError(w, details)
		return
	}

	a := req.toAuthor()
	a.ID = id
	if err := h.service.Update(r.Context(), &a); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Author not found", nil)
			return
		}
		log.Printf("update author: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
		return
	}

	httpx.JSONSuccess(w, "Author updated successfully", a)
}

// Delete handles DELETE /v1/authors/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !authz.Allows(authz.Role(httpx.RoleFrom(r)), authz.ActionDelete, authz.ResourceAuthor) {
		httpx.JSONError(w, http.StatusForbidden, "Unauthorized", nil)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "Author not found", nil)
			return
		}
		log.Printf("delete author: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
		return
	}

	httpx.JSONSuccess(w, "Author deleted successfully", nil)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		httpx.JSONError(w, http.StatusNotFound, "Author not found", nil)
		return 0, false
	}
	return id, true
}
