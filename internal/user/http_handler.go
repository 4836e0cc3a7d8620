package user

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"libraryapi/internal/authz"
	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type StoreUserReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=Admin Librarian Member"`
}

type UpdateUserReq struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Role     *string `json:"role" validate:"omitempty,oneof=Admin Librarian Member"`
	Disabled *bool   `json:"disabled"`
}

// List handles GET /v1/users
// @Summary List users
// @Tags users
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /v1/users [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	if !authz.Allows(authz.Role(httpx.RoleFrom(r)), authz.ActionViewAny, authz.ResourceUser) {
		httpx.JSONError(w, http.StatusForbidden, "Unauthorized", nil)
		return
	}

	users, err := h.service.List(r.Context())
	if err != nil {
		log.Printf("list users: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
		return
	}

	httpx.JSONSuccess(w, "Users retrieved successfully", users)
}

// Get handles GET /v1/users/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !authz.AllowsUser(authz.Role(httpx.RoleFrom(r)), authz.ActionView, httpx.UserIDFrom(r), id) {
		httpx.JSONError(w, http.StatusForbidden, "Unauthorized", nil)
		return
	}

	u, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "User not found", nil)
			return
		}
		log.Printf("get user: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
		return
	}

	httpx.JSONSuccess(w, "User retrieved successfully", u)
}

// Register handles POST /v1/users (open self-registration)
// @Summary Register a user
// @Tags users
// @Success 201 {object} httpx.SuccessResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /v1/users [post]
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req StoreUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONValidationError(w, details)
		return
	}

	u, err := h.service.Register(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			httpx.JSONError(w, http.StatusConflict, "Email already in use", nil)
			return
		}
		log.Printf("register user: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
		return
	}

	httpx.JSONSuccessCreated(w, "User registered successfully", u)
}

// Update handles PUT /v1/users/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !authz.AllowsUser(authz.Role(httpx.RoleFrom(r)), authz.ActionUpdate, httpx.UserIDFrom(r), id) {
		httpx.JSONError(w, http.StatusForbidden, "Unauthorized", nil)
		return
	}

	var req UpdateUserReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "Invalid request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONValidationError(w, details)
		return
	}

	u, err := h.service.Update(r.Context(), id, Update{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Disabled: req.Disabled,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			httpx.JSONError(w, http.StatusNotFound, "User not found", nil)
		case errors.Is(err, ErrEmailTaken):
			httpx.JSONError(w, http.StatusConflict, "Email already in use", nil)
		default:
			log.Printf("update user: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
			httpx.JSONInternalError(w)
		}
		return
	}

	httpx.JSONSuccess(w, "User updated successfully", u)
}

// Delete handles DELETE /v1/users/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !authz.Allows(authz.Role(httpx.RoleFrom(r)), authz.ActionDelete, authz.ResourceUser) {
		httpx.JSONError(w, http.StatusForbidden, "Unauthorized", nil)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "User not found", nil)
			return
		}
		log.Printf("delete user: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
		return
	}

	httpx.JSONSuccess(w, "User deleted successfully", nil)
}

// Me handles GET /v1/user (current authenticated user)
func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetByID(r.Context(), httpx.UserIDFrom(r))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "User not found", nil)
			return
		}
		log.Printf("get current user: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
		return
	}

	httpx.JSONSuccess(w, "User retrieved successfully", u)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		httpx.JSONError(w, http.StatusNotFound, "User not found", nil)
		return 0, false
	}
	return id, true
}
