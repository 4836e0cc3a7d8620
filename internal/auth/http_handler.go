package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"libraryapi/internal/httpx"
	"libraryapi/internal/user"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message     string    `json:"message"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Data        user.User `json:"data"`
}

// Login handles POST /v1/login
// @Summary User login
// @Description Authenticate with email and password, receive a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginReq true "Login request"
// @Success 200 {object} loginResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /v1/login [post]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "Invalid request body", nil)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONValidationError(w, details)
		return
	}

	token, u, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.JSONError(w, http.StatusUnprocessableEntity,
				"The provided credentials are incorrect.",
				map[string][]string{"email": {"The provided credentials are incorrect."}})
			return
		}
		log.Printf("login: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(loginResponse{
		Message:     "Login Successful",
		AccessToken: token,
		TokenType:   "Bearer",
		Data:        u,
	})
}

// Logout handles POST /v1/logout
// @Summary User logout
// @Description Revoke the bearer token used on this request
// @Tags auth
// @Security Bearer
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /v1/logout [post]
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := httpx.TokenFrom(r)
	if token == "" {
		httpx.JSONError(w, http.StatusUnauthorized, "User not authenticated", nil)
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			httpx.JSONError(w, http.StatusUnauthorized, "User not authenticated", nil)
			return
		}
		log.Printf("logout: request_id=%s error=%v", httpx.RequestIDFrom(r), err)
		httpx.JSONInternalError(w)
		return
	}

	httpx.JSONSuccess(w, "Logged out successfully", nil)
}
