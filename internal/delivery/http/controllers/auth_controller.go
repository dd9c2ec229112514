package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "github.com/Ganeshsaykara/email-wallet/internal/delivery/http/helpers"
	"github.com/Ganeshsaykara/email-wallet/internal/domain"
)

// TokenRequest is the request body for POST /auth/token
type TokenRequest struct {
	ClientID string `json:"client_id"`
	APIKey   string `json:"api_key"`
}

// Validate implements Validator.
func (t TokenRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(t.ClientID) == "" {
		errs = append(errs, "client_id is required")
	}
	if t.APIKey == "" {
		errs = append(errs, "api_key is required")
	}
	return errs
}

// TokenResponse is the response body for POST /auth/token
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// IssueToken godoc
// @Summary Exchange API client credentials for an access token
// @Description Authenticate the relayer API client with its id and API key. Returns a JWT to send as a Bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body TokenRequest true "API client credentials"
// @Success 200 {object} helpers.APIResponse "data contains token and token_type"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/token [post]
func (c *AuthController) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.Service.IssueToken(r.Context(), req.ClientID, req.APIKey)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "could not issue token")
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, TokenResponse{Token: token, TokenType: "Bearer"})
}
