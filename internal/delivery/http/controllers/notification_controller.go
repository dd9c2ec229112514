package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Ganeshsaykara/email-wallet/internal/delivery/http/helpers"
	"github.com/Ganeshsaykara/email-wallet/internal/domain"
)

// PreviewRequest is the request body for POST /notifications/preview.
type PreviewRequest struct {
	MessageText     string `json:"message_text"`
	TransactionHash string `json:"transaction_hash"`
}

// PreviewResponse is the response body for POST /notifications/preview.
type PreviewResponse struct {
	HTML string `json:"html"`
}

// SendNotificationRequest is the request body for POST /notifications.
type SendNotificationRequest struct {
	Recipient       string `json:"recipient"`
	MessageText     string `json:"message_text"`
	TransactionHash string `json:"transaction_hash"`
}

// Validate implements Validator. Message text and hash are passed through as is.
func (s SendNotificationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Recipient) == "" {
		errs = append(errs, "recipient is required")
	}
	return errs
}

// NotificationSuccessResponse is the success response envelope for a single notification.
type NotificationSuccessResponse struct {
	Data  *domain.Notification `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ListNotificationsResponse is the data of GET /notifications.
type ListNotificationsResponse struct {
	Items      []*domain.Notification `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

type NotificationController struct {
	Logger  *slog.Logger
	Service domain.NotificationService
}

func NewNotificationController(logger *slog.Logger, svc domain.NotificationService) *NotificationController {
	return &NotificationController{
		Logger:  logger,
		Service: svc,
	}
}

// Preview godoc
// @Summary Render a transaction email without sending it
// @Description Renders email.html with message_text and transaction_hash. Placeholders without a value render empty; values are HTML escaped.
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PreviewRequest true "Template values"
// @Success 200 {object} helpers.APIResponse "data.html contains the rendered body"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: template_error or internal_error"
// @Router /notifications/preview [post]
func (c *NotificationController) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	html, err := c.Service.Preview(r.Context(), req.MessageText, req.TransactionHash)
	if err != nil {
		c.writeRenderError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, PreviewResponse{HTML: html})
}

// Send godoc
// @Summary Send a transaction notification email
// @Description Renders email.html and delivers it to recipient. Every delivery attempt is recorded. A failed delivery returns 502 with the recorded notification in data.
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SendNotificationRequest true "Recipient and template values"
// @Success 201 {object} controllers.NotificationSuccessResponse "data contains the recorded notification"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: template_error or internal_error"
// @Failure 502 {object} helpers.APIResponse "error.code: mail_error"
// @Router /notifications [post]
func (c *NotificationController) Send(w http.ResponseWriter, r *http.Request) {
	var req SendNotificationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	n, err := c.Service.Send(r.Context(), &domain.TransactionEmailData{
		Recipient:       req.Recipient,
		MessageText:     req.MessageText,
		TransactionHash: req.TransactionHash,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRecipient):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		case errors.Is(err, domain.ErrMailDelivery):
			c.Logger.WarnContext(r.Context(), "delivery failed", "path", r.URL.Path, "err", err)
			helpers.WriteJSON(w, http.StatusBadGateway, helpers.APIResponse{
				Data:  n,
				Error: &helpers.APIError{Code: helpers.ErrCodeMailError, Message: "mail delivery failed"},
			})
		default:
			c.writeRenderError(w, r, err)
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, n)
}

// List godoc
// @Summary List recorded notifications
// @Description Newest first. Optional transaction_hash filter.
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Param transaction_hash query string false "Only notifications for this transaction"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notifications [get]
func (c *NotificationController) List(w http.ResponseWriter, r *http.Request) {
	page := helpers.ParsePagination(r)
	filter := domain.NotificationFilter{
		TransactionHash: strings.TrimSpace(r.URL.Query().Get("transaction_hash")),
		Pagination:      page,
	}
	items, total, err := c.Service.List(r.Context(), filter)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not list notifications")
		return
	}
	if items == nil {
		items = []*domain.Notification{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListNotificationsResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(page.Page, page.PageSize, total),
	})
}

// GetByID godoc
// @Summary Get a recorded notification
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID (UUID)"
// @Success 200 {object} controllers.NotificationSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /notifications/{id} [get]
func (c *NotificationController) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing id")
		return
	}
	// IDs are UUIDs; anything else cannot exist.
	if _, err := uuid.Parse(id); err != nil {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "notification not found")
		return
	}
	n, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "notification not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not load notification")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, n)
}

func (c *NotificationController) writeRenderError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	if errors.Is(err, domain.ErrTemplateIO) || errors.Is(err, domain.ErrTemplateRender) {
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeTemplateError, "email template could not be rendered")
		return
	}
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
}
