package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"kohi-api/internal/domain"
	"kohi-api/pkg/apperror"
	"kohi-api/pkg/email"
	"kohi-api/pkg/logger"
	"kohi-api/pkg/security"
	"kohi-api/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const (
	statusUpdateTimeout = 5 * time.Second
	maxStoredErrorLen   = 500
)

// ContactConfig holds the pipeline options taken from config.Config.
type ContactConfig struct {
	// MinElapsed is the shortest time a human needs to fill in the form.
	MinElapsed time.Duration
	// RequirePersistence aborts a submission whose initial insert fails
	// instead of delivering it without a stored row.
	RequirePersistence bool
}

type contactUsecase struct {
	repo       domain.ContactRepository
	dispatcher email.Dispatcher
	validate   *validator.Validate
	secLog     *security.SecurityLogger
	cfg        ContactConfig
	now        func() time.Time
}

// NewContactUsecase creates a new contact usecase. repo may be nil when no
// database is configured.
func NewContactUsecase(repo domain.ContactRepository, dispatcher email.Dispatcher, validate *validator.Validate, secLog *security.SecurityLogger, cfg ContactConfig) domain.ContactUsecase {
	if secLog == nil {
		secLog = security.DefaultLogger()
	}
	return &contactUsecase{
		repo:       repo,
		dispatcher: dispatcher,
		validate:   validate,
		secLog:     secLog,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Submit runs honeypot and timing checks, validation, the best-effort insert,
// delivery and the single status transition, in that order.
func (uc *contactUsecase) Submit(ctx context.Context, req *domain.ContactSubmission, meta domain.RequestMeta) (*domain.ContactResult, error) {
	requestID, _ := ctx.Value(domain.KeyRequestID).(string)

	if req.Honeypot != "" {
		uc.secLog.LogContactRejected(ctx, security.EventSpamRejected, req.Email, meta.IP, meta.UserAgent, requestID)
		return nil, apperror.New(http.StatusBadRequest, "Submission rejected.", domain.ErrSpamRejected)
	}

	if req.Started > 0 {
		elapsed := uc.now().Sub(time.UnixMilli(req.Started))
		if elapsed < uc.cfg.MinElapsed {
			uc.secLog.LogContactRejected(ctx, security.EventTooFast, req.Email, meta.IP, meta.UserAgent, requestID)
			return nil, apperror.New(http.StatusBadRequest, "Please take a moment to complete the form.", domain.ErrTooFast)
		}
	}

	sub := domain.ContactSubmission{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(req.Message),
	}
	if err := uc.validate.Struct(&sub); err != nil {
		return nil, apperror.Validation(validation.FieldErrors(err))
	}

	if uc.dispatcher == nil || !uc.dispatcher.IsConfigured() {
		return nil, apperror.New(http.StatusServiceUnavailable, "Email service is not configured.", email.ErrNotConfigured)
	}

	messageID, err := uc.store(ctx, &sub, meta)
	if err != nil {
		return nil, err
	}

	providerID, err := uc.dispatch(ctx, email.ContactEmail{
		SenderName:  sub.Name,
		SenderEmail: sub.Email,
		Message:     sub.Message,
	})
	if err != nil {
		logger.Log.Error("Contact email dispatch failed", "error", err, "request_id", requestID)
		uc.markFailed(ctx, messageID, err.Error())
		return nil, apperror.New(http.StatusInternalServerError, "Failed to send. Try again later.",
			fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err))
	}

	uc.markSent(ctx, messageID, providerID)
	return &domain.ContactResult{MessageID: messageID, Status: domain.ContactStatusSent}, nil
}

// store inserts the received row. A failed insert is logged and skipped
// unless the pipeline is configured to require persistence.
func (uc *contactUsecase) store(ctx context.Context, sub *domain.ContactSubmission, meta domain.RequestMeta) (*int64, error) {
	if uc.repo == nil {
		if uc.cfg.RequirePersistence {
			return nil, apperror.ServiceUnavailable("Contact storage is not configured.")
		}
		return nil, nil
	}

	msg := &domain.ContactMessage{
		Name:      sub.Name,
		Email:     sub.Email,
		Message:   sub.Message,
		Status:    domain.ContactStatusReceived,
		IP:        optional(meta.IP),
		UserAgent: optional(meta.UserAgent),
	}
	if err := uc.repo.Create(ctx, msg); err != nil {
		if uc.cfg.RequirePersistence {
			return nil, apperror.Internal(fmt.Errorf("store contact message: %w", err))
		}
		logger.Log.Error("Failed to store contact message", "error", err)
		return nil, nil
	}
	return &msg.ID, nil
}

// dispatch calls the provider, converting a panic into an error so the row
// still reaches a terminal status.
func (uc *contactUsecase) dispatch(ctx context.Context, data email.ContactEmail) (providerID string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("exception while sending: %v", r)
		}
	}()
	return uc.dispatcher.Send(ctx, data)
}

func (uc *contactUsecase) markSent(ctx context.Context, id *int64, providerID string) {
	if id == nil {
		return
	}
	statusCtx, cancel := detached(ctx)
	defer cancel()
	if err := uc.repo.MarkSent(statusCtx, *id, providerID); err != nil {
		logger.Log.Error("Failed to mark contact message sent", "id", *id, "error", err)
	}
}

func (uc *contactUsecase) markFailed(ctx context.Context, id *int64, errText string) {
	if id == nil {
		return
	}
	errText = truncateUTF8(errText, maxStoredErrorLen)
	statusCtx, cancel := detached(ctx)
	defer cancel()
	if err := uc.repo.MarkFailed(statusCtx, *id, errText); err != nil {
		logger.Log.Error("Failed to mark contact message failed", "id", *id, "error", err)
	}
}

func (uc *contactUsecase) ListMessages(ctx context.Context, filter domain.ContactListFilter) ([]domain.ContactMessage, int64, error) {
	if uc.repo == nil {
		return nil, 0, apperror.ServiceUnavailable("Database not configured")
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperror.BadRequest("Unknown status filter")
	}
	messages, total, err := uc.repo.List(ctx, filter.Normalized())
	if err != nil {
		return nil, 0, apperror.Internal(err)
	}
	return messages, total, nil
}

// detached keeps status writes alive when the client goes away mid-request.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), statusUpdateTimeout)
}

// truncateUTF8 cuts s to at most n bytes without splitting a character.
// Invalid sequences from the provider are replaced first; Postgres rejects
// them in text columns.
func truncateUTF8(s string, n int) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
