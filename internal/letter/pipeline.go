package letter

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/unessa/fundraiser-api/internal/email"
	"github.com/unessa/fundraiser-api/internal/logger"
)

// OfferTemplateID is the template used for offer letters.
const OfferTemplateID = "offer"

// emailRx is the basic address shape check, matching what the dashboard
// front-end validates.
var emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Request is the input for one pipeline invocation. It is never persisted.
type Request struct {
	RecipientID  string
	DisplayName  string
	EmailAddress string
	IssuedDate   string
}

// Validate checks the request before any rendering resource is acquired.
func (r Request) Validate() error {
	if strings.TrimSpace(r.RecipientID) == "" {
		return &ValidationError{Field: "recipientId", Reason: "must not be empty"}
	}
	if strings.TrimSpace(r.DisplayName) == "" {
		return &ValidationError{Field: "displayName", Reason: "must not be empty"}
	}
	if strings.TrimSpace(r.EmailAddress) == "" {
		return &ValidationError{Field: "emailAddress", Reason: "must not be empty"}
	}
	if !emailRx.MatchString(r.EmailAddress) {
		return &ValidationError{Field: "emailAddress", Reason: "not a valid address"}
	}
	return nil
}

// stage tracks pipeline progress. Failure from any stage transitions to
// failed after cleanup of whatever the invocation wrote.
type stage int

const (
	stageStart stage = iota
	stageTemplateResolved
	stageRendered
	stageStored
	stageNotified
	stageStateUpdated
)

func (s stage) String() string {
	switch s {
	case stageStart:
		return "start"
	case stageTemplateResolved:
		return "template_resolved"
	case stageRendered:
		return "rendered"
	case stageStored:
		return "stored"
	case stageNotified:
		return "notified"
	case stageStateUpdated:
		return "state_updated"
	}
	return "unknown"
}

// RecordStore is the slice of the user repository the pipeline mutates.
type RecordStore interface {
	UpdateLetterDelivered(ctx context.Context, id string, artifactPath *string, sentAt time.Time) error
	UpdateLetterFailed(ctx context.Context, id string) error
}

// Pipeline runs one offer letter end to end: resolve template, render PDF,
// store artifact, email it, record delivery. Invocations share no mutable
// state and may run concurrently for different recipients; two concurrent
// invocations for the same recipient are not mutually excluded.
type Pipeline struct {
	templates *Resolver
	renderer  Renderer
	store     Store
	sender    email.Sender
	records   RecordStore
	layout    LayoutOptions
	orgName   string
	log       *logger.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(
	templates *Resolver,
	renderer Renderer,
	store Store,
	sender email.Sender,
	records RecordStore,
	layout LayoutOptions,
	orgName string,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		templates: templates,
		renderer:  renderer,
		store:     store,
		sender:    sender,
		records:   records,
		layout:    layout,
		orgName:   orgName,
		log:       log.WithComponent("letter_pipeline"),
	}
}

// Generate runs one pipeline invocation to completion.
func (p *Pipeline) Generate(ctx context.Context, req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}

	content, err := p.templates.Resolve(OfferTemplateID, map[string]string{
		"name": req.DisplayName,
		"date": req.IssuedDate,
	})
	if err != nil {
		return p.fail(ctx, req, stageStart, Handle{}, err)
	}

	pdf, err := p.renderer.Render(ctx, content, p.layout)
	if err != nil {
		return p.fail(ctx, req, stageTemplateResolved, Handle{}, err)
	}

	handle, err := p.store.Store(ctx, req.RecipientID, pdf)
	if err != nil {
		return p.fail(ctx, req, stageRendered, Handle{}, fmt.Errorf("storage failed: %w", err))
	}

	msg := email.Message{
		To:       req.EmailAddress,
		Subject:  fmt.Sprintf("Your Offer Letter from %s", p.orgName),
		HTMLBody: email.OfferLetterEmailHTML(req.DisplayName, p.orgName),
		TextBody: email.OfferLetterEmailText(req.DisplayName, p.orgName),
		Attachments: []email.Attachment{{
			Filename:    AttachmentFilename(req.DisplayName),
			ContentType: "application/pdf",
			Content:     pdf,
		}},
	}
	if err := p.sender.Send(ctx, msg); err != nil {
		return p.fail(ctx, req, stageStored, handle, classifyTransportError(err))
	}

	var artifactPath *string
	if !handle.Inline {
		artifactPath = &handle.Location
	}
	if err := p.records.UpdateLetterDelivered(ctx, req.RecipientID, artifactPath, time.Now()); err != nil {
		// The email is already out and the artifact stays retrievable; the
		// state lags until reconciled. Delivery is at-least-once here.
		p.log.Error().Err(err).
			Str("recipient_id", req.RecipientID).
			Str("stage", stageNotified.String()).
			Msg("letter emailed but state update failed, needs reconciliation")
		return fmt.Errorf("failed to record delivery: %w", err)
	}

	p.log.Info().
		Str("recipient_id", req.RecipientID).
		Str("stage", stageStateUpdated.String()).
		Msg("offer letter delivered")
	return nil
}

// fail cleans up whatever this invocation wrote and returns err. Cleanup
// runs even when the inbound request was aborted; its own failures are
// logged, never escalated over the original error.
func (p *Pipeline) fail(ctx context.Context, req Request, at stage, handle Handle, err error) error {
	cleanupCtx := context.WithoutCancel(ctx)

	if handle != (Handle{}) {
		if delErr := p.store.Delete(cleanupCtx, handle); delErr != nil {
			p.log.Warn().Err(delErr).
				Str("recipient_id", req.RecipientID).
				Msg("artifact cleanup failed")
		}
	}

	// Only a failed send marks the recipient; earlier failures leave the
	// prior state untouched.
	if at == stageStored {
		if stErr := p.records.UpdateLetterFailed(cleanupCtx, req.RecipientID); stErr != nil {
			p.log.Warn().Err(stErr).
				Str("recipient_id", req.RecipientID).
				Msg("failed to record delivery failure")
		}
	}

	p.log.Error().Err(err).
		Str("recipient_id", req.RecipientID).
		Str("stage", at.String()).
		Msg("offer letter pipeline failed")
	return err
}

// classifyTransportError maps sender errors onto the pipeline taxonomy.
func classifyTransportError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "recipient") || strings.Contains(msg, "invalid to") {
		return fmt.Errorf("%w: %v", ErrRecipientRejected, err)
	}
	return fmt.Errorf("%w: %v", ErrTransportUnavailable, err)
}

var whitespaceRx = regexp.MustCompile(`\s+`)

// AttachmentFilename derives the letter filename from the recipient's
// display name, collapsing whitespace runs to underscores.
func AttachmentFilename(displayName string) string {
	name := whitespaceRx.ReplaceAllString(strings.TrimSpace(displayName), "_")
	return "Offer_Letter_" + name + ".pdf"
}
