package worker

// email_worker.go
// Processes document e-mail jobs from QueueEmail: renders the PDF and sends
// it as an attachment, retrying the SMTP call.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meubleerp/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxEmailAttempts = 3

// retryBaseDelay is the first backoff step; each further attempt doubles it.
var retryBaseDelay = time.Second

// EmailJob is the payload sent to QueueEmail.
type EmailJob struct {
	Kind  model.DocumentKind `json:"kind"`
	ID    string             `json:"id"`
	Email string             `json:"email"`
}

// RenderedDocument is a PDF ready to be attached.
type RenderedDocument struct {
	Titre    string
	Numero   string
	Filename string
	Data     []byte
}

// DocumentSource loads a stored document and renders it.
type DocumentSource interface {
	RenderPDF(ctx context.Context, kind model.DocumentKind, id uuid.UUID) (*RenderedDocument, error)
}

// Sender delivers one e-mail with a single attachment.
type Sender interface {
	Send(to, subject, body, filename string, attachment []byte) error
}

// EmailWorker processes email jobs from QueueEmail.
type EmailWorker struct {
	docs       DocumentSource
	mailer     Sender
	deadLetter func(ctx context.Context, payload json.RawMessage, reason string, attempts int)
	societe    string
}

// NewEmailWorker wires the worker. mailer is usually an infra.GuardedMailer;
// societe signs the message body.
func NewEmailWorker(docs DocumentSource, mailer Sender, rdb *redis.Client, societe string) *EmailWorker {
	return &EmailWorker{
		docs:    docs,
		mailer:  mailer,
		societe: societe,
		deadLetter: func(ctx context.Context, payload json.RawMessage, reason string, attempts int) {
			SendToDLQ(ctx, rdb, QueueEmail, JobEmail, payload, reason, attempts)
		},
	}
}

// Process renders the document and mails it. Jobs that cannot succeed are
// moved to the DLQ.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var job EmailJob
	if err := json.Unmarshal(raw, &job); err != nil {
		w.deadLetter(ctx, raw, "invalid payload: "+err.Error(), 0)
		return fmt.Errorf("email_worker: invalid payload: %w", err)
	}
	id, err := uuid.Parse(job.ID)
	if err != nil || job.Email == "" {
		w.deadLetter(ctx, raw, "missing document id or recipient", 0)
		return fmt.Errorf("email_worker: incomplete job for %s %q", job.Kind, job.ID)
	}

	doc, err := w.docs.RenderPDF(ctx, job.Kind, id)
	if err != nil {
		w.deadLetter(ctx, raw, "render: "+err.Error(), 0)
		return fmt.Errorf("email_worker: render %s %s: %w", job.Kind, job.ID, err)
	}

	subject := fmt.Sprintf("%s N° %s", doc.Titre, doc.Numero)
	body := fmt.Sprintf("Bonjour,\n\nVeuillez trouver ci-joint votre %s N° %s.\n\nCordialement,\n%s", doc.Titre, doc.Numero, w.societe)

	attempts := 0
	err = withRetry(ctx, maxEmailAttempts, func(attempt int) error {
		attempts = attempt + 1
		sendErr := w.mailer.Send(job.Email, subject, body, doc.Filename, doc.Data)
		if sendErr != nil {
			log.Warn().
				Err(sendErr).
				Int("attempt", attempts).
				Str("kind", string(job.Kind)).
				Str("numero", doc.Numero).
				Msg("email_worker: send attempt failed")
		}
		return sendErr
	})
	if err != nil {
		w.deadLetter(ctx, raw, err.Error(), attempts)
		return fmt.Errorf("email_worker: send %s %s: %w", job.Kind, doc.Numero, err)
	}

	log.Info().Str("to", job.Email).Str("kind", string(job.Kind)).Str("numero", doc.Numero).Msg("email_worker: document sent")
	return nil
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule with the default base: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := retryBaseDelay * time.Duration(1<<uint(i-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
