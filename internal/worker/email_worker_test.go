package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"meubleerp/internal/infra"
	"meubleerp/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubSource struct {
	doc *RenderedDocument
	err error
}

func (s *stubSource) RenderPDF(context.Context, model.DocumentKind, uuid.UUID) (*RenderedDocument, error) {
	return s.doc, s.err
}

type sentMail struct {
	to, subject, body, filename string
	attachment                  []byte
}

type stubSender struct {
	failures int // fail this many calls before succeeding
	calls    int
	sent     []sentMail
}

func (s *stubSender) Send(to, subject, body, filename string, attachment []byte) error {
	s.calls++
	if s.calls <= s.failures {
		return errors.New("smtp: 421 service not available")
	}
	s.sent = append(s.sent, sentMail{to, subject, body, filename, attachment})
	return nil
}

type dlqRecord struct {
	reason   string
	attempts int
}

func newTestWorker(src DocumentSource, sender Sender) (*EmailWorker, *[]dlqRecord) {
	var dead []dlqRecord
	w := NewEmailWorker(src, sender, nil, "Meubles du Sahel")
	w.deadLetter = func(_ context.Context, _ json.RawMessage, reason string, attempts int) {
		dead = append(dead, dlqRecord{reason, attempts})
	}
	return w, &dead
}

func fastRetries(t *testing.T) {
	t.Helper()
	prev := retryBaseDelay
	retryBaseDelay = time.Millisecond
	t.Cleanup(func() { retryBaseDelay = prev })
}

func jobPayload(t *testing.T, job EmailJob) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return b
}

var facture = &RenderedDocument{Titre: "Facture", Numero: "7/26", Filename: "facture-7-26.pdf", Data: []byte("%PDF-1.3")}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestEmailWorker_SendsRenderedPDF(t *testing.T) {
	sender := &stubSender{}
	w, dead := newTestWorker(&stubSource{doc: facture}, sender)

	err := w.Process(context.Background(), jobPayload(t, EmailJob{Kind: model.KindFacture, ID: uuid.NewString(), Email: "client@example.com"}))
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	m := sender.sent[0]
	assert.Equal(t, "client@example.com", m.to)
	assert.Equal(t, "Facture N° 7/26", m.subject)
	assert.Contains(t, m.body, "Meubles du Sahel")
	assert.Equal(t, "facture-7-26.pdf", m.filename)
	assert.Equal(t, facture.Data, m.attachment)
	assert.Empty(t, *dead)
}

func TestEmailWorker_RetriesThenSucceeds(t *testing.T) {
	fastRetries(t)
	sender := &stubSender{failures: 2}
	w, dead := newTestWorker(&stubSource{doc: facture}, sender)

	err := w.Process(context.Background(), jobPayload(t, EmailJob{Kind: model.KindFacture, ID: uuid.NewString(), Email: "c@example.com"}))
	require.NoError(t, err)
	assert.Equal(t, 3, sender.calls)
	assert.Empty(t, *dead)
}

func TestEmailWorker_ExhaustedGoesToDLQ(t *testing.T) {
	fastRetries(t)
	sender := &stubSender{failures: 10}
	w, dead := newTestWorker(&stubSource{doc: facture}, sender)

	err := w.Process(context.Background(), jobPayload(t, EmailJob{Kind: model.KindFacture, ID: uuid.NewString(), Email: "c@example.com"}))
	require.Error(t, err)
	assert.Equal(t, maxEmailAttempts, sender.calls)
	require.Len(t, *dead, 1)
	assert.Equal(t, maxEmailAttempts, (*dead)[0].attempts)
}

func TestEmailWorker_OpenCircuitStopsContactingRelay(t *testing.T) {
	fastRetries(t)
	sender := &stubSender{failures: 10}
	w, dead := newTestWorker(&stubSource{doc: facture}, infra.NewGuardedMailer(sender, infra.BreakerConfig{MaxFailures: 1, Pause: time.Hour}))

	err := w.Process(context.Background(), jobPayload(t, EmailJob{Kind: model.KindFacture, ID: uuid.NewString(), Email: "c@example.com"}))
	require.ErrorIs(t, err, infra.ErrCircuitOpen)
	assert.Equal(t, 1, sender.calls)
	require.Len(t, *dead, 1)
	assert.Equal(t, maxEmailAttempts, (*dead)[0].attempts)
}

func TestEmailWorker_RenderFailureGoesToDLQWithoutSending(t *testing.T) {
	sender := &stubSender{}
	w, dead := newTestWorker(&stubSource{err: errors.New("facture introuvable")}, sender)

	err := w.Process(context.Background(), jobPayload(t, EmailJob{Kind: model.KindFacture, ID: uuid.NewString(), Email: "c@example.com"}))
	require.Error(t, err)
	assert.Zero(t, sender.calls)
	require.Len(t, *dead, 1)
	assert.Contains(t, (*dead)[0].reason, "render")
}

func TestEmailWorker_InvalidPayloads(t *testing.T) {
	w, dead := newTestWorker(&stubSource{doc: facture}, &stubSender{})

	assert.Error(t, w.Process(context.Background(), json.RawMessage(`{not json`)))
	assert.Error(t, w.Process(context.Background(), jobPayload(t, EmailJob{Kind: model.KindDevis, ID: "x", Email: "c@example.com"})))
	assert.Error(t, w.Process(context.Background(), jobPayload(t, EmailJob{Kind: model.KindDevis, ID: uuid.NewString()})))
	assert.Len(t, *dead, 3)
}

func TestWithRetry_StopsOnContextCancel(t *testing.T) {
	prev := retryBaseDelay
	retryBaseDelay = time.Hour
	t.Cleanup(func() { retryBaseDelay = prev })

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := withRetry(ctx, 3, func(int) error { calls++; return errors.New("down") })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

// ── pool ──────────────────────────────────────────────────────────────────────

type recordingHandler struct{ payloads []json.RawMessage }

func (h *recordingHandler) Process(_ context.Context, p json.RawMessage) error {
	h.payloads = append(h.payloads, p)
	return nil
}

func TestProcessJob_DispatchesByType(t *testing.T) {
	h := &recordingHandler{}
	handlers := map[string]JobHandler{JobEmail: h}

	raw, err := encodeJob(JobEmail, EmailJob{Kind: model.KindDevis, ID: "abc", Email: "c@example.com"})
	require.NoError(t, err)

	processJob(context.Background(), handlers, QueueEmail, string(raw))
	processJob(context.Background(), handlers, QueueEmail, `{"type":"inconnu","payload":{}}`)
	processJob(context.Background(), handlers, QueueEmail, `garbage`)

	require.Len(t, h.payloads, 1)
	var job EmailJob
	require.NoError(t, json.Unmarshal(h.payloads[0], &job))
	assert.Equal(t, model.KindDevis, job.Kind)
	assert.Equal(t, "abc", job.ID)
}

func shortPopBackoff(t *testing.T, lo, hi time.Duration) {
	t.Helper()
	prevMin, prevMax := popBackoffMin, popBackoffMax
	popBackoffMin, popBackoffMax = lo, hi
	t.Cleanup(func() { popBackoffMin, popBackoffMax = prevMin, prevMax })
}

func TestConsume_BacksOffWhileRedisIsDown(t *testing.T) {
	shortPopBackoff(t, 20*time.Millisecond, 40*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	calls := 0
	consume(ctx, 0, nil, func(context.Context) ([]string, error) {
		calls++
		return nil, errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
	})

	assert.GreaterOrEqual(t, calls, 2)
	assert.LessOrEqual(t, calls, 8)
}

func TestConsume_TimeoutLoopsWithoutDelay(t *testing.T) {
	shortPopBackoff(t, time.Hour, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		consume(ctx, 0, nil, func(context.Context) ([]string, error) {
			calls++
			if calls == 50 {
				cancel()
			}
			return nil, redis.Nil
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consume waited after a BRPOP timeout")
	}
	assert.Equal(t, 50, calls)
}

func TestConsume_ProcessesJobsUntilCancelled(t *testing.T) {
	h := &recordingHandler{}
	raw, err := encodeJob(JobEmail, EmailJob{Kind: model.KindFacture, ID: "f1", Email: "c@example.com"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := 0
	consume(ctx, 0, map[string]JobHandler{JobEmail: h}, func(ctx context.Context) ([]string, error) {
		calls++
		if calls > 1 {
			cancel()
			return nil, ctx.Err()
		}
		return []string{QueueEmail, string(raw)}, nil
	})

	assert.Len(t, h.payloads, 1)
}
