package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"recruitdesk/screening-service/internal/models"
	"recruitdesk/screening-service/internal/services"
	"recruitdesk/screening-service/internal/state"
)

const (
	monitoringKey     = "monitoring_enabled"
	lastCheckedKey    = "last_checked_at"
	processedCountKey = "processed_count"

	maxRecentRecords = 5
	maxErrorRecords  = 10
)

// Poller drives the mailbox ingestion loop: on a timer (or manual trigger)
// it lists unread application mail, screens the best resume attachment of
// each message, and commits the results. Single-flight: a trigger while a
// poll is running is dropped, not queued.
type Poller struct {
	orchestrator services.Orchestrator
	committer    services.Committer
	graph        GraphClient
	tokens       TokenSource
	store        state.Store
	pdfParser    services.PDFParserService

	interval    time.Duration
	maxMessages int
	maxAttempts int

	polling  atomic.Bool
	stopChan chan struct{}
	wg       sync.WaitGroup

	mu          sync.Mutex
	recent      []models.ProcessedEmailRecord
	errors      []models.PollError
	attempts    map[string]int
	lastChecked *time.Time
}

func NewPoller(
	orchestrator services.Orchestrator,
	committer services.Committer,
	graph GraphClient,
	tokens TokenSource,
	store state.Store,
	pdfParser services.PDFParserService,
	interval time.Duration,
	maxMessages int,
	maxAttempts int,
) *Poller {
	return &Poller{
		orchestrator: orchestrator,
		committer:    committer,
		graph:        graph,
		tokens:       tokens,
		store:        store,
		pdfParser:    pdfParser,
		interval:     interval,
		maxMessages:  maxMessages,
		maxAttempts:  maxAttempts,
		stopChan:     make(chan struct{}),
		attempts:     make(map[string]int),
	}
}

// Start launches the timer loop.
func (p *Poller) Start(ctx context.Context) {
	p.wg.Add(1)
	go p.run(ctx)
	log.Printf("🚀 Mailbox poller started (every %s)\n", p.interval)
}

// Stop shuts the timer loop down and waits for it.
func (p *Poller) Stop() {
	close(p.stopChan)
	p.wg.Wait()
	log.Println("✅ Mailbox poller stopped")
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			if err := p.Poll(ctx); err != nil {
				log.Printf("⚠️  Mailbox poll failed: %v\n", err)
			}
		}
	}
}

// Poll runs one poll cycle. Re-entrant calls while a cycle is in flight
// are no-ops, as are calls while monitoring is off or no mailbox is
// connected.
func (p *Poller) Poll(ctx context.Context) error {
	if !p.polling.CompareAndSwap(false, true) {
		return nil
	}
	defer p.polling.Store(false)

	if !p.MonitoringEnabled() {
		return nil
	}

	token, err := p.tokens.GetValidAccessToken(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		// Not connected; the token manager already tried to refresh.
		return nil
	}

	messages, err := p.graph.ListUnreadApplications(ctx, token, p.maxMessages)
	if err != nil {
		p.recordError("", "", err)
		return err
	}

	p.pruneAttempts(messages)

	for _, msg := range messages {
		// Failures are isolated per message so one bad resume cannot
		// halt the batch.
		p.processMessage(ctx, token, msg)
	}

	now := time.Now()
	p.mu.Lock()
	p.lastChecked = &now
	p.mu.Unlock()
	if err := p.store.Set(lastCheckedKey, now.Format(time.RFC3339)); err != nil {
		log.Printf("⚠️  Failed to persist last-check time: %v\n", err)
	}

	return nil
}

func (p *Poller) processMessage(ctx context.Context, token string, msg Message) {
	if !msg.HasAttachments {
		p.markRead(ctx, token, msg.ID)
		return
	}

	attachments, err := p.graph.GetAttachments(ctx, token, msg.ID)
	if err != nil {
		p.recordFailure(ctx, token, msg, err)
		return
	}

	var documents []Attachment
	for _, att := range attachments {
		if IsResumeDocument(att) {
			documents = append(documents, att)
		}
	}
	if len(documents) == 0 {
		p.markRead(ctx, token, msg.ID)
		return
	}

	selected := SelectResumeAttachment(documents)

	input := models.ScreeningInput{
		DocumentBase64: selected.ContentBytes,
		ContextLabel:   msg.Subject,
		SourceChannel:  models.SourceEmail,
		MediaType:      mediaTypeForAttachment(selected),
	}

	result, err := p.orchestrator.RunScreening(ctx, input)
	if err != nil {
		p.recordFailure(ctx, token, msg, err)
		return
	}

	// Success: the message is consumed. Marking read happens only here or
	// on the skip paths above, never after a failed screening.
	p.markRead(ctx, token, msg.ID)
	p.mu.Lock()
	delete(p.attempts, msg.ID)
	p.mu.Unlock()

	p.appendRecent(models.ProcessedEmailRecord{
		MessageID:      msg.ID,
		Subject:        msg.Subject,
		FromAddress:    msg.From.EmailAddress.Address,
		ReceivedAt:     msg.ReceivedDateTime,
		AttachmentName: selected.Name,
		Result:         result,
		ProcessedAt:    time.Now(),
	})
	p.incrementProcessedCount()

	resumeText := p.extractResumeText(selected)
	if _, _, err := p.committer.CommitScreening(ctx, result, models.SourceEmail, resumeText); err != nil {
		p.recordError(msg.ID, msg.Subject, fmt.Errorf("screened but not committed: %w", err))
	}
}

// recordFailure leaves the message unread so the next cycle retries it,
// unless it has exhausted its attempts, in which case it is marked read and
// surfaced as dead-lettered so a permanently broken message cannot retry
// forever.
func (p *Poller) recordFailure(ctx context.Context, token string, msg Message, err error) {
	p.mu.Lock()
	p.attempts[msg.ID]++
	attempts := p.attempts[msg.ID]
	p.mu.Unlock()

	if attempts >= p.maxAttempts {
		p.markRead(ctx, token, msg.ID)
		p.mu.Lock()
		delete(p.attempts, msg.ID)
		p.mu.Unlock()
		p.recordError(msg.ID, msg.Subject, fmt.Errorf("giving up after %d attempts: %w", attempts, err))
		return
	}

	p.recordError(msg.ID, msg.Subject, err)
}

// pruneAttempts drops retry counters for messages no longer in the unread
// listing (read or deleted by the operator) so the counter map cannot grow
// unbounded over the process lifetime.
func (p *Poller) pruneAttempts(messages []Message) {
	present := make(map[string]bool, len(messages))
	for _, msg := range messages {
		present[msg.ID] = true
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for id := range p.attempts {
		if !present[id] {
			delete(p.attempts, id)
		}
	}
}

// markRead is best effort; an unread message is simply reprocessed, which
// the pipeline tolerates.
func (p *Poller) markRead(ctx context.Context, token, messageID string) {
	if err := p.graph.MarkRead(ctx, token, messageID); err != nil {
		log.Printf("⚠️  Failed to mark message %s read: %v\n", messageID, err)
	}
}

func (p *Poller) appendRecent(record models.ProcessedEmailRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.recent = append([]models.ProcessedEmailRecord{record}, p.recent...)
	if len(p.recent) > maxRecentRecords {
		p.recent = p.recent[:maxRecentRecords]
	}
}

func (p *Poller) recordError(messageID, subject string, err error) {
	log.Printf("❌ Mailbox message %s failed: %v\n", messageID, err)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.errors = append([]models.PollError{{
		MessageID:  messageID,
		Subject:    subject,
		Error:      err.Error(),
		OccurredAt: time.Now(),
	}}, p.errors...)
	if len(p.errors) > maxErrorRecords {
		p.errors = p.errors[:maxErrorRecords]
	}
}

func (p *Poller) incrementProcessedCount() {
	count := p.ProcessedCount() + 1
	if err := p.store.Set(processedCountKey, strconv.FormatInt(count, 10)); err != nil {
		log.Printf("⚠️  Failed to persist processed count: %v\n", err)
	}
}

func (p *Poller) extractResumeText(att Attachment) string {
	if !strings.EqualFold(mediaTypeForAttachment(att), "application/pdf") {
		return ""
	}

	data, err := base64.StdEncoding.DecodeString(att.ContentBytes)
	if err != nil {
		return ""
	}

	text, err := p.pdfParser.ExtractTextFromBytes(data)
	if err != nil {
		return ""
	}
	return text
}

// MonitoringEnabled reports the persisted monitoring flag.
func (p *Poller) MonitoringEnabled() bool {
	raw, ok := p.store.Get(monitoringKey)
	return ok && raw == "true"
}

// SetMonitoring persists the monitoring flag.
func (p *Poller) SetMonitoring(enabled bool) error {
	return p.store.Set(monitoringKey, strconv.FormatBool(enabled))
}

// IsPolling reports whether a cycle is currently in flight.
func (p *Poller) IsPolling() bool {
	return p.polling.Load()
}

// ProcessedCount returns the persisted all-time processed counter.
func (p *Poller) ProcessedCount() int64 {
	raw, ok := p.store.Get(processedCountKey)
	if !ok {
		return 0
	}
	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return count
}

// LastChecked returns the completion time of the most recent cycle.
func (p *Poller) LastChecked() *time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastChecked != nil {
		t := *p.lastChecked
		return &t
	}

	raw, ok := p.store.Get(lastCheckedKey)
	if !ok {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

// Recent returns a copy of the recently processed list, newest first.
func (p *Poller) Recent() []models.ProcessedEmailRecord {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]models.ProcessedEmailRecord, len(p.recent))
	copy(out, p.recent)
	return out
}

// Errors returns a copy of the recent error list, newest first.
func (p *Poller) Errors() []models.PollError {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]models.PollError, len(p.errors))
	copy(out, p.errors)
	return out
}

func mediaTypeForAttachment(att Attachment) string {
	ct := strings.ToLower(strings.TrimSpace(att.ContentType))
	if resumeContentTypes[ct] {
		return ct
	}
	return services.MediaTypeForFilename(att.Name)
}
