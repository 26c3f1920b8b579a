package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"estate_assistant_backend/internal/crm"
	"estate_assistant_backend/internal/events"
	"estate_assistant_backend/internal/leads/domain"
	"estate_assistant_backend/internal/llm"
	"estate_assistant_backend/internal/properties/repository"
	"estate_assistant_backend/platform/logger"
)

// SystemPrompt is the fixed first turn of every conversation session.
const SystemPrompt = "You are the virtual assistant of Knowledge Innovations Real Estate in Ghana. " +
	"Answer warmly and concisely. Ground every answer in the property context you are given; " +
	"never invent listings, prices, or availability. Prices are in GHS."

const fallbackReply = "Hello 👋 Welcome to Knowledge Innovations Real Estate. How can I help you today?"

// shortlistCap limits how many true matches are offered as explicit suggestions.
const shortlistCap = 3

// Inventory supplies the current active property inventory.
type Inventory interface {
	ActiveInventory() ([]repository.Listing, error)
}

// Messenger delivers outbound WhatsApp messages.
type Messenger interface {
	SendText(ctx context.Context, to string, body string) error
	SendImage(ctx context.Context, to string, link string, caption string) error
}

// ModelClient generates replies and structured extractions.
type ModelClient interface {
	Chat(ctx context.Context, messages []llm.Message) (string, error)
	ExtractLead(ctx context.Context, transcript string) (llm.Extraction, error)
}

// LeadStore persists qualified leads.
type LeadStore interface {
	Append(record domain.Record) error
	UpdateStatus(id string, status domain.Status, syncErr *string) (domain.Record, error)
}

// Syncer delivers a lead to the CRM.
type Syncer interface {
	Sync(ctx context.Context, record domain.Record) crm.Result
}

// Service runs the per-message pipeline.
type Service struct {
	sessions  *SessionStore
	inventory Inventory
	messenger Messenger
	model     ModelClient
	leads     LeadStore
	syncer    Syncer
	bus       events.Bus
	log       *logger.Logger
}

// NewService wires the pipeline.
func NewService(inventory Inventory, messenger Messenger, model ModelClient, leads LeadStore, syncer Syncer, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		sessions:  NewSessionStore(SystemPrompt),
		inventory: inventory,
		messenger: messenger,
		model:     model,
		leads:     leads,
		syncer:    syncer,
		bus:       bus,
		log:       log,
	}
}

// HandleMessage processes one inbound message end to end. It never returns
// an error: once a message is recognized as well-formed the channel gets its
// success acknowledgment regardless of backend health, so every failure past
// this point is logged and degraded, not propagated.
func (s *Service) HandleMessage(ctx context.Context, sender, text string) {
	log := s.log.WithSender(sender)

	session := s.sessions.GetOrCreate(sender)
	session.Lock()
	defer session.Unlock()

	inventory, err := s.inventory.ActiveInventory()
	if err != nil {
		log.Error("inventory fetch failed, proceeding with empty inventory", "error", err)
		inventory = nil
	}

	prefs := Extract(text, inventory)
	matches := Match(inventory, prefs)
	grounding := GroundingInventory(inventory, matches)

	session.Append(RoleUser, text)

	reply := s.generateReply(ctx, session, grounding, log)
	session.Append(RoleAssistant, reply)

	if err := s.messenger.SendText(ctx, sender, reply); err != nil {
		log.Error("reply delivery failed", "error", err)
	}

	s.sendFollowUps(ctx, sender, prefs, matches, log)

	if prefs.EscalateRequest {
		s.bus.Publish(ctx, events.EscalationRequested{
			BaseEvent: events.NewBaseEvent(),
			Sender:    sender,
			Message:   text,
		})
	}

	s.synthesizeLead(ctx, session, sender, prefs, log)
}

func (s *Service) generateReply(ctx context.Context, session *Session, grounding []repository.Listing, log *logger.Logger) string {
	messages := make([]llm.Message, 0, len(session.turns)+1)
	for _, turn := range session.Turns() {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}
	if grounded := groundingContext(grounding); grounded != "" {
		messages = append(messages, llm.Message{Role: RoleSystem, Content: grounded})
	}

	reply, err := s.model.Chat(ctx, messages)
	if err != nil {
		log.Error("reply generation failed, using fallback", "error", err)
		return fallbackReply
	}
	return reply
}

// sendFollowUps delivers the conditional extras, each independently gated by
// the preference flags. They go out concurrently once the main reply is sent.
func (s *Service) sendFollowUps(ctx context.Context, sender string, prefs PreferenceSet, matches []repository.Listing, log *logger.Logger) {
	g, ctx := errgroup.WithContext(ctx)

	if prefs.HasIntent(IntentPropertySearch) {
		if len(matches) > 0 {
			shortlist := matches
			if len(shortlist) > shortlistCap {
				shortlist = shortlist[:shortlistCap]
			}
			g.Go(func() error {
				if err := s.messenger.SendText(ctx, sender, shortlistText(shortlist)); err != nil {
					log.Error("shortlist delivery failed", "error", err)
					return nil
				}
				if link, caption, ok := shortlistImage(shortlist); ok {
					if err := s.messenger.SendImage(ctx, sender, link, caption); err != nil {
						log.Error("shortlist image delivery failed", "error", err)
					}
				}
				return nil
			})
		} else {
			g.Go(func() error {
				notice := "We don't have a listing matching that just now, but new properties come in weekly — I'll keep your preferences in mind."
				if err := s.messenger.SendText(ctx, sender, notice); err != nil {
					log.Error("no-inventory notice delivery failed", "error", err)
				}
				return nil
			})
		}
	}

	if prefs.WantsViewing {
		g.Go(func() error {
			prompt := "Happy to arrange a viewing 🏡 Which day works best for you? Our agents are available Monday to Saturday, 9am-5pm."
			if err := s.messenger.SendText(ctx, sender, prompt); err != nil {
				log.Error("viewing prompt delivery failed", "error", err)
			}
			return nil
		})
	}

	if prefs.EscalateRequest {
		g.Go(func() error {
			notice := "Of course — I'm connecting you with one of our agents. Someone will reach out to you shortly."
			if err := s.messenger.SendText(ctx, sender, notice); err != nil {
				log.Error("escalation notice delivery failed", "error", err)
			}
			return nil
		})
	}

	_ = g.Wait()
}

// synthesizeLead runs the structured extraction, merges it with the
// heuristic preferences, and persists and syncs the lead when it qualifies.
// Failures here never surface to the channel; the reply already went out.
func (s *Service) synthesizeLead(ctx context.Context, session *Session, sender string, prefs PreferenceSet, log *logger.Logger) {
	transcript := transcriptOf(session)
	extraction, err := s.model.ExtractLead(ctx, transcript)
	if err != nil {
		log.Error("structured extraction failed, skipping lead synthesis", "error", err)
		return
	}

	heuristic := prefs.ToPartial()
	modelPartial := domain.Partial{
		Name:     extraction.Name,
		Budget:   extraction.Budget,
		Location: extraction.Location,
		Type:     extraction.Type,
		Timeline: extraction.Timeline,
	}

	record := domain.Synthesize(heuristic, modelPartial, summarize(transcript), sender, time.Now().UTC())
	if record == nil {
		return
	}

	if session.LeadID() != "" {
		// One stored lead per sender: later qualifying messages do not
		// append duplicates.
		log.Debug("sender already has a stored lead", "lead_id", session.LeadID())
		return
	}

	if err := s.leads.Append(*record); err != nil {
		log.Error("lead persistence failed; lead is qualified but not durable", "error", err, "lead_id", record.ID)
		return
	}
	session.SetLeadID(record.ID)
	log.WithLead(record.ID).Info("lead qualified and persisted", "score", record.Score)

	s.bus.Publish(ctx, events.LeadQualified{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    record.ID,
		Sender:    sender,
		Score:     record.Score,
	})

	s.recordSyncOutcome(ctx, *record, log)
}

func (s *Service) recordSyncOutcome(ctx context.Context, record domain.Record, log *logger.Logger) {
	result := s.syncer.Sync(ctx, record)

	switch result.Status {
	case crm.StatusOK:
		if _, err := s.leads.UpdateStatus(record.ID, domain.StatusSynced, nil); err != nil {
			log.Error("failed to record synced status", "error", err, "lead_id", record.ID)
		}
	case crm.StatusFailed:
		errText := "sync failed"
		if result.Err != nil {
			errText = result.Err.Error()
		}
		if _, err := s.leads.UpdateStatus(record.ID, domain.StatusSyncFailed, &errText); err != nil {
			log.Error("failed to record sync_failed status", "error", err, "lead_id", record.ID)
		}
	case crm.StatusSkipped:
		// Stays pending_sync.
	}
}

// ToPartial converts the heuristic preferences into lead details, formatting
// the budget as a currency string.
func (p PreferenceSet) ToPartial() domain.Partial {
	partial := domain.Partial{
		Location: p.Location,
		Type:     p.PropertyType,
		Timeline: p.Timeline,
	}
	if p.BudgetMax != nil {
		budget := formatGHS(*p.BudgetMax)
		partial.Budget = &budget
	}
	return partial
}

func formatGHS(amount float64) string {
	return "GHS " + groupThousands(int64(amount))
}

func groupThousands(n int64) string {
	raw := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, digit := range raw {
		if i > 0 && (len(raw)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return b.String()
}

func groundingContext(listings []repository.Listing) string {
	if len(listings) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Current property context:\n")
	for _, listing := range listings {
		b.WriteString("- ")
		b.WriteString(listingLine(listing))
		b.WriteByte('\n')
	}
	return b.String()
}

func listingLine(listing repository.Listing) string {
	var b strings.Builder
	b.WriteString(listing.Name)
	b.WriteString(" (")
	b.WriteString(listing.Type)
	b.WriteString(") in ")
	b.WriteString(listing.Location)

	if price := listing.BudgetField(); price != nil {
		b.WriteString(" — ")
		b.WriteString(formatGHS(*price))
		if listing.Tenure == repository.TenureRent {
			frequency := "month"
			if listing.RentalFrequency != nil && *listing.RentalFrequency != "" {
				frequency = *listing.RentalFrequency
			}
			b.WriteString("/" + frequency)
		}
	}
	if listing.Availability != "" {
		b.WriteString(", available " + listing.Availability)
	}
	return b.String()
}

func shortlistText(shortlist []repository.Listing) string {
	var b strings.Builder
	b.WriteString("Here are some options you might like:\n")
	for i, listing := range shortlist {
		fmt.Fprintf(&b, "%d. %s\n", i+1, listingLine(listing))
	}
	b.WriteString("Reply with a number if you'd like more details.")
	return b.String()
}

func shortlistImage(shortlist []repository.Listing) (link, caption string, ok bool) {
	for _, listing := range shortlist {
		if len(listing.Images) > 0 {
			return listing.Images[0], listing.Name, true
		}
	}
	return "", "", false
}

// transcriptOf renders the session's user and assistant turns for the
// extraction prompt and summary.
func transcriptOf(session *Session) string {
	var b strings.Builder
	for _, turn := range session.Turns() {
		if turn.Role == RoleSystem {
			continue
		}
		b.WriteString(turn.Role)
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteByte('\n')
	}
	return b.String()
}

const summaryLimit = 500

func summarize(transcript string) string {
	trimmed := strings.TrimSpace(transcript)
	if len(trimmed) <= summaryLimit {
		return trimmed
	}
	return trimmed[len(trimmed)-summaryLimit:]
}
