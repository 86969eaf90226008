package usecases

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"appealbot/internal/entities"
	"appealbot/internal/infrastructure"
	"appealbot/internal/repository"
)

// Steps of the multi-turn appeal creation dialogue. The initial step is
// repository.StepMenu.
const (
	StepCollectingCategory    = "collecting_category"
	StepCollectingSubject     = "collecting_subject"
	StepCollectingDescription = "collecting_description"
)

// ConversationEngine turns one inbound message into an appeal lifecycle
// action and a reply. It owns all mutation of conversation state and is the
// only caller of the appeal manager's sender-facing operations. Messages for
// the same sender are serialized through the session manager; distinct
// senders run concurrently.
type ConversationEngine struct {
	classifier *IntentClassifier
	states     *repository.ConversationStore
	appeals    *repository.AppealManager
	composer   *ResponseComposer
	sessions   *infrastructure.SessionManager

	profileMu sync.RWMutex
	profiles  map[string]*entities.SenderProfile
}

func NewConversationEngine(classifier *IntentClassifier, states *repository.ConversationStore, appeals *repository.AppealManager, composer *ResponseComposer) *ConversationEngine {
	return &ConversationEngine{
		classifier: classifier,
		states:     states,
		appeals:    appeals,
		composer:   composer,
		sessions:   infrastructure.NewSessionManager(),
		profiles:   make(map[string]*entities.SenderProfile),
	}
}

// ProcessMessage runs one message through classification, the conversation
// step machine and the appeal lifecycle, and returns the composed reply.
// A message without a sender or text gets the generic error reply and
// creates no state.
func (e *ConversationEngine) ProcessMessage(msg entities.InboundMessage) entities.OutboundReply {
	if msg.From == "" || strings.TrimSpace(msg.Text) == "" {
		return entities.OutboundReply{Text: e.composer.Render("error", nil)}
	}

	session := e.sessions.GetOrCreateSession(msg.From)
	session.Lock()
	defer session.Unlock()

	e.touchProfile(msg.From)

	cls := e.classifier.Classify(msg.Text)
	state := e.states.GetOrCreate(msg.From)
	e.states.AppendHistory(msg.From, "user", msg.Text)

	reply := e.route(msg, state, cls)
	e.states.AppendHistory(msg.From, "bot", reply)

	fmt.Printf("[BOT] %s: intent=%s step=%s\n", msg.From, cls.Intent, state.CurrentStep)
	return entities.OutboundReply{Text: reply}
}

func (e *ConversationEngine) route(msg entities.InboundMessage, state *entities.ConversationState, cls Classification) string {
	if cls.Intent == IntentCancel {
		return e.handleCancel(msg.From)
	}

	// An in-progress draft captures every message until it completes or is
	// cancelled; mid-dialogue answers rarely re-match the create triggers.
	if state.CurrentStep != repository.StepMenu || cls.Intent == IntentCreateAppeal {
		return e.handleCreateAppeal(msg, state, cls)
	}

	switch cls.Intent {
	case IntentCheckStatus:
		return e.handleCheckStatus(msg.From)
	case IntentProvideInfo:
		return e.handleProvideInfo(msg)
	case IntentEscalate:
		return e.handleEscalate(msg)
	case IntentCloseAppeal:
		return e.handleCloseAppeal(msg)
	case IntentGetHelp:
		return e.composer.Render("help", nil)
	default:
		return e.composer.Render("menu", nil) + "\n\n" + e.composer.Render("invalid_input", nil)
	}
}

// handleCreateAppeal advances the category → subject → description dialogue
// one step per message. The prompts never consume the prompting message as a
// value; the answer arrives on the following turn.
func (e *ConversationEngine) handleCreateAppeal(msg entities.InboundMessage, state *entities.ConversationState, cls Classification) string {
	switch state.CurrentStep {
	case repository.StepMenu:
		e.states.Advance(msg.From, StepCollectingCategory, nil)
		return e.composer.Render("ask_category", nil)

	case StepCollectingCategory:
		category := cls.Parameters["category"]
		if category == "" {
			category = "other"
		}
		e.states.Advance(msg.From, StepCollectingSubject, map[string]string{"category": category})
		return e.composer.Render("ask_subject", nil)

	case StepCollectingSubject:
		e.states.Advance(msg.From, StepCollectingDescription, map[string]string{"subject": msg.Text})
		return e.composer.Render("ask_description", nil)

	case StepCollectingDescription:
		draft := state.Draft
		draft["description"] = msg.Text
		for key, value := range cls.Parameters {
			draft[key] = value
		}

		appeal := e.appeals.Create(msg.From, draft["category"], draft["subject"], draft["description"], draft["priority"])
		e.states.Clear(msg.From)
		e.countAppeal(msg.From)

		return e.composer.Render("appeal_created", map[string]string{
			"appeal_id": appeal.ID,
			"category":  appeal.Category,
			"status":    string(appeal.Status),
		})

	default:
		// Unreachable step value, start the dialogue over.
		e.states.Clear(msg.From)
		return e.composer.Render("error", nil)
	}
}

func (e *ConversationEngine) handleCheckStatus(senderID string) string {
	appeals := e.appeals.ListForSender(senderID)

	if len(appeals) == 0 {
		return e.composer.Render("no_appeals", nil)
	}

	if len(appeals) == 1 {
		appeal := appeals[0]
		return e.composer.Render("status_check", map[string]string{
			"appeal_id":  appeal.ID,
			"category":   appeal.Category,
			"status":     string(appeal.Status),
			"updated_at": appeal.UpdatedAt.Format("2006-01-02"),
		})
	}

	var sb strings.Builder
	sb.WriteString("📊 Daftar Appeal Anda:\n\n")
	for i, appeal := range appeals {
		fmt.Fprintf(&sb, "%d. %s - %s\n", i+1, appeal.ID, appeal.Status)
	}
	sb.WriteString("\nReply dengan nomor untuk detail")
	return sb.String()
}

func (e *ConversationEngine) handleProvideInfo(msg entities.InboundMessage) string {
	latest, ok := e.latestAppeal(msg.From)
	if !ok {
		return e.composer.Render("no_active_appeal", nil)
	}

	ref := msg.AttachmentRef
	if ref == "" {
		ref = msg.Text
	}
	if err := e.appeals.AddAttachment(latest.ID, ref); err != nil {
		fmt.Printf("[BOT] add attachment %s: %v\n", latest.ID, err)
		return e.composer.Render("error", nil)
	}

	return e.composer.Render("info_added", map[string]string{"appeal_id": latest.ID})
}

func (e *ConversationEngine) handleEscalate(msg entities.InboundMessage) string {
	latest, ok := e.latestAppeal(msg.From)
	if !ok {
		return e.composer.Render("no_active_appeal", nil)
	}

	reason := strings.TrimSpace(msg.Text)
	if reason == "" {
		reason = "User requested escalation"
	}
	if err := e.appeals.Escalate(latest.ID, reason); err != nil {
		fmt.Printf("[BOT] escalate %s: %v\n", latest.ID, err)
		return e.composer.Render("error", nil)
	}

	return e.composer.Render("escalated", map[string]string{"appeal_id": latest.ID})
}

func (e *ConversationEngine) handleCloseAppeal(msg entities.InboundMessage) string {
	latest, ok := e.latestAppeal(msg.From)
	if !ok {
		return e.composer.Render("no_active_appeal", nil)
	}

	resolution := strings.TrimSpace(msg.Text)
	if resolution == "" {
		resolution = "Closed by user"
	}
	if err := e.appeals.Close(latest.ID, resolution); err != nil {
		fmt.Printf("[BOT] close %s: %v\n", latest.ID, err)
		return e.composer.Render("error", nil)
	}

	return e.composer.Render("closed", map[string]string{"appeal_id": latest.ID})
}

func (e *ConversationEngine) handleCancel(senderID string) string {
	e.states.Clear(senderID)
	return e.composer.Render("cancelled", nil)
}

// latestAppeal returns the sender's most recently created appeal, which is
// the one every "the appeal" action targets.
func (e *ConversationEngine) latestAppeal(senderID string) (*entities.Appeal, bool) {
	appeals := e.appeals.ListForSender(senderID)
	if len(appeals) == 0 {
		return nil, false
	}
	return appeals[len(appeals)-1], true
}

// touchProfile lazily creates the sender's profile and records the
// interaction time.
func (e *ConversationEngine) touchProfile(senderID string) {
	e.profileMu.Lock()
	defer e.profileMu.Unlock()

	profile, ok := e.profiles[senderID]
	if !ok {
		tail := senderID
		if len(tail) > 4 {
			tail = tail[len(tail)-4:]
		}
		profile = &entities.SenderProfile{
			SenderID:  senderID,
			Name:      "User_" + tail,
			CreatedAt: time.Now().UTC(),
		}
		e.profiles[senderID] = profile
	}
	profile.LastInteraction = time.Now().UTC()
}

func (e *ConversationEngine) countAppeal(senderID string) {
	e.profileMu.Lock()
	defer e.profileMu.Unlock()
	if profile, ok := e.profiles[senderID]; ok {
		profile.TotalAppeals++
	}
}

// Profile returns a copy of the sender's profile, if one exists.
func (e *ConversationEngine) Profile(senderID string) (entities.SenderProfile, bool) {
	e.profileMu.RLock()
	defer e.profileMu.RUnlock()
	profile, ok := e.profiles[senderID]
	if !ok {
		return entities.SenderProfile{}, false
	}
	return *profile, true
}
