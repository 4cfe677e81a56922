// Package services – Orchestrator
//
// Orchestrator is the per-message pipeline: session transition, topic guard,
// memory write, model completion, then exactly one terminal path (action
// dispatch, affirmative confirmation, plain reply, or apology). Messages from
// the same user are handled in arrival order; different users proceed
// concurrently.
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Lehmann-Bruno/petup-assistant/internal/channel"
	"github.com/Lehmann-Bruno/petup-assistant/internal/domain"
	"github.com/Lehmann-Bruno/petup-assistant/internal/llm"
)

// Limiter gates inbound message processing per user key.
type Limiter interface {
	Allow(key string) bool
}

// Orchestrator ties the conversation collaborators together and drives the
// channel message loop.
type Orchestrator struct {
	Sessions *SessionManager
	Guard    *TopicGuard
	Model    llm.Backend
	Dispatch *Dispatcher
	Confirm  *ConfirmResolver
	Limiter  Limiter
	Log      zerolog.Logger

	// Business is the display name used in reply copy.
	Business string

	// Sleep is the thinking-delay seam; defaults to a context-aware sleep.
	Sleep func(ctx context.Context, d time.Duration)

	mu    sync.Mutex
	users map[string]*sync.Mutex
}

// NewOrchestrator wires the pipeline. All collaborators are required.
func NewOrchestrator(sessions *SessionManager, guard *TopicGuard, model llm.Backend, dispatch *Dispatcher, confirm *ConfirmResolver, limiter Limiter, log zerolog.Logger, business string) *Orchestrator {
	return &Orchestrator{
		Sessions: sessions,
		Guard:    guard,
		Model:    model,
		Dispatch: dispatch,
		Confirm:  confirm,
		Limiter:  limiter,
		Log:      log,
		Business: business,
		Sleep:    sleepCtx,
		users:    make(map[string]*sync.Mutex),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// userLock returns the mutual-exclusion lock for a user, creating it on
// first contact. Arrival-order handling is Run's job (one queue per user);
// the lock only protects callers invoking Handle directly. Locks are never
// released from the map; the user population is small and bounded by the
// channel.
func (o *Orchestrator) userLock(userID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	l, ok := o.users[userID]
	if !ok {
		l = &sync.Mutex{}
		o.users[userID] = l
	}
	return l
}

// userQueueDepth bounds each user's inbound backlog. A full queue blocks
// intake, trading loop throughput for never reordering a user's turns.
const userQueueDepth = 16

// Run consumes the channel until ctx is done or the message stream closes.
// Each user's messages are drained in arrival order by a dedicated
// goroutine; different users proceed concurrently.
func (o *Orchestrator) Run(ctx context.Context, ch channel.Channel) error {
	var wg sync.WaitGroup
	queues := make(map[string]chan channel.Message)
	defer func() {
		for _, q := range queues {
			close(q)
		}
		wg.Wait()
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch.Messages():
			if !ok {
				return nil
			}
			q, ok := queues[msg.SenderID]
			if !ok {
				q = make(chan channel.Message, userQueueDepth)
				queues[msg.SenderID] = q
				wg.Add(1)
				go func() {
					defer wg.Done()
					for m := range q {
						o.Handle(ctx, ch, m)
					}
				}()
			}
			select {
			case q <- msg:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Handle processes one inbound message end to end. Errors are terminal for
// the message only: they are logged and answered with the error apology.
func (o *Orchestrator) Handle(ctx context.Context, sender channel.Sender, msg channel.Message) {
	if msg.FromSelf {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	lock := o.userLock(msg.SenderID)
	lock.Lock()
	defer lock.Unlock()

	ctx, span := otel.Tracer("services").Start(ctx, "orchestrator.handle")
	defer span.End()

	if o.Limiter != nil && !o.Limiter.Allow(msg.SenderID) {
		observeOutcome("rate_limited")
		o.Log.Warn().Str("user", msg.SenderID).Msg("rate limited")
		return
	}

	if err := o.handle(ctx, sender, msg, text); err != nil {
		observeOutcome("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "message handling failed")
		o.Log.Error().Err(err).Str("user", msg.SenderID).Msg("message handling failed")
		if serr := sender.SendText(ctx, msg.SenderID, ReplyErrorApology); serr != nil {
			o.Log.Error().Err(serr).Str("user", msg.SenderID).Msg("apology delivery failed")
		}
	}
}

func (o *Orchestrator) handle(ctx context.Context, sender channel.Sender, msg channel.Message, text string) error {
	userID := msg.SenderID
	persona := PersonaPrompt(o.Business, msg.SenderName)

	tr, err := o.Sessions.Resolve(ctx, userID, persona)
	if err != nil {
		return err
	}
	if tr.Expired {
		sessionResets.Inc()
		if err := sender.SendText(ctx, userID, ReplyWelcomeBack); err != nil {
			return err
		}
	}

	// Topic filter runs before any memory write or model call; off-topic
	// turns never enter context.
	if !o.Guard.Allow(text) {
		observeOutcome("off_topic")
		return sender.SendText(ctx, userID, ReplyOffTopic(o.Business))
	}

	if err := o.Sessions.EnsureSeeded(ctx, userID, persona); err != nil {
		return err
	}
	if err := o.Sessions.RecordTurn(ctx, userID, domain.RoleUser, text); err != nil {
		return err
	}

	if tr.Delay > 0 {
		o.Sleep(ctx, tr.Delay)
	}

	if err := sender.SetTyping(ctx, userID, true); err != nil {
		o.Log.Debug().Err(err).Str("user", userID).Msg("typing state update failed")
	}

	turns, err := o.Sessions.BuildContext(ctx, userID, persona)
	if err != nil {
		return err
	}

	start := time.Now()
	comp, err := o.Model.Complete(ctx, turns, llm.Catalog())
	observeModelLatency(start)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if comp.Action != nil {
		observeAction(comp.Action.Name)
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("action", comp.Action.Name))
		reply, err := o.Dispatch.Dispatch(ctx, userID, text, *comp.Action)
		if err != nil {
			return err
		}
		observeOutcome("action")
		return o.reply(ctx, sender, userID, reply)
	}

	if report, ok := o.Confirm.Resolve(userID, text); ok {
		observeOutcome("confirmed")
		return o.reply(ctx, sender, userID, report)
	}

	out := strings.TrimSpace(comp.Text)
	if out == "" {
		// Not recorded in memory: an apology for a blank completion is
		// noise the model should not see next turn.
		observeOutcome("apology")
		return sender.SendText(ctx, userID, ReplyGenericApology)
	}

	observeOutcome("replied")
	if err := sender.SetTyping(ctx, userID, false); err != nil {
		o.Log.Debug().Err(err).Str("user", userID).Msg("typing state update failed")
	}
	return o.reply(ctx, sender, userID, out)
}

// reply records the assistant turn, then delivers it. Delivery failures are
// returned after the turn is persisted so context stays consistent with what
// the assistant decided to say.
func (o *Orchestrator) reply(ctx context.Context, sender channel.Sender, userID, text string) error {
	if err := o.Sessions.RecordTurn(ctx, userID, domain.RoleAssistant, text); err != nil {
		return err
	}
	return sender.SendText(ctx, userID, text)
}
