package session

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"shopeelife/internal/domain/event"
	"shopeelife/internal/domain/office"
	"shopeelife/internal/domain/quest"
)

func (s *Session) requireNoModal() error {
	switch s.blocker() {
	case BlockRandomEvent:
		return office.Reject(office.ReasonBlocked, "Something needs your attention first: %s.", s.pendingEvent.Title)
	case BlockDayTransition:
		return office.Reject(office.ReasonBlocked, "A new day is starting. Hang on a second.")
	case BlockLunchReminder:
		return office.Reject(office.ReasonBlocked, "Dismiss the lunch reminder first.")
	}
	return nil
}

// StartActivity starts a work task, location action, lunch option or portal
// service by id. Work tasks are queued while another activity runs.
func (s *Session) StartActivity(activityID string) (string, error) {
	s.lock()
	defer s.mu.Unlock()
	defer s.settle()

	if err := s.requireNoModal(); err != nil {
		return "", err
	}
	a, ok := s.cfg.Catalog.Activity(activityID)
	if !ok {
		return "", office.Reject(office.ReasonUnknown, "Unknown activity %q.", activityID)
	}
	return s.begin(a)
}

func (s *Session) NavigateTo(locationID string) (string, error) {
	s.lock()
	defer s.mu.Unlock()
	defer s.settle()

	if err := s.requireNoModal(); err != nil {
		return "", err
	}
	nav, err := s.cfg.Catalog.Navigation(s.location, locationID, s.weather)
	if err != nil {
		return "", err
	}
	return s.begin(nav)
}

// CancelActivity stops the running activity, refunds what it reserved and
// clears the queue behind it.
func (s *Session) CancelActivity() (string, error) {
	s.lock()
	defer s.mu.Unlock()
	defer s.settle()

	run, err := s.runner.Cancel()
	if err != nil {
		return "", err
	}
	s.refund(run.Activity.Costs)
	dropped := s.runner.ClearQueue()
	s.markDirty()
	msg := fmt.Sprintf("Cancelled %s.", run.Activity.Title)
	if len(dropped) > 0 {
		msg += fmt.Sprintf(" Cleared %d queued.", len(dropped))
	}
	return msg, nil
}

// Choose resolves the pending random event. A choice the player cannot
// afford is rejected and the event stays open.
func (s *Session) Choose(eventID string, choiceIndex int) (string, error) {
	s.lock()
	defer s.mu.Unlock()
	defer s.settle()

	if s.pendingEvent == nil {
		return "", office.RejectWith(office.ReasonInvalid, event.ErrNoPendingEvent, "There's nothing to decide right now.")
	}
	if eventID != "" && eventID != s.pendingEvent.ID {
		return "", office.RejectWith(office.ReasonInvalid, event.ErrEventMismatch, "That event is no longer open.")
	}
	choice, err := s.pendingEvent.Choice(choiceIndex)
	if errors.Is(err, event.ErrInvalidChoice) {
		return "", office.RejectWith(office.ReasonInvalid, err, "Pick one of the offered choices.")
	}
	if err != nil {
		return "", err
	}
	res, err := s.ledger.Apply(choice.Effect)
	if err != nil {
		return "", err
	}
	s.pendingEvent = nil
	s.afterLedgerChange(res)
	s.markDirty()
	return choice.ResultText, nil
}

func (s *Session) ClaimQuest(questID string) (string, error) {
	s.lock()
	defer s.mu.Unlock()
	defer s.settle()

	q, err := s.quests.Find(questID)
	if err != nil {
		return "", office.Reject(office.ReasonUnknown, "Quest not found.")
	}
	switch err := q.Claim(); {
	case errors.Is(err, quest.ErrNotCompleted):
		return "", office.Reject(office.ReasonInvalid, "Finish %q before claiming it.", q.Title)
	case errors.Is(err, quest.ErrAlreadyClaimed):
		return "", office.Reject(office.ReasonAlreadyDone, "You already claimed %q.", q.Title)
	}
	res, err := s.ledger.Apply(q.Rewards())
	if err != nil {
		s.logger.Error("quest rewards rejected", zap.String("quest_id", q.ID), zap.Error(err))
	}
	s.afterLedgerChange(res)
	s.markDirty()
	return fmt.Sprintf("Claimed %q: +%d XP, +%s coins.", q.Title, q.RewardExp, humanize.Comma(int64(q.RewardCoins))), nil
}

func (s *Session) BuyItem(itemID string) (string, error) {
	s.lock()
	defer s.mu.Unlock()
	defer s.settle()

	if err := s.requireNoModal(); err != nil {
		return "", err
	}
	item, ok := s.cfg.Catalog.Item(itemID)
	if !ok {
		return "", office.Reject(office.ReasonUnknown, "The shop doesn't sell %q.", itemID)
	}
	if item.Kind == office.ItemWardrobe && s.inventory.Has(item.ID, 1) {
		return "", office.Reject(office.ReasonAlreadyDone, "You already own the %s.", item.Name)
	}
	if err := s.ledger.ApplyDelta(office.Deltas{office.StatCurrency: -item.Price}); err != nil {
		return "", err
	}
	s.inventory.Add(item.ID, 1)
	s.observe(quest.Signal{Type: quest.TypeShop, TargetID: item.ID})
	s.afterLedgerChange(office.LevelUpResult{})
	s.markDirty()
	return fmt.Sprintf("Bought %s for %s coins.", item.Name, humanize.Comma(int64(item.Price))), nil
}

func (s *Session) EquipItem(itemID string) (string, error) {
	s.lock()
	defer s.mu.Unlock()
	defer s.settle()

	if err := s.requireNoModal(); err != nil {
		return "", err
	}
	item, ok := s.cfg.Catalog.Item(itemID)
	if !ok || item.Kind != office.ItemWardrobe {
		return "", office.Reject(office.ReasonUnknown, "%q isn't something you can wear.", itemID)
	}
	if !s.inventory.Has(item.ID, 1) {
		return "", office.Reject(office.ReasonMissingItem, "You don't own the %s yet.", item.Name)
	}
	if s.equipped == item.ID {
		return "", office.Reject(office.ReasonAlreadyDone, "You're already wearing the %s.", item.Name)
	}
	s.equipped = item.ID
	s.observe(quest.Signal{Type: quest.TypeWardrobe, TargetID: item.ID})
	s.markDirty()
	return fmt.Sprintf("You put on the %s.", item.Name), nil
}

// SendChatMessage posts to SeaTalk and records a canned colleague reply.
func (s *Session) SendChatMessage(text string) (string, error) {
	s.lock()
	defer s.mu.Unlock()
	defer s.settle()

	if err := s.requireNoModal(); err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", office.Reject(office.ReasonInvalid, "Type a message first.")
	}
	if utf8.RuneCountInString(text) > office.MaxChatLength {
		return "", office.Reject(office.ReasonInvalid, "Messages are limited to %d characters.", office.MaxChatLength)
	}
	reply := event.PickReply(s.rng)
	at := s.clock.String()
	s.chat = append(s.chat,
		ChatMessage{From: "me", Text: text, At: at},
		ChatMessage{From: reply.From, Text: reply.Text, At: at},
	)
	if over := len(s.chat) - s.cfg.ChatHistory; over > 0 {
		s.chat = append([]ChatMessage(nil), s.chat[over:]...)
	}
	res, err := s.ledger.Apply(office.Deltas{
		office.StatBurnout:      office.ChatBurnoutDelta,
		office.StatProductivity: office.ChatProductivityDelta,
	})
	if err != nil {
		s.logger.Error("chat deltas rejected", zap.Error(err))
	}
	s.observe(quest.Signal{Type: quest.TypeSeaTalk})
	s.afterLedgerChange(res)
	s.markDirty()
	return fmt.Sprintf("%s: %s", reply.From, reply.Text), nil
}

// Dismiss closes a dismissible prompt. An empty modal closes whichever one is
// showing.
func (s *Session) Dismiss(modal string) (string, error) {
	s.lock()
	defer s.mu.Unlock()
	defer s.settle()

	target := Blocker(modal)
	if modal == "" {
		target = s.blocker()
	}
	switch target {
	case BlockDayTransition:
		if s.dayTransitionOpen {
			s.dayTransitionOpen = false
			return "Let's get to work.", nil
		}
	case BlockLunchReminder:
		if s.lunchReminderOpen {
			s.lunchReminderOpen = false
			s.markDirty()
			return "Lunch can wait.", nil
		}
	case BlockRandomEvent:
		if s.pendingEvent != nil {
			return "", office.Reject(office.ReasonInvalid, "Make a choice to close this event.")
		}
	}
	return "", office.Reject(office.ReasonInvalid, "Nothing to dismiss.")
}
