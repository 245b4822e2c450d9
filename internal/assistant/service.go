package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/application"
)

// Intent labels which slice of practice data a question is about.
type Intent string

const (
	IntentCalendar Intent = "calendar"
	IntentClients  Intent = "clients"
	IntentCases    Intent = "cases"
	IntentGeneral  Intent = "general"
)

// Answer is the assistant's reply together with the routed intent.
type Answer struct {
	Intent Intent
	Text   string
}

// CalendarReader exposes the events used to build calendar context.
type CalendarReader interface {
	AllEvents(ctx context.Context) []application.CalendarEvent
}

// ClientReader exposes the client records used to build client context.
type ClientReader interface {
	ListClients(ctx context.Context, principal application.Principal) ([]application.Client, error)
}

// CaseReader exposes the case records used to build case context.
type CaseReader interface {
	ListCases(ctx context.Context, params application.ListCasesParams) ([]application.Case, error)
}

// Service answers natural language questions about the practice. The
// question is routed by keyword to one data domain and only that
// domain's records are included in the prompt.
type Service struct {
	chat     ChatClient
	calendar CalendarReader
	clients  ClientReader
	cases    CaseReader
	cache    *answerCache
	now      func() time.Time
	logger   *slog.Logger
}

func NewService(chat ChatClient, calendar CalendarReader, clients ClientReader, cases CaseReader, now func() time.Time, logger *slog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		chat:     chat,
		calendar: calendar,
		clients:  clients,
		cases:    cases,
		cache:    newAnswerCache(5*time.Minute, 64, now),
		now:      now,
		logger:   logger,
	}
}

// Ask classifies the question, assembles the matching context, and
// requests a completion. Identical questions within the cache window are
// answered from the cache.
func (s *Service) Ask(ctx context.Context, principal application.Principal, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		verr := &application.ValidationError{FieldErrors: map[string]string{"question": "question is required"}}
		return Answer{}, verr
	}

	intent := ClassifyIntent(question)
	cacheKey := string(intent) + "|" + principal.UserID + "|" + strings.ToLower(question)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return Answer{Intent: intent, Text: cached}, nil
	}

	systemPrompt, err := s.buildSystemPrompt(ctx, principal, intent)
	if err != nil {
		return Answer{}, err
	}

	text, err := s.chat.Complete(ctx, systemPrompt, question)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("assistant completion failed", slog.String("intent", string(intent)), slog.String("error", err.Error()))
		}
		return Answer{}, err
	}

	s.cache.Store(cacheKey, text)
	return Answer{Intent: intent, Text: text}, nil
}

// Invalidate clears cached answers. Call after data mutations so stale
// context does not outlive the records it described.
func (s *Service) Invalidate() {
	s.cache.Invalidate()
}

var intentKeywords = map[Intent][]string{
	IntentCalendar: {"calendar", "schedule", "event", "meeting", "hearing", "court", "appointment", "reminder", "deadline", "today", "tomorrow", "week"},
	IntentClients:  {"client", "contact", "phone", "email", "address"},
	IntentCases:    {"case", "matter", "lawsuit", "litigation", "filing", "docket"},
}

// ClassifyIntent picks the domain with the most keyword hits. Ties and
// zero hits route to the general intent.
func ClassifyIntent(question string) Intent {
	lowered := strings.ToLower(question)

	best := IntentGeneral
	bestScore := 0
	tied := false
	for _, intent := range []Intent{IntentCalendar, IntentClients, IntentCases} {
		score := 0
		for _, keyword := range intentKeywords[intent] {
			if strings.Contains(lowered, keyword) {
				score++
			}
		}
		switch {
		case score > bestScore:
			best, bestScore, tied = intent, score, false
		case score == bestScore && score > 0:
			tied = true
		}
	}
	if bestScore == 0 || tied {
		return IntentGeneral
	}
	return best
}

func (s *Service) buildSystemPrompt(ctx context.Context, principal application.Principal, intent Intent) (string, error) {
	var b strings.Builder
	b.WriteString("You are the assistant for a legal practice management system. ")
	b.WriteString("Answer concisely using only the records below. ")
	fmt.Fprintf(&b, "Today is %s.\n", s.now().Format("Monday, 2 January 2006"))

	switch intent {
	case IntentCalendar:
		b.WriteString("\nCalendar events:\n")
		for _, event := range s.calendar.AllEvents(ctx) {
			fmt.Fprintf(&b, "- [%s] %s: %s to %s", event.Type, event.Title,
				event.Start.Format(time.RFC1123), event.End.Format(time.RFC1123))
			if event.Description != "" {
				fmt.Fprintf(&b, " (%s)", event.Description)
			}
			b.WriteString("\n")
		}
	case IntentClients:
		clients, err := s.clients.ListClients(ctx, principal)
		if err != nil {
			return "", err
		}
		b.WriteString("\nClients:\n")
		for _, client := range clients {
			fmt.Fprintf(&b, "- %s, email %s, phone %s\n", client.Name, client.Email, client.Phone)
		}
	case IntentCases:
		cases, err := s.cases.ListCases(ctx, application.ListCasesParams{Principal: principal})
		if err != nil {
			return "", err
		}
		b.WriteString("\nCases:\n")
		for _, c := range cases {
			fmt.Fprintf(&b, "- %s (%s), status %s, practice area %s\n", c.Title, c.CaseNumber, c.Status, c.PracticeArea)
		}
	default:
		b.WriteString("No practice records are relevant; answer from general knowledge about running a legal practice.\n")
	}

	return b.String(), nil
}
