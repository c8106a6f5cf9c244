package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rlpro/rlpro/internal/lang"
	"github.com/rlpro/rlpro/internal/quiz"
)

// ModuleSource loads a stored module as a learning unit.
type ModuleSource struct {
	Client *Client
	ID     string
}

// Load fetches the module and converts it.
func (s ModuleSource) Load(ctx context.Context) (quiz.Unit, error) {
	m, err := s.Client.GetModule(ctx, s.ID)
	if err != nil {
		return quiz.Unit{}, err
	}
	u := m.Unit()
	if u.Language == "" {
		u.Language = lang.Source
	}
	return u, nil
}

// PracticeSource builds a learning unit around the next scheduled card:
// a teaching note for the card followed by questions generated from it.
type PracticeSource struct {
	Client   *Client
	Sections []string

	// Count is how many test questions to request. Zero means 3.
	Count int

	Logger *slog.Logger
}

// Load assembles the unit. Only failing to fetch the card is an error;
// a missing note or question set degrades to content built from the card.
func (s PracticeSource) Load(ctx context.Context) (quiz.Unit, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	count := s.Count
	if count <= 0 {
		count = 3
	}

	item, err := s.Client.NextPracticeItem(ctx, s.Sections)
	if err != nil {
		return quiz.Unit{}, err
	}
	card := item.Card

	u := quiz.Unit{
		ID:       card.ID,
		Title:    card.Question,
		Language: lang.Source,
	}
	u.Body, u.Prompts = s.note(ctx, logger, card)

	questions, err := s.Client.GenerateTestQuestions(ctx, u.Body, count)
	if err != nil {
		logger.Warn("test generation failed, asking the card itself", "card", card.ID, "error", err)
	}
	for i, tq := range questions {
		if strings.TrimSpace(tq.Question) == "" {
			continue
		}
		id := fmt.Sprintf("%s_test_%d", card.ID, i+1)
		u.Questions = append(u.Questions, toQuestion(id, tq.CardType, tq.Question, tq.Answer, "", tq.Options, false))
	}
	if len(u.Questions) == 0 {
		u.Questions = quiz.Set{toQuestion(card.ID, card.CardType, card.Question, card.Answer, "", card.Options, false)}
	}
	return u, nil
}

func (s PracticeSource) note(ctx context.Context, logger *slog.Logger, card Card) (string, []string) {
	lc, err := s.Client.LearnCard(ctx, LearnCardRequest{
		SourceID:     card.SourceID,
		CardQuestion: card.Question,
		CardAnswer:   card.Answer,
		Context:      card.SourceSnippet,
	})
	if err == nil && strings.TrimSpace(lc.Text) != "" {
		return lc.Text, lc.Prompts
	}
	logger.Warn("learn card failed, expanding snippet", "card", card.ID, "error", err)

	snippet := card.SourceSnippet
	if snippet == "" {
		snippet = strings.TrimSpace(card.Question + "\n" + card.Answer)
	}
	text, err := s.Client.ExpandLearningNote(ctx, snippet, 150, 300)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	logger.Warn("expand failed, using card text", "card", card.ID, "error", err)
	return card.Question + "\nSource: " + card.SourceSnippet, nil
}
