package content

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rlpro/rlpro/internal/quiz"
)

// Card is a stored flashcard.
type Card struct {
	ID            string         `json:"id"`
	CardType      string         `json:"card_type"`
	Question      string         `json:"question"`
	Answer        string         `json:"answer"`
	Options       []string       `json:"options,omitempty"`
	SourceID      string         `json:"source_id,omitempty"`
	SourcePage    *int           `json:"source_page,omitempty"`
	SourceSnippet string         `json:"source_snippet,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// PracticeItem is the next card chosen by the backend scheduler.
type PracticeItem struct {
	Card   Card    `json:"card"`
	Weight float64 `json:"weight"`
}

// GradeRequest asks the backend to grade one answer.
type GradeRequest struct {
	CardID         string   `json:"card_id" validate:"required"`
	CardType       string   `json:"card_type" validate:"required"`
	Question       string   `json:"question" validate:"required"`
	ExpectedAnswer string   `json:"expected_answer"`
	UserAnswer     string   `json:"user_answer"`
	Options        []string `json:"options,omitempty"`
	SourceID       string   `json:"source_id,omitempty"`
	SessionID      string   `json:"session_id,omitempty"`
	UseLLM         bool     `json:"use_llm"`
}

// GradeResult is the backend's verdict.
type GradeResult struct {
	IsCorrect bool           `json:"is_correct"`
	Score     float64        `json:"score"`
	Details   map[string]any `json:"details"`
}

// Expected returns the expected answer reported in the details, if any.
func (r GradeResult) Expected() string {
	if v, ok := r.Details["expected"]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

// TestQuestion is a generated test item.
type TestQuestion struct {
	CardType string   `json:"card_type"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Options  []string `json:"options,omitempty"`
}

// LearnCardRequest asks for a teaching note about a card or a context.
type LearnCardRequest struct {
	SourceID     string `json:"source_id,omitempty"`
	CardQuestion string `json:"card_question,omitempty"`
	CardAnswer   string `json:"card_answer,omitempty"`
	Context      string `json:"context,omitempty"`
	MinWords     int    `json:"min_words" validate:"gt=100,lte=500"`
	MaxWords     int    `json:"max_words" validate:"gt=150,lte=600,gtefield=MinWords"`
}

// LearnCardResult is a teaching note and its reflection prompts.
type LearnCardResult struct {
	Text    string   `json:"text"`
	Prompts []string `json:"prompts"`
}

// Module is a stored learning module.
type Module struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Language     string           `json:"language"`
	LearningNote string           `json:"learning_note"`
	Example      string           `json:"example,omitempty"`
	Prompts      []string         `json:"prompts"`
	Questions    []ModuleQuestion `json:"questions"`
	Checklist    []string         `json:"checklist"`
}

// ModuleQuestion is one test item of a module.
type ModuleQuestion struct {
	ID         string   `json:"id"`
	CardType   string   `json:"card_type"`
	Question   string   `json:"question"`
	Options    []string `json:"options,omitempty"`
	Answer     string   `json:"answer"`
	Hint       string   `json:"hint,omitempty"`
	ForceWrong bool     `json:"forceWrong,omitempty"`
}

// Unit converts the module into a learning unit. Choice questions that
// arrive without options are asked as short answers.
func (m Module) Unit() quiz.Unit {
	u := quiz.Unit{
		ID:        m.ID,
		Title:     m.Title,
		Language:  m.Language,
		Body:      m.LearningNote,
		Example:   m.Example,
		Prompts:   append([]string(nil), m.Prompts...),
		Checklist: append([]string(nil), m.Checklist...),
	}
	for i, mq := range m.Questions {
		id := mq.ID
		if id == "" {
			id = fmt.Sprintf("q%d", i+1)
		}
		u.Questions = append(u.Questions, toQuestion(id, mq.CardType, mq.Question, mq.Answer, mq.Hint, mq.Options, mq.ForceWrong))
	}
	return u
}

func toQuestion(id, cardType, prompt, answer, hint string, options []string, forceFail bool) quiz.Question {
	kind := quiz.ParseKind(cardType)
	if kind.IsChoice() && len(options) == 0 {
		kind = quiz.ShortAnswer
	}
	q := quiz.Question{
		ID:        id,
		Kind:      kind,
		Prompt:    prompt,
		Answer:    answer,
		Hint:      hint,
		ForceFail: forceFail,
	}
	if kind.IsChoice() {
		q.Options = append([]string(nil), options...)
	}
	return q
}

// Format is an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatAnki     Format = "anki"
)

// Filename is the conventional file name for an export.
func (f Format) Filename() string {
	switch f {
	case FormatCSV:
		return "cards.csv"
	case FormatMarkdown:
		return "cards.md"
	case FormatAnki:
		return "cards_anki.txt"
	}
	return "cards"
}

// ParseFormat maps a name onto a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatMarkdown, FormatAnki:
		return f, nil
	case "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, md or anki)", s)
}

type practiceNextRequest struct {
	Sections []string `json:"sections,omitempty"`
}

type generateTestsRequest struct {
	Content       string `json:"content" validate:"required"`
	QuestionCount int    `json:"question_count" validate:"gt=0,lte=5"`
}

type expandRequest struct {
	Content  string `json:"content" validate:"required"`
	MinWords int    `json:"min_words" validate:"gt=50,lte=400"`
	MaxWords int    `json:"max_words" validate:"gt=100,lte=500,gtefield=MinWords"`
}

type liveQuestionRequest struct {
	Content      string  `json:"content" validate:"required"`
	CardType     string  `json:"card_type" validate:"oneof=term concept cloze short_answer single_choice multiple_choice"`
	MaxNewTokens int     `json:"max_new_tokens" validate:"gt=0,lte=512"`
	Temperature  float64 `json:"temperature" validate:"gte=0,lte=1"`
	TopP         float64 `json:"top_p" validate:"gt=0,lte=1"`
}

type generateModuleRequest struct {
	Text      string `json:"text" validate:"required"`
	Language  string `json:"language,omitempty"`
	ModelName string `json:"model_name,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateBody rejects a request locally when the backend would answer 422.
func validateBody(body any) error {
	err := validate.Struct(body)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate request: %w", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s=%s)", fe.Field(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("invalid request: %s", strings.Join(fields, ", "))
}
