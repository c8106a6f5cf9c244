// Package flipped runs the flipped classroom: the learner teaches a
// simulated student while a separate coach thread gives advice, and the
// model evaluates the teaching against a checklist.
package flipped

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/rlpro/rlpro/internal/chat"
	"github.com/rlpro/rlpro/internal/lang"
	"github.com/rlpro/rlpro/internal/llm"
)

// ErrClassEnded is returned when teaching continues after EndClass.
var ErrClassEnded = errors.New("class has ended")

const (
	studentGreeting = "Hi, what are we learning today?"
	studentFallback = "Can you explain that a bit more?"
	reportFallback  = "Good job guiding; consider adding more concrete examples."

	// misunderstandRate is the chance the student misreads the teacher
	// while the first checklist item is still open.
	misunderstandRate = 0.6

	historyTurns = 6
)

// Topic describes what the learner is teaching.
type Topic struct {
	// Subject is what the student asks clarifying questions about.
	Subject string

	// Misconception is the contrast the student may get confused about.
	Misconception string

	// CoachFocus is what the coach helps the student progress on.
	CoachFocus    string
	CoachFallback string

	// Checklist labels, in order. The model must use them verbatim.
	Checklist []string
}

// ChecklistItem is one teaching goal.
type ChecklistItem struct {
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

// Scores rates the teaching on a 0-1 scale.
type Scores struct {
	Responsiveness float64
	Clarity        float64
	Scaffolding    float64
	CoachUse       float64
	Total          float64
}

// Report is the end-of-class evaluation.
type Report struct {
	Scores     Scores
	Summary    string
	Strengths  []string
	Weaknesses []string

	// Text is what was shown in the coach thread.
	Text string
}

// Snapshot is a read-only copy of the classroom.
type Snapshot struct {
	Student   []chat.Turn
	Coach     []chat.Turn
	Checklist []ChecklistItem
	Summary   string
	Ended     bool
	Report    *Report
	Progress  int
}

// Classroom holds one flipped-classroom session.
type Classroom struct {
	gen    llm.Provider
	topic  Topic
	rand   func() float64
	logger *slog.Logger

	cmd sync.Mutex
	mu  sync.Mutex

	language  string
	model     string
	student   chat.Transcript
	coach     chat.Transcript
	checklist []ChecklistItem
	summary   string
	ended     bool
	report    *Report
}

// Option configures a Classroom.
type Option func(*Classroom)

// WithRand sets the source of randomness for student misunderstandings.
func WithRand(f func() float64) Option {
	return func(c *Classroom) { c.rand = f }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Classroom) { c.logger = l }
}

// WithPreferences sets the reply language and model.
func WithPreferences(language, model string) Option {
	return func(c *Classroom) {
		c.language = language
		c.model = model
	}
}

// New creates a Classroom. The student opens with a greeting.
func New(gen llm.Provider, topic Topic, opts ...Option) *Classroom {
	c := &Classroom{
		gen:      gen,
		topic:    topic,
		rand:     rand.Float64,
		logger:   slog.Default(),
		language: lang.Source,
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, label := range topic.Checklist {
		c.checklist = append(c.checklist, ChecklistItem{Label: label})
	}
	c.student.Append(chat.Student, studentGreeting)
	return c
}

// Teach sends the learner's explanation to the student. After a student
// reply the checklist is re-evaluated. Blank text is ignored.
func (c *Classroom) Teach(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.cmd.Lock()
	defer c.cmd.Unlock()

	c.mu.Lock()
	if c.ended {
		c.mu.Unlock()
		return ErrClassEnded
	}
	history := c.student.History(historyTurns)
	c.student.Append(chat.Teacher, text)
	misunderstand := len(c.checklist) > 0 && !c.checklist[0].Done && c.rand() < misunderstandRate
	language, model := c.language, c.model
	c.mu.Unlock()

	prompt := buildStudentPrompt(language, history, text, c.topic, misunderstand)
	reply, err := llm.Text(llm.WithPurpose(ctx, llm.PurposeStudent), c.gen, llm.Request{
		Prompt:       prompt,
		MaxNewTokens: 140,
		Temperature:  0.35,
		Model:        model,
	})
	if err != nil || reply == "" {
		c.logger.Warn("student reply fallback", "error", err)
		c.mu.Lock()
		c.student.Append(chat.Student, studentFallback)
		c.mu.Unlock()
		return nil
	}

	c.mu.Lock()
	c.student.Append(chat.Student, reply)
	c.mu.Unlock()

	c.evaluate(ctx)
	return nil
}

// Evaluate asks the model which checklist items the student has grasped.
// Only labels that match an item are applied; unparsable replies are
// ignored.
func (c *Classroom) Evaluate(ctx context.Context) {
	c.cmd.Lock()
	defer c.cmd.Unlock()
	c.evaluate(ctx)
}

func (c *Classroom) evaluate(ctx context.Context) {
	c.mu.Lock()
	transcript := turnsJSON(c.student.Turns())
	language, model := c.language, c.model
	c.mu.Unlock()

	reply, err := llm.Text(llm.WithPurpose(ctx, llm.PurposeEvaluation), c.gen, llm.Request{
		Prompt:       buildEvaluatePrompt(language, c.topic.Checklist, transcript),
		MaxNewTokens: 260,
		Temperature:  0.2,
		Model:        model,
	})
	if err != nil {
		c.logger.Warn("checklist evaluation failed", "error", err)
		return
	}
	raw, ok := llm.ExtractJSON(reply)
	if !ok {
		c.logger.Debug("checklist evaluation not JSON", "reply", reply)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if items := gjson.Get(raw, "checklist"); items.IsArray() {
		for _, item := range items.Array() {
			label := item.Get("label").String()
			for i := range c.checklist {
				if c.checklist[i].Label == label {
					c.checklist[i].Done = item.Get("done").Bool()
				}
			}
		}
	}
	if s := gjson.Get(raw, "summary"); s.Exists() && s.String() != "" {
		c.summary = s.String()
	}
}

// AskCoach sends a question to the coach thread. Blank text is ignored.
func (c *Classroom) AskCoach(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.cmd.Lock()
	defer c.cmd.Unlock()

	c.mu.Lock()
	history := c.coach.History(historyTurns)
	c.coach.Append(chat.Teacher, text)
	language, model := c.language, c.model
	c.mu.Unlock()

	reply, err := llm.Text(llm.WithPurpose(ctx, llm.PurposeCoach), c.gen, llm.Request{
		Prompt:       buildCoachPrompt(language, history, text, c.topic),
		MaxNewTokens: 140,
		Temperature:  0.25,
		Model:        model,
	})
	if err != nil || reply == "" {
		c.logger.Warn("coach reply fallback", "error", err)
		reply = c.topic.CoachFallback
		if reply == "" {
			reply = "Try a concrete example that contrasts the two views."
		}
	}

	c.mu.Lock()
	c.coach.Append(chat.Coach, reply)
	c.mu.Unlock()
	return nil
}

// EndClass closes the class and asks for a graded report, which is also
// appended to the coach thread. A reply that is not JSON is shown as is.
// Once a report exists later calls return it without a new request.
func (c *Classroom) EndClass(ctx context.Context) *Report {
	c.cmd.Lock()
	defer c.cmd.Unlock()

	c.mu.Lock()
	if c.ended && c.report != nil {
		r := c.report
		c.mu.Unlock()
		return r
	}
	c.ended = true
	student := turnsJSON(c.student.Turns())
	coach := turnsJSON(c.coach.Turns())
	language, model := c.language, c.model
	c.mu.Unlock()

	reply, err := llm.Text(llm.WithPurpose(ctx, llm.PurposeEvaluation), c.gen, llm.Request{
		Prompt:       buildReportPrompt(language, student, coach),
		MaxNewTokens: 500,
		Temperature:  0.2,
		Model:        model,
	})

	var r *Report
	if err != nil {
		c.logger.Warn("class report fallback", "error", err)
		r = &Report{Text: reportFallback}
	} else {
		r = parseReport(reply)
	}

	c.mu.Lock()
	c.report = r
	c.coach.Append(chat.Coach, r.Text)
	c.mu.Unlock()
	return r
}

// parseReport reads the report fields tolerantly: missing scores are zero
// and a reply without JSON becomes the report text.
func parseReport(reply string) *Report {
	raw, ok := llm.ExtractJSON(reply)
	if !ok || !gjson.Parse(raw).IsObject() {
		return &Report{Text: reply}
	}

	r := &Report{
		Summary:    gjson.Get(raw, "summary").String(),
		Strengths:  stringArray(gjson.Get(raw, "strengths")),
		Weaknesses: stringArray(gjson.Get(raw, "weaknesses")),
	}
	if s := gjson.Get(raw, "scores"); s.IsObject() {
		r.Scores = Scores{
			Responsiveness: s.Get("responsiveness").Float(),
			Clarity:        s.Get("clarity").Float(),
			Scaffolding:    s.Get("scaffolding").Float(),
			CoachUse:       s.Get("coach_use").Float(),
			Total:          s.Get("total").Float(),
		}
	}

	var lines []string
	if r.Summary != "" {
		lines = append(lines, r.Summary)
	}
	if len(r.Strengths) > 0 {
		lines = append(lines, "Strengths: "+strings.Join(r.Strengths, "; "))
	}
	if len(r.Weaknesses) > 0 {
		lines = append(lines, "Weaknesses: "+strings.Join(r.Weaknesses, "; "))
	}
	r.Text = strings.Join(lines, "\n")
	if r.Text == "" {
		r.Text = reply
	}
	return r
}

func stringArray(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	var out []string
	for _, item := range v.Array() {
		if s := strings.TrimSpace(item.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Progress is the share of checklist items done, or 100 once the class
// has ended.
func (c *Classroom) Progress() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progressLocked()
}

func (c *Classroom) progressLocked() int {
	if c.ended {
		return 100
	}
	if len(c.checklist) == 0 {
		return 0
	}
	done := 0
	for _, item := range c.checklist {
		if item.Done {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(c.checklist)) * 100))
}

// SetPreferences changes the reply language and model.
func (c *Classroom) SetPreferences(language, model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.language = language
	c.model = model
}

// State returns a snapshot of the classroom.
func (c *Classroom) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	var report *Report
	if c.report != nil {
		r := *c.report
		report = &r
	}
	return Snapshot{
		Student:   c.student.Turns(),
		Coach:     c.coach.Turns(),
		Checklist: append([]ChecklistItem(nil), c.checklist...),
		Summary:   c.summary,
		Ended:     c.ended,
		Report:    report,
		Progress:  c.progressLocked(),
	}
}

func turnsJSON(turns []chat.Turn) string {
	b, err := json.Marshal(turns)
	if err != nil {
		return "[]"
	}
	return string(b)
}
