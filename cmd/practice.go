package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rlpro/rlpro/internal/app"
	"github.com/rlpro/rlpro/internal/content"
)

var practiceCmd = &cobra.Command{
	Use:         "practice",
	Short:       "Learn the next scheduled card",
	Annotations: map[string]string{tuiAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		sections, _ := cmd.Flags().GetStringSlice("section")
		return runApp(cmd, app.Options{Start: app.StartPractice, Sections: sections})
	},
}

var practiceNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Print the next card chosen by the backend scheduler",
	Long: "Prints the next scheduled card. With --answer the answer is graded by the\n" +
		"backend inside a fresh study session and the scheduler is updated.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sections, _ := cmd.Flags().GetStringSlice("section")
		answer, _ := cmd.Flags().GetString("answer")
		answered := cmd.Flags().Changed("answer")

		client := newContentClient()
		item, err := client.NextPracticeItem(ctx, sections)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		c := item.Card
		fmt.Fprintf(out, "ID:      %s\n", c.ID)
		fmt.Fprintf(out, "Type:    %s\n", c.CardType)
		fmt.Fprintf(out, "Weight:  %.2f\n", item.Weight)
		if c.SourceID != "" {
			fmt.Fprintf(out, "Source:  %s\n", c.SourceID)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, c.Question)
		for j, o := range c.Options {
			fmt.Fprintf(out, "  %c) %s\n", 'A'+j, o)
		}
		if !answered {
			fmt.Fprintf(out, "\nAnswer:  %s\n", c.Answer)
			return nil
		}

		// The session only tags the answer log; grading works without it.
		sessionID, err := client.StartSession(ctx)
		if err != nil {
			logger.Warn("study session not started", "error", err)
		}
		res, err := gradeCard(ctx, client, c, optionAnswer(c.Options, answer), sessionID)
		if err != nil {
			return err
		}
		printGrade(out, c, res)
		return nil
	},
}

// gradeCard submits an answer for c. Cards without options are open-ended
// and are graded by the backend's model.
func gradeCard(ctx context.Context, client *content.Client, c content.Card, answer, sessionID string) (*content.GradeResult, error) {
	return client.Grade(ctx, content.GradeRequest{
		CardID:         c.ID,
		CardType:       c.CardType,
		Question:       c.Question,
		ExpectedAnswer: c.Answer,
		UserAnswer:     answer,
		Options:        c.Options,
		SourceID:       c.SourceID,
		SessionID:      sessionID,
		UseLLM:         len(c.Options) == 0,
	})
}

func printGrade(w io.Writer, c content.Card, res *content.GradeResult) {
	fmt.Fprintf(w, "\nCorrect: %t | Score: %.2f\n", res.IsCorrect, res.Score)
	if res.IsCorrect {
		return
	}
	expected := res.Expected()
	if expected == "" {
		expected = c.Answer
	}
	fmt.Fprintf(w, "Expected: %s\n", expected)
	if fb, ok := res.Details["feedback"].(string); ok && fb != "" {
		fmt.Fprintf(w, "Feedback: %s\n", fb)
	}
}

var practiceLiveCmd = &cobra.Command{
	Use:   "live <content>",
	Short: "Stream one freshly generated question about the given text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cardType, _ := cmd.Flags().GetString("type")

		res, err := newContentClient().LiveQuestion(cmd.Context(), strings.Join(args, " "), cardType,
			func(chunk string) { fmt.Print(chunk) })
		fmt.Println()
		if err != nil {
			return err
		}

		v, ok := res.Decode()
		if !ok {
			fmt.Fprintln(os.Stderr, "(reply was not JSON)")
			return nil
		}
		pretty, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("\n%s\n(%d chunks)\n", pretty, res.Chunks())
		return nil
	},
}

func init() {
	practiceCmd.PersistentFlags().StringSlice("section", nil, "Restrict practice to these sections")
	practiceNextCmd.Flags().String("answer", "", "Grade this answer (an option letter or text)")
	practiceLiveCmd.Flags().String("type", "single_choice", "Card type: term, concept, cloze, short_answer, single_choice or multiple_choice")

	practiceCmd.AddCommand(practiceNextCmd)
	practiceCmd.AddCommand(practiceLiveCmd)
}
