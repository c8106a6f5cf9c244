package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rlpro/rlpro/internal/content"
)

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "List the practice cards stored on the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cardType, _ := cmd.Flags().GetString("type")
		section, _ := cmd.Flags().GetString("section")

		cards, err := newContentClient().ListCards(cmd.Context())
		if err != nil {
			return err
		}
		printCards(cmd.OutOrStdout(), filterCards(cards, cardType, section))
		return nil
	},
}

func init() {
	cardsCmd.Flags().String("type", "", "Only cards of this type")
	cardsCmd.Flags().String("section", "", "Only cards tagged with this section")
}

// filterCards keeps the cards matching cardType and section. An empty
// filter matches everything.
func filterCards(cards []content.Card, cardType, section string) []content.Card {
	var out []content.Card
	for _, c := range cards {
		if cardType != "" && c.CardType != cardType {
			continue
		}
		if section != "" && !containsFold(cardSections(c), section) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// cardSections reads the "section" metadata, which the backend stores as a
// list but older cards carry as a plain string.
func cardSections(c content.Card) []string {
	switch v := c.Metadata["section"].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, s := range v {
			out = append(out, fmt.Sprint(s))
		}
		return out
	}
	return nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func printCards(w io.Writer, cards []content.Card) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "No cards found.")
		return
	}
	fmt.Fprintf(w, "%-20s  %-15s  %-12s  %s\n", "ID", "Type", "Section", "Question")
	fmt.Fprintln(w, strings.Repeat("─", 80))
	for _, c := range cards {
		section := "general"
		if s := cardSections(c); len(s) > 0 {
			section = s[0]
		}
		fmt.Fprintf(w, "%-20s  %-15s  %-12s  %s\n",
			truncate(c.ID, 20), c.CardType, truncate(section, 12), truncate(c.Question, 60))
	}
	fmt.Fprintf(w, "\n%d cards\n", len(cards))
}
