package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mixxbar/mixx/pkg/screen"
)

var (
	recommendCount int
	recommendJSON  bool
)

var recommendCmd = &cobra.Command{
	Use:       "recommend [ingredients|cocktails]",
	Short:     "Suggest ingredients to buy and cocktails to try",
	Long:      `Show the ingredients that unlock the most new cocktails, and a few cocktails to try. Needs a login.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"ingredients", "cocktails"},
	RunE:      withApp(runRecommend),
}

func init() {
	recommendCmd.Flags().IntVarP(&recommendCount, "count", "n", 0, "How many of each to show (default: from config)")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Output JSON")
	rootCmd.AddCommand(recommendCmd)
}

type recommendation struct {
	Ingredients []screen.IngredientPick `json:"ingredients,omitempty"`
	Cocktails   []cocktailJSONRow       `json:"cocktails,omitempty"`
}

func runRecommend(cmd *cobra.Command, args []string, a *app) error {
	count := a.cfg.Recommendations.Count
	if recommendCount > 0 {
		count = recommendCount
	}
	recs := screen.NewRecommendations(a.client, a.sess, count, nil)
	if err := recs.Load(cmd.Context()); err != nil {
		return err
	}

	which := ""
	if len(args) == 1 {
		which = args[0]
	}
	var result recommendation
	if which != "cocktails" {
		result.Ingredients = recs.Ingredients()
	}
	if which != "ingredients" {
		for _, c := range recs.Cocktails() {
			row := cocktailJSONRow{ID: c.ID, Name: c.Name, Favorite: recs.IsFavorite(c.ID)}
			if c.Subtitle != nil {
				row.Subtitle = *c.Subtitle
			}
			result.Cocktails = append(result.Cocktails, row)
		}
	}

	out := cmd.OutOrStdout()
	if recommendJSON {
		return printJSON(out, result)
	}
	if which != "cocktails" {
		writeIngredientPicks(out, result.Ingredients)
	}
	if which == "" {
		fmt.Fprintln(out)
	}
	if which != "ingredients" {
		writeCocktailPicks(out, result.Cocktails)
	}
	return nil
}

func writeIngredientPicks(w io.Writer, picks []screen.IngredientPick) {
	fmt.Fprintln(w, "Ingredients to buy")
	if len(picks) == 0 {
		fmt.Fprintln(w, "  Nothing to recommend yet.")
		return
	}
	for _, p := range picks {
		names := make([]string, len(p.Unlocks))
		for i, c := range p.Unlocks {
			names[i] = c.Name
		}
		fmt.Fprintf(w, "  %s unlocks %s", p.Name, plural(len(p.Unlocks), "cocktail", "cocktails"))
		if len(names) > 0 {
			fmt.Fprintf(w, ": %s", strings.Join(names, ", "))
		}
		fmt.Fprintln(w)
	}
}

func writeCocktailPicks(w io.Writer, picks []cocktailJSONRow) {
	fmt.Fprintln(w, "Cocktails to try")
	if len(picks) == 0 {
		fmt.Fprintln(w, "  No cocktail picks right now.")
		return
	}
	for _, c := range picks {
		mark := " "
		if c.Favorite {
			mark = "★"
		}
		name := c.Name
		if c.Subtitle != "" {
			name += " · " + c.Subtitle
		}
		fmt.Fprintf(w, "  %s %s  (%s)\n", mark, name, c.ID)
	}
}
