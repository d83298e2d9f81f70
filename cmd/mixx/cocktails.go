package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/mixxbar/mixx/pkg/api"
	"github.com/mixxbar/mixx/pkg/catalog"
	"github.com/mixxbar/mixx/pkg/model"
	"github.com/mixxbar/mixx/pkg/screen"
)

var (
	cocktailsMine      bool
	cocktailsFavorites bool
	cocktailsSearch    string
	cocktailsFacets    []string
	cocktailsJSON      bool
	cocktailCopy       bool
	cocktailJSON       bool
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

var cocktailsCmd = &cobra.Command{
	Use:   "cocktails",
	Short: "List and search cocktails",
	Long: `List cocktails, favorites first. --mine lists what your bar can make and
--favorites lists your favorites; both need a login.

--search matches the enabled facets: cocktail name, ingredient and glassware.
A cocktail matches when any enabled facet matches.`,
	Args: cobra.NoArgs,
	RunE: withApp(runCocktails),
}

var cocktailCmd = &cobra.Command{
	Use:   "cocktail <id>",
	Short: "Show a cocktail recipe",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runCocktail),
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite <id>...",
	Short: "Add cocktails to your favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withApp(runFavorite(true)),
}

var unfavoriteCmd = &cobra.Command{
	Use:   "unfavorite <id>...",
	Short: "Remove cocktails from your favorites",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withApp(runFavorite(false)),
}

var likeCmd = &cobra.Command{
	Use:   "like <id>",
	Short: "Like a cocktail",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runRate(model.LikeLiked)),
}

var dislikeCmd = &cobra.Command{
	Use:   "dislike <id>",
	Short: "Dislike a cocktail",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runRate(model.LikeDisliked)),
}

var unrateCmd = &cobra.Command{
	Use:   "unrate <id>",
	Short: "Clear your like or dislike of a cocktail",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runRate(model.LikeNone)),
}

func init() {
	cocktailsCmd.Flags().BoolVar(&cocktailsMine, "mine", false, "Only cocktails you can make")
	cocktailsCmd.Flags().BoolVar(&cocktailsFavorites, "favorites", false, "Only your favorites")
	cocktailsCmd.Flags().StringVarP(&cocktailsSearch, "search", "s", "", "Search text")
	cocktailsCmd.Flags().StringSliceVar(&cocktailsFacets, "facet", nil,
		"Facets to search: name, ingredient, glassware (default: from config)")
	cocktailsCmd.Flags().BoolVar(&cocktailsJSON, "json", false, "Output JSON")
	cocktailsCmd.MarkFlagsMutuallyExclusive("mine", "favorites")

	cocktailCmd.Flags().BoolVar(&cocktailCopy, "copy", false, "Copy the recipe to the clipboard")
	cocktailCmd.Flags().BoolVar(&cocktailJSON, "json", false, "Output JSON")

	rootCmd.AddCommand(cocktailsCmd, cocktailCmd, favoriteCmd, unfavoriteCmd, likeCmd, dislikeCmd, unrateCmd)
}

// cocktailJSONRow is a cocktail with its references resolved.
type cocktailJSONRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Subtitle string `json:"subtitle,omitempty"`
	Glass    string `json:"glass,omitempty"`
	Favorite bool   `json:"favorite"`
}

func cocktailSource() screen.Source {
	switch {
	case cocktailsMine:
		return screen.SourceMine
	case cocktailsFavorites:
		return screen.SourceFavorites
	default:
		return screen.SourceAll
	}
}

func subtitle(c model.Cocktail) string {
	if c.HasSubtitle() {
		return *c.Subtitle
	}
	return ""
}

func runCocktails(cmd *cobra.Command, _ []string, a *app) error {
	facets := a.cfg.FacetSet()
	if len(cocktailsFacets) > 0 {
		var err error
		if facets, err = catalog.ParseFacetSet(cocktailsFacets); err != nil {
			return err
		}
	}

	list := screen.NewCocktails(a.client, a.sess, cocktailSource(), facets)
	if err := list.Load(cmd.Context()); err != nil {
		return err
	}
	list.SetQuery(cocktailsSearch)
	results := list.Results()

	out := cmd.OutOrStdout()
	if cocktailsJSON {
		rows := make([]cocktailJSONRow, 0, len(results))
		for _, c := range results {
			rows = append(rows, cocktailJSONRow{
				ID:       c.ID,
				Name:     c.Name,
				Subtitle: subtitle(c),
				Glass:    list.GlassName(c.Glass),
				Favorite: list.IsFavorite(c.ID),
			})
		}
		return printJSON(out, rows)
	}

	if len(results) == 0 {
		if cocktailsSearch == "" {
			fmt.Fprintln(out, "No cocktails.")
			return nil
		}
		fmt.Fprintf(out, "No cocktails match %q.\n", cocktailsSearch)
		if sugg := list.Suggestions(3); len(sugg) > 0 {
			names := make([]string, len(sugg))
			for i, s := range sugg {
				names[i] = s.Name
			}
			fmt.Fprintf(out, "Did you mean: %s?\n", strings.Join(names, ", "))
		}
		return nil
	}

	rows := make([][]string, 0, len(results))
	for _, c := range results {
		fav := ""
		if list.IsFavorite(c.ID) {
			fav = "★"
		}
		rows = append(rows, []string{fav, c.ID, c.Name, subtitle(c), list.GlassName(c.Glass)})
	}
	writeTable(out, []string{"", "ID", "NAME", "SUBTITLE", "GLASS"}, rows)
	return nil
}

func runCocktail(cmd *cobra.Command, args []string, a *app) error {
	d := screen.NewDetail(a.client, a.sess, args[0])
	if err := d.Load(cmd.Context()); err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if cocktailCopy {
		if err := copyToClipboard(d.PlainText()); err != nil {
			return fmt.Errorf("copy recipe: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Recipe copied to clipboard.")
	}

	if cocktailJSON {
		c := d.Cocktail()
		lines := d.Lines()
		ingredients := make([]string, len(lines))
		for i, l := range lines {
			ingredients[i] = l.String()
		}
		return printJSON(out, struct {
			ID          string   `json:"id"`
			Name        string   `json:"name"`
			Subtitle    string   `json:"subtitle,omitempty"`
			Glass       string   `json:"glass,omitempty"`
			Ingredients []string `json:"ingredients"`
			Directions  string   `json:"directions"`
			Garnish     string   `json:"garnish,omitempty"`
			Favorite    bool     `json:"favorite"`
			Rating      string   `json:"rating,omitempty"`
		}{
			ID:          c.ID,
			Name:        c.Name,
			Subtitle:    subtitle(*c),
			Glass:       d.GlassName(),
			Ingredients: ingredients,
			Directions:  c.Directions,
			Garnish:     c.Garnish,
			Favorite:    d.IsFavorite(),
			Rating:      ratingText(a, d),
		})
	}

	width := terminalWidth(out)
	if isTerminal(out) {
		rendered, err := d.Render(width, glamourStyle)
		if err == nil {
			fmt.Fprint(out, rendered)
			return nil
		}
		a.logger.Sugar().Warnw("render cocktail", "id", d.ID(), "error", err)
	}
	fmt.Fprint(out, wrap(d.PlainText(), width))
	return nil
}

func ratingText(a *app, d *screen.Detail) string {
	if !a.sess.LoggedIn() {
		return ""
	}
	return string(d.LikeStatus())
}

func runFavorite(add bool) func(*cobra.Command, []string, *app) error {
	return func(cmd *cobra.Command, args []string, a *app) error {
		if !a.sess.LoggedIn() {
			return api.ErrNotLoggedIn
		}
		for _, id := range args {
			var err error
			if add {
				err = a.client.Favorite(cmd.Context(), id)
			} else {
				err = a.client.Unfavorite(cmd.Context(), id)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
		}
		if add {
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to favorites.\n", plural(len(args), "cocktail", "cocktails"))
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from favorites.\n", plural(len(args), "cocktail", "cocktails"))
		}
		return nil
	}
}

func runRate(want model.LikeStatus) func(*cobra.Command, []string, *app) error {
	return func(cmd *cobra.Command, args []string, a *app) error {
		if !a.sess.LoggedIn() {
			return api.ErrNotLoggedIn
		}
		d := screen.NewDetail(a.client, a.sess, args[0])
		if err := d.Load(cmd.Context()); err != nil {
			return err
		}
		name := d.Cocktail().Name

		// Pressing the active rating clears it, so an unchanged rating is
		// reported instead of toggled.
		if d.LikeStatus() == want {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is already %s.\n", name, statusWord(want))
			return nil
		}
		status, err := d.SetLikeStatus(cmd.Context(), want)
		if err != nil {
			return err
		}
		switch status {
		case model.LikeLiked:
			fmt.Fprintf(cmd.OutOrStdout(), "Liked %s.\n", name)
		case model.LikeDisliked:
			fmt.Fprintf(cmd.OutOrStdout(), "Disliked %s.\n", name)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared your rating of %s.\n", name)
		}
		return nil
	}
}

func statusWord(s model.LikeStatus) string {
	switch s {
	case model.LikeLiked:
		return "liked"
	case model.LikeDisliked:
		return "disliked"
	}
	return "unrated"
}
