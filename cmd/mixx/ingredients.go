package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mixxbar/mixx/pkg/api"
	"github.com/mixxbar/mixx/pkg/model"
	"github.com/mixxbar/mixx/pkg/screen"
)

var (
	ingredientsMine   bool
	ingredientsSearch string
	ingredientsJSON   bool
)

var ingredientsCmd = &cobra.Command{
	Use:   "ingredients",
	Short: "List ingredients by category",
	Long: `List every ingredient grouped by category and subcategory. When logged in,
ingredients in your bar are marked [x]. --mine lists only your bar.`,
	Args: cobra.NoArgs,
	RunE: withApp(runIngredients),
}

var ingredientsAddCmd = &cobra.Command{
	Use:   "add <id|name>...",
	Short: "Add ingredients to your bar",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withApp(runEditBar(true)),
}

var ingredientsRemoveCmd = &cobra.Command{
	Use:   "remove <id|name>...",
	Short: "Remove ingredients from your bar",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withApp(runEditBar(false)),
}

var ingredientsUsedInCmd = &cobra.Command{
	Use:   "used-in <id|name>",
	Short: "List the cocktails that use an ingredient",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runUsedIn),
}

func init() {
	ingredientsCmd.Flags().BoolVar(&ingredientsMine, "mine", false, "Only ingredients in your bar")
	ingredientsCmd.Flags().StringVarP(&ingredientsSearch, "search", "s", "", "Search text")
	ingredientsCmd.Flags().BoolVar(&ingredientsJSON, "json", false, "Output JSON")

	ingredientsCmd.AddCommand(ingredientsAddCmd, ingredientsRemoveCmd, ingredientsUsedInCmd)
	rootCmd.AddCommand(ingredientsCmd)
}

func loadIngredients(ctx context.Context, a *app) (*screen.Ingredients, error) {
	s := screen.NewIngredients(a.client, a.sess)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func runIngredients(cmd *cobra.Command, _ []string, a *app) error {
	if ingredientsMine && !a.sess.LoggedIn() {
		return api.ErrNotLoggedIn
	}
	s, err := loadIngredients(cmd.Context(), a)
	if err != nil {
		return err
	}
	s.SetQuery(ingredientsSearch)

	tree := s.All()
	if ingredientsMine {
		tree = s.Mine()
	}

	out := cmd.OutOrStdout()
	if ingredientsJSON {
		return printJSON(out, tree)
	}
	if tree == nil || tree.IsEmpty() {
		switch {
		case ingredientsSearch != "":
			fmt.Fprintf(out, "No ingredients match %q.\n", ingredientsSearch)
		case ingredientsMine:
			fmt.Fprintln(out, "Your bar is empty. Add ingredients with `mixx ingredients add`.")
		default:
			fmt.Fprintln(out, "No ingredients.")
		}
		return nil
	}
	writeTree(out, tree, a.sess.LoggedIn() && !ingredientsMine)
	return nil
}

// writeTree prints the category tree. With marks, each ingredient is
// prefixed by its ownership.
func writeTree(w io.Writer, tree *model.CategorizedIngredients, marks bool) {
	for _, cat := range tree.Categories {
		fmt.Fprintln(w, cat.Name)
		for _, sub := range cat.Subcategories {
			fmt.Fprintln(w, "  "+sub.Name)
			for _, ref := range sub.Ingredients {
				prefix := "    "
				if marks {
					mark := "[ ] "
					if ref.Owned {
						mark = "[x] "
					}
					prefix += mark
				}
				fmt.Fprintf(w, "%s%s  (%s)\n", prefix, ref.Name, ref.ID)
			}
		}
	}
}

// resolveIngredients maps ids or names to ingredient references.
func resolveIngredients(s *screen.Ingredients, keys []string) ([]model.IngredientRef, error) {
	refs := make([]model.IngredientRef, 0, len(keys))
	var unknown []string
	for _, key := range keys {
		ref, ok := s.Lookup(key)
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		refs = append(refs, ref)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown ingredient: %s", strings.Join(unknown, ", "))
	}
	return refs, nil
}

func runEditBar(add bool) func(*cobra.Command, []string, *app) error {
	return func(cmd *cobra.Command, args []string, a *app) error {
		if !a.sess.LoggedIn() {
			return api.ErrNotLoggedIn
		}
		s, err := loadIngredients(cmd.Context(), a)
		if err != nil {
			return err
		}
		refs, err := resolveIngredients(s, args)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			if add {
				err = s.Add(ref.ID)
			} else {
				err = s.Remove(ref.ID)
			}
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		pending := s.Pending()
		if pending.IsEmpty() {
			fmt.Fprintln(out, "No changes to save.")
			return nil
		}
		if err := s.Save(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(out, "Your bar is saved: %s added, %s removed.\n",
			plural(len(pending.Added), "ingredient", "ingredients"),
			plural(len(pending.Removed), "ingredient", "ingredients"))
		return nil
	}
}

func runUsedIn(cmd *cobra.Command, args []string, a *app) error {
	s, err := loadIngredients(cmd.Context(), a)
	if err != nil {
		return err
	}
	refs, err := resolveIngredients(s, args)
	if err != nil {
		return err
	}
	cocktails, err := s.CocktailsWith(cmd.Context(), refs[0].ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(cocktails) == 0 {
		fmt.Fprintf(out, "No cocktails use %s.\n", refs[0].Name)
		return nil
	}
	rows := make([][]string, 0, len(cocktails))
	for _, c := range cocktails {
		rows = append(rows, []string{c.ID, c.Name, subtitle(c)})
	}
	writeTable(out, []string{"ID", "NAME", "SUBTITLE"}, rows)
	return nil
}
