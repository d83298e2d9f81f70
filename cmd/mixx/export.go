package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mixxbar/mixx/pkg/export"
	"github.com/mixxbar/mixx/pkg/model"
	"github.com/mixxbar/mixx/pkg/screen"
)

var (
	exportXLSX string
	exportAll  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your bar to a spreadsheet",
	Long: `Write a workbook with three sheets: the cocktails you can make, every
ingredient with the ones in your bar marked, and a shopping list of
recommended ingredients. Without a login, or with --all, the cocktail sheet
lists every cocktail and the shopping list is empty.`,
	Args: cobra.NoArgs,
	RunE: withApp(runExport),
}

func init() {
	exportCmd.Flags().StringVar(&exportXLSX, "xlsx", "", "Output .xlsx path, or - for stdout")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Include every cocktail, not only the ones you can make")
	_ = exportCmd.MarkFlagRequired("xlsx")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string, a *app) error {
	loggedIn := a.sess.LoggedIn()
	source := screen.SourceAll
	if loggedIn && !exportAll {
		source = screen.SourceMine
	}

	cocktails := screen.NewCocktails(a.client, a.sess, source, a.cfg.FacetSet())
	ingredients := screen.NewIngredients(a.client, a.sess)
	recs := screen.NewRecommendations(a.client, a.sess, a.cfg.Recommendations.Count, nil)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error { return cocktails.Load(ctx) })
	g.Go(func() error { return ingredients.Load(ctx) })
	if loggedIn {
		g.Go(func() error { return recs.Load(ctx) })
	}
	if err := g.Wait(); err != nil {
		return err
	}

	bar := export.Bar{
		Cocktails:   cocktailRowsFor(cocktails),
		Ingredients: ingredients.All(),
	}
	if loggedIn {
		for _, p := range recs.Ingredients() {
			row := export.ShoppingRow{Ingredient: p.Name}
			for _, c := range p.Unlocks {
				row.Unlocks = append(row.Unlocks, c.Name)
			}
			bar.Shopping = append(bar.Shopping, row)
		}
	}

	if exportXLSX == "-" {
		if isTerminal(cmd.OutOrStdout()) {
			return errors.New("refusing to write a workbook to a terminal")
		}
		return export.Write(cmd.OutOrStdout(), bar)
	}
	if err := export.SaveAs(exportXLSX, bar); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s with %s.\n", exportXLSX, plural(len(bar.Cocktails), "cocktail", "cocktails"))
	return nil
}

func cocktailRowsFor(list *screen.Cocktails) []export.CocktailRow {
	all := list.All()
	rows := make([]export.CocktailRow, 0, len(all))
	for _, c := range all {
		rows = append(rows, export.CocktailRow{
			Name:        c.Name,
			Subtitle:    subtitle(c),
			Glass:       list.GlassName(c.Glass),
			Ingredients: recipeLines(list, c),
			Directions:  c.Directions,
			Garnish:     c.Garnish,
			Favorite:    list.IsFavorite(c.ID),
		})
	}
	return rows
}

func recipeLines(list *screen.Cocktails, c model.Cocktail) []string {
	lines := make([]string, 0, len(c.Ingredients))
	for _, item := range c.Ingredients {
		lines = append(lines, screen.RecipeLine{
			IngredientID: item.IngredientID,
			Name:         list.IngredientName(item.IngredientID),
			Quantity:     item.Quantity.String(),
			Unit:         item.Unit,
		}.String())
	}
	return lines
}
