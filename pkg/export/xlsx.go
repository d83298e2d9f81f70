// Package export writes the user's bar to an Excel workbook.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mixxbar/mixx/pkg/model"
)

// Sheet names, in workbook order.
const (
	SheetCocktails   = "Cocktails"
	SheetIngredients = "Ingredients"
	SheetShopping    = "Shopping List"
)

// CocktailRow is one cocktail with its references already resolved to names.
type CocktailRow struct {
	Name        string
	Subtitle    string
	Glass       string
	Ingredients []string
	Directions  string
	Garnish     string
	Favorite    bool
}

// ShoppingRow is a recommended ingredient and what it unlocks.
type ShoppingRow struct {
	Ingredient string
	Unlocks    []string
}

// Bar is everything the workbook contains.
type Bar struct {
	Cocktails   []CocktailRow
	Ingredients *model.CategorizedIngredients
	Shopping    []ShoppingRow
}

// Build renders bar into a new workbook. The caller must Close it.
func Build(bar Bar) (*excelize.File, error) {
	f := excelize.NewFile()
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetCocktails); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetIngredients); err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetShopping); err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	steps := []struct {
		sheet string
		cols  []string
		rows  [][]any
	}{
		{SheetCocktails, []string{"Name", "Subtitle", "Glass", "Ingredients", "Directions", "Garnish", "Favorite"}, cocktailRows(bar.Cocktails)},
		{SheetIngredients, []string{"Category", "Subcategory", "Ingredient", "Owned"}, ingredientRows(bar.Ingredients)},
		{SheetShopping, []string{"Ingredient", "Unlocks", "Cocktails"}, shoppingRows(bar.Shopping)},
	}
	for _, step := range steps {
		if err := writeSheet(f, step.sheet, header, step.cols, step.rows); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, cols []string, rows [][]any) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("open %s sheet: %w", sheet, err)
	}
	head := make([]any, len(cols))
	for i, c := range cols {
		head[i] = excelize.Cell{StyleID: headerStyle, Value: c}
	}
	if err := sw.SetRow("A1", head); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush %s sheet: %w", sheet, err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func cocktailRows(cocktails []CocktailRow) [][]any {
	rows := make([][]any, 0, len(cocktails))
	for _, c := range cocktails {
		rows = append(rows, []any{
			c.Name, c.Subtitle, c.Glass, strings.Join(c.Ingredients, "\n"), c.Directions, c.Garnish, yesNo(c.Favorite),
		})
	}
	return rows
}

func ingredientRows(tree *model.CategorizedIngredients) [][]any {
	var rows [][]any
	tree.Walk(func(category, subcategory string, ref model.IngredientRef) {
		rows = append(rows, []any{category, subcategory, ref.Name, yesNo(ref.Owned)})
	})
	return rows
}

func shoppingRows(picks []ShoppingRow) [][]any {
	rows := make([][]any, 0, len(picks))
	for _, p := range picks {
		rows = append(rows, []any{p.Ingredient, len(p.Unlocks), strings.Join(p.Unlocks, ", ")})
	}
	return rows
}

// Write renders bar and writes the workbook to w.
func Write(w io.Writer, bar Bar) error {
	f, err := Build(bar)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveAs renders bar and saves it to path.
func SaveAs(path string, bar Bar) error {
	f, err := Build(bar)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}
