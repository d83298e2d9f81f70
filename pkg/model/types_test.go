package model

import (
	"encoding/json"
	"testing"
)

func TestQuantityUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Quantity
	}{
		{"integer", `{"ingredient":"a","quantity":2,"unit":"oz"}`, "2"},
		{"float", `{"ingredient":"a","quantity":1.5,"unit":"oz"}`, "1.5"},
		{"fraction string", `{"ingredient":"a","quantity":"1/2","unit":"oz"}`, "1/2"},
		{"null", `{"ingredient":"a","quantity":null,"unit":""}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var item RecipeItem
			if err := json.Unmarshal([]byte(tt.raw), &item); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if item.Quantity != tt.want {
				t.Errorf("Quantity = %q, want %q", item.Quantity, tt.want)
			}
		})
	}
}

func TestCocktailDecodeBackendShape(t *testing.T) {
	raw := `{"_id":"c1","name":"Gimlet","subtitle":null,"directions":"shake","garnish":"lime",
		"glass":"g1","img":"","ingredients":[{"ingredient":"i1","quantity":2,"unit":"oz"}]}`

	var c Cocktail
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.ID != "c1" || c.Glass != "g1" {
		t.Errorf("unexpected cocktail: %+v", c)
	}
	if c.HasSubtitle() {
		t.Error("null subtitle should not count as a subtitle")
	}
	if len(c.Ingredients) != 1 || c.Ingredients[0].IngredientID != "i1" {
		t.Errorf("unexpected recipe: %+v", c.Ingredients)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestCocktailCloneIsDeep(t *testing.T) {
	sub := "classic"
	c := Cocktail{ID: "c1", Name: "Gimlet", Subtitle: &sub, Ingredients: []RecipeItem{{IngredientID: "i1"}}}
	clone := c.Clone()
	*clone.Subtitle = "changed"
	clone.Ingredients[0].IngredientID = "i2"

	if *c.Subtitle != "classic" {
		t.Errorf("subtitle leaked through clone: %q", *c.Subtitle)
	}
	if c.Ingredients[0].IngredientID != "i1" {
		t.Errorf("recipe leaked through clone: %q", c.Ingredients[0].IngredientID)
	}
}

func TestLikeStatusToggle(t *testing.T) {
	tests := []struct {
		current, pressed, want LikeStatus
	}{
		{LikeNone, LikeLiked, LikeLiked},
		{LikeLiked, LikeLiked, LikeNone},
		{LikeLiked, LikeDisliked, LikeDisliked},
		{LikeDisliked, LikeDisliked, LikeNone},
	}
	for _, tt := range tests {
		if got := tt.current.Toggle(tt.pressed); got != tt.want {
			t.Errorf("%s.Toggle(%s) = %s, want %s", tt.current, tt.pressed, got, tt.want)
		}
	}
}

func TestCategorizedIngredientsJSON(t *testing.T) {
	raw := `{
		"Mixers": {"Soda": [{"id":"3","name":"Tonic"}]},
		"Spirits": {"Whiskey": [{"id":"2","name":"Bourbon"}], "Gin": [{"id":"1","name":"Gin"}]},
		"Garnish": {"Fruit": [{"id":"4","name":"Lime"}]}
	}`

	var tree CategorizedIngredients
	if err := json.Unmarshal([]byte(raw), &tree); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	var names []string
	for _, c := range tree.Categories {
		names = append(names, c.Name)
	}
	want := []string{"Spirits", "Mixers", "Garnish"}
	if len(names) != len(want) {
		t.Fatalf("categories = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("category %d = %s, want %s", i, names[i], want[i])
		}
	}

	spirits, _ := tree.Category("Spirits")
	if spirits.Subcategories[0].Name != "Gin" || spirits.Subcategories[1].Name != "Whiskey" {
		t.Errorf("subcategories not alphabetical: %+v", spirits.Subcategories)
	}
	if tree.Len() != 4 {
		t.Errorf("Len() = %d, want 4", tree.Len())
	}

	out, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again CategorizedIngredients
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if again.Len() != 4 || again.Categories[0].Name != "Spirits" {
		t.Errorf("round trip lost data: %s", out)
	}
}

func TestCategorize(t *testing.T) {
	tree := Categorize([]Ingredient{
		{ID: "2", Name: "Tonic", Category: "Mixers", Subcategory: "Soda"},
		{ID: "1", Name: "Gin", Category: "Spirits", Subcategory: "Gin"},
		{ID: "3", Name: "Club Soda", Category: "Mixers", Subcategory: "Soda"},
	})

	if len(tree.Categories) != 2 || tree.Categories[0].Name != "Spirits" {
		t.Fatalf("unexpected categories: %+v", tree.Categories)
	}
	soda := tree.Categories[1].Subcategories[0].Ingredients
	if soda[0].Name != "Club Soda" || soda[1].Name != "Tonic" {
		t.Errorf("ingredients not alphabetical: %+v", soda)
	}
}

func TestFavoriteSetCopies(t *testing.T) {
	base := NewFavoriteSet([]string{"a"})
	added := base.With("b")
	removed := added.Without("a")

	if base.Has("b") {
		t.Error("With mutated the receiver")
	}
	if !added.Has("a") || !added.Has("b") {
		t.Errorf("With() = %v", added.IDs())
	}
	if removed.Has("a") || !removed.Has("b") {
		t.Errorf("Without() = %v", removed.IDs())
	}
}
