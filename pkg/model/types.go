package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Ingredient is a catalog ingredient as returned by the backend.
type Ingredient struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// Validate checks if the ingredient data is usable by the client
func (i *Ingredient) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("ingredient ID cannot be empty")
	}
	if i.Name == "" {
		return fmt.Errorf("ingredient %s name cannot be empty", i.ID)
	}
	return nil
}

// Glassware is a serving glass referenced by cocktails.
type Glassware struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// RecipeItem is one line of a cocktail recipe.
type RecipeItem struct {
	IngredientID string   `json:"ingredient"`
	Quantity     Quantity `json:"quantity"`
	Unit         string   `json:"unit"`
}

// Cocktail represents a full cocktail record
type Cocktail struct {
	ID          string       `json:"_id"`
	Name        string       `json:"name"`
	Subtitle    *string      `json:"subtitle"`
	Directions  string       `json:"directions"`
	Garnish     string       `json:"garnish"`
	Glass       string       `json:"glass"`
	Image       string       `json:"img"`
	Ingredients []RecipeItem `json:"ingredients"`
}

// HasSubtitle reports whether the cocktail carries a non-empty subtitle.
func (c Cocktail) HasSubtitle() bool {
	return c.Subtitle != nil && *c.Subtitle != ""
}

// Clone creates a deep copy of the cocktail
func (c Cocktail) Clone() Cocktail {
	clone := c
	if c.Subtitle != nil {
		v := *c.Subtitle
		clone.Subtitle = &v
	}
	if c.Ingredients != nil {
		clone.Ingredients = make([]RecipeItem, len(c.Ingredients))
		copy(clone.Ingredients, c.Ingredients)
	}
	return clone
}

// Validate checks if the cocktail data is logically valid
func (c *Cocktail) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("cocktail ID cannot be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("cocktail %s name cannot be empty", c.ID)
	}
	for idx, item := range c.Ingredients {
		if item.IngredientID == "" {
			return fmt.Errorf("cocktail %s recipe line %d has no ingredient", c.ID, idx+1)
		}
	}
	return nil
}

// CocktailSummary is the display subset used by recommendation payloads.
type CocktailSummary struct {
	ID       string  `json:"_id"`
	Name     string  `json:"name"`
	Subtitle *string `json:"subtitle,omitempty"`
	Image    string  `json:"img,omitempty"`
}

// IngredientRecommendations maps an ingredient the user does not own to the
// cocktails that buying it would unlock.
type IngredientRecommendations map[string][]CocktailSummary

// User is the identity returned by login and signup.
type User struct {
	ID        string `json:"userID"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// FullName joins first and last name, skipping blanks.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// LikeStatus is the user's rating of a cocktail
type LikeStatus string

const (
	LikeNone     LikeStatus = "None"
	LikeLiked    LikeStatus = "Liked"
	LikeDisliked LikeStatus = "Disliked"
)

// IsValid returns true if the like status is a recognized value
func (s LikeStatus) IsValid() bool {
	switch s {
	case LikeNone, LikeLiked, LikeDisliked:
		return true
	}
	return false
}

// Toggle returns the status that results from pressing the button for want
// while s is current: pressing the active button clears it.
func (s LikeStatus) Toggle(want LikeStatus) LikeStatus {
	if s == want {
		return LikeNone
	}
	return want
}

// Quantity is a recipe amount. The backend sends either a number or a string
// such as "1/2" or "top up", so the raw text is kept.
type Quantity string

// UnmarshalJSON accepts JSON strings, numbers and null.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		*q = ""
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*q = Quantity(str)
	default:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid quantity %s: %w", s, err)
		}
		*q = Quantity(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return nil
}

// String returns the display form of the quantity.
func (q Quantity) String() string {
	return string(q)
}

// EntityID implements catalog.Entity.
func (i Ingredient) EntityID() string { return i.ID }

// DisplayName implements catalog.Entity.
func (i Ingredient) DisplayName() string { return i.Name }

// EntityID implements catalog.Entity.
func (g Glassware) EntityID() string { return g.ID }

// DisplayName implements catalog.Entity.
func (g Glassware) DisplayName() string { return g.Name }

// EntityID implements catalog.Entity.
func (c Cocktail) EntityID() string { return c.ID }

// DisplayName implements catalog.Entity.
func (c Cocktail) DisplayName() string { return c.Name }

// EntityID implements catalog.Entity.
func (c CocktailSummary) EntityID() string { return c.ID }

// DisplayName implements catalog.Entity.
func (c CocktailSummary) DisplayName() string { return c.Name }

// EntityID implements catalog.Entity.
func (r IngredientRef) EntityID() string { return r.ID }

// DisplayName implements catalog.Entity.
func (r IngredientRef) DisplayName() string { return r.Name }
