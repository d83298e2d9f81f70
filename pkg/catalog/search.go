package catalog

import (
	"fmt"
	"strings"

	"github.com/mixxbar/mixx/pkg/model"
)

// Facet is one dimension a cocktail search can match on.
type Facet uint8

const (
	FacetName Facet = 1 << iota
	FacetIngredient
	FacetGlassware
)

// allFacets is every facet enabled.
const allFacets = FacetName | FacetIngredient | FacetGlassware

// Facets lists the facets in display order.
var Facets = []Facet{FacetName, FacetIngredient, FacetGlassware}

// String returns the facet's config/flag name.
func (f Facet) String() string {
	switch f {
	case FacetName:
		return "name"
	case FacetIngredient:
		return "ingredient"
	case FacetGlassware:
		return "glassware"
	default:
		return "unknown"
	}
}

// Label returns the facet's display label.
func (f Facet) Label() string {
	switch f {
	case FacetName:
		return "Cocktail Name"
	case FacetIngredient:
		return "Ingredient"
	case FacetGlassware:
		return "Glassware"
	default:
		return "?"
	}
}

// ParseFacet parses a facet name as written in config files and flags.
func ParseFacet(s string) (Facet, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "cocktail", "cocktailname":
		return FacetName, nil
	case "ingredient", "ingredients":
		return FacetIngredient, nil
	case "glassware", "glass":
		return FacetGlassware, nil
	}
	return 0, fmt.Errorf("unknown search facet %q (want name, ingredient or glassware)", s)
}

// FacetSet is the set of enabled search facets. It can never be empty: the
// zero value means all facets are enabled.
type FacetSet struct {
	bits Facet
}

// AllFacets returns the default set with every facet enabled.
func AllFacets() FacetSet {
	return FacetSet{bits: allFacets}
}

// NewFacetSet enables exactly the given facets, or all of them if none given.
func NewFacetSet(facets ...Facet) FacetSet {
	var s FacetSet
	for _, f := range facets {
		s.bits |= f & allFacets
	}
	return s.normalized()
}

// ParseFacetSet parses a list of facet names. An empty list enables all.
func ParseFacetSet(names []string) (FacetSet, error) {
	facets := make([]Facet, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		f, err := ParseFacet(n)
		if err != nil {
			return FacetSet{}, err
		}
		facets = append(facets, f)
	}
	return NewFacetSet(facets...), nil
}

func (s FacetSet) normalized() FacetSet {
	if s.bits&allFacets == 0 {
		return AllFacets()
	}
	return s
}

// Has reports whether f is enabled.
func (s FacetSet) Has(f Facet) bool {
	return s.normalized().bits&f != 0
}

// Toggle flips f. Turning off the only enabled facet re-enables all of them.
func (s FacetSet) Toggle(f Facet) FacetSet {
	s = s.normalized()
	if s.bits&f == 0 {
		s.bits |= f & allFacets
		return s
	}
	if s.bits == f {
		return AllFacets()
	}
	s.bits &^= f
	return s
}

// Enabled lists the enabled facets in display order.
func (s FacetSet) Enabled() []Facet {
	var out []Facet
	for _, f := range Facets {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Names returns the enabled facet names, e.g. for writing back to config.
func (s FacetSet) Names() []string {
	enabled := s.Enabled()
	names := make([]string, len(enabled))
	for i, f := range enabled {
		names[i] = f.String()
	}
	return names
}

func (s FacetSet) String() string {
	return strings.Join(s.Names(), ",")
}

// normalizeQuery trims and lowercases a search string.
func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func containsFold(s, term string) bool {
	return strings.Contains(strings.ToLower(s), term)
}

// MatchCocktail returns the first enabled facet on which c matches term, or 0.
// Facets are an independent OR: the order only decides which facet is reported.
// Within the ingredient facet the first matching recipe line ends the scan.
// term must already be normalized; unknown ingredient or glass IDs never match.
func MatchCocktail(
	c model.Cocktail,
	ingredients map[string]*model.Ingredient,
	glassware map[string]*model.Glassware,
	term string,
	facets FacetSet,
) Facet {
	if facets.Has(FacetName) && containsFold(c.Name, term) {
		return FacetName
	}
	if facets.Has(FacetIngredient) {
		for _, item := range c.Ingredients {
			ing, ok := ingredients[item.IngredientID]
			if ok && ing != nil && containsFold(ing.Name, term) {
				return FacetIngredient
			}
		}
	}
	if facets.Has(FacetGlassware) {
		if g, ok := glassware[c.Glass]; ok && g != nil && containsFold(g.Name, term) {
			return FacetGlassware
		}
	}
	return 0
}

// SearchCocktails filters cocktails by query across the enabled facets and
// orders the result with SortByFavorites. A nil favorites is treated as no
// favorites.
//
// If cocktails or either dictionary is nil the screen is not ready and the
// result is nil. A blank query returns every cocktail.
func SearchCocktails(
	cocktails []model.Cocktail,
	ingredients map[string]*model.Ingredient,
	glassware map[string]*model.Glassware,
	favorites model.FavoriteSet,
	query string,
	facets FacetSet,
) []model.Cocktail {
	if cocktails == nil || ingredients == nil || glassware == nil {
		return nil
	}
	if favorites == nil {
		favorites = model.FavoriteSet{}
	}

	term := normalizeQuery(query)
	if term == "" {
		return SortByFavorites(cocktails, favorites)
	}

	results := make([]model.Cocktail, 0, len(cocktails))
	for _, c := range cocktails {
		if MatchCocktail(c, ingredients, glassware, term, facets) != 0 {
			results = append(results, c)
		}
	}
	return SortByFavorites(results, favorites)
}

// SearchIngredients filters a categorized tree by ingredient name and prunes
// the groups left empty. The input is never modified; a blank query returns a
// copy of it. A nil tree yields nil.
func SearchIngredients(tree *model.CategorizedIngredients, query string) *model.CategorizedIngredients {
	if tree == nil {
		return nil
	}
	results := tree.Clone()
	term := normalizeQuery(query)
	if term == "" {
		return results
	}

	for ci := range results.Categories {
		cat := &results.Categories[ci]
		for si := range cat.Subcategories {
			sub := &cat.Subcategories[si]
			passing := sub.Ingredients[:0]
			for _, ref := range sub.Ingredients {
				if containsFold(ref.Name, term) {
					passing = append(passing, ref)
				}
			}
			sub.Ingredients = passing
		}
	}
	Prune(results)
	return results
}
