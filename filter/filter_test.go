package filter

import (
	"net/url"
	"strings"
	"testing"

	"recipe-blog-cms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func category(slug string) models.Category {
	return models.Category{Slug: slug, Name: slug}
}

func tag(name string) models.Tag {
	return models.Tag{Name: name}
}

// seededRecipes mirrors the reference data set: three Easy, two Medium and
// one recipe with no stored difficulty (shown as Medium).
func seededRecipes() []models.RecipeView {
	return []models.RecipeView{
		{ID: 1, Slug: "lemon-chicken", Title: "Lemon Chicken", Description: "Bright weeknight dinner", Difficulty: models.DifficultyEasy,
			Categories: []models.Category{category("dinner")}, Tags: []models.Tag{tag("Quick"), tag("Poultry")}},
		{ID: 2, Slug: "chicken-noodle-soup", Title: "Noodle Soup", Description: "Classic chicken soup", Difficulty: models.DifficultyMedium,
			Categories: []models.Category{category("soups")}, Tags: []models.Tag{tag("Comfort")}},
		{ID: 3, Slug: "pancakes", Title: "Fluffy Pancakes", Description: "Weekend breakfast", Excerpt: "Better than the diner", Difficulty: models.DifficultyEasy,
			Categories: []models.Category{category("breakfast")}, Tags: []models.Tag{tag("Quick"), tag("Sweet")}},
		{ID: 4, Slug: "chicken-salad", Title: "Summer Salad", Description: "Greens and herbs", Excerpt: "Leftover chicken, sorted", Difficulty: models.DifficultyEasy,
			Categories: []models.Category{category("lunch"), category("dinner")}, Tags: []models.Tag{tag("quick")}},
		{ID: 5, Slug: "beef-stew", Title: "Beef Stew", Description: "Slow cooked", Difficulty: models.DifficultyMedium,
			Categories: []models.Category{category("dinner")}, Tags: []models.Tag{tag("Comfort")}},
		{ID: 6, Slug: "tomato-toast", Title: "Tomato Toast", Description: "Simple snack", Difficulty: models.DifficultyMedium,
			Categories: []models.Category{}, Tags: []models.Tag{}},
	}
}

func ids(recipes []models.RecipeView) []uint {
	out := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.ID)
	}
	return out
}

func TestApplyChickenEasy(t *testing.T) {
	got := Apply(seededRecipes(), State{Query: "chicken", Difficulty: models.DifficultyEasy})
	assert.Equal(t, []uint{1, 4}, ids(got))
}

func TestApplyEmptyStateReturnsEverything(t *testing.T) {
	all := seededRecipes()
	assert.Equal(t, ids(all), ids(Apply(all, State{})))
	assert.Equal(t, ids(all), ids(Apply(all, State{Query: "   "})))
}

func TestApplyQueryIsCaseInsensitiveAcrossFields(t *testing.T) {
	all := seededRecipes()
	assert.Equal(t, []uint{1, 2, 4}, ids(Apply(all, State{Query: "CHICKEN"})))
	assert.Equal(t, []uint{3}, ids(Apply(all, State{Query: "diner"})), "excerpt is searched")
	assert.Equal(t, []uint{5}, ids(Apply(all, State{Query: "slow"})), "description is searched")
}

func TestApplyCategoryAndTag(t *testing.T) {
	all := seededRecipes()
	assert.Equal(t, []uint{1, 4, 5}, ids(Apply(all, State{Category: "dinner"})))
	assert.Equal(t, []uint{1, 4, 5}, ids(Apply(all, State{Category: "Dinner"})))
	assert.Equal(t, []uint{1, 3, 4}, ids(Apply(all, State{Tag: "quick"})), "tag names match without regard to case")
	assert.Equal(t, []uint{1, 4}, ids(Apply(all, State{Tag: "QUICK", Category: "dinner"})))
	assert.Empty(t, Apply(all, State{Category: "dessert"}))
}

func TestApplyDifficultyIsExact(t *testing.T) {
	all := seededRecipes()
	assert.Equal(t, []uint{2, 5, 6}, ids(Apply(all, State{Difficulty: models.DifficultyMedium})))
	assert.Empty(t, Apply(all, State{Difficulty: "medium"}))
	assert.Empty(t, Apply(all, State{Difficulty: models.DifficultyHard}))
}

func TestApplyIsIdempotentAndDoesNotMutate(t *testing.T) {
	all := seededRecipes()
	before := ids(all)
	s := State{Query: "o", Category: "dinner"}

	first := Apply(all, s)
	second := Apply(all, s)
	assert.Equal(t, first, second)
	assert.Equal(t, ids(first), ids(Apply(first, s)))
	assert.Equal(t, before, ids(all))
}

// Every combination of dimensions must agree with the predicate written out
// by hand.
func TestApplyMatchesAndOrSemantics(t *testing.T) {
	all := seededRecipes()
	queries := []string{"", "chicken", "soup", "zzz"}
	categories := []string{"", "dinner", "soups", "breakfast"}
	difficulties := []models.Difficulty{"", models.DifficultyEasy, models.DifficultyMedium}
	tags := []string{"", "quick", "Comfort"}

	for _, q := range queries {
		for _, c := range categories {
			for _, d := range difficulties {
				for _, tg := range tags {
					s := State{Query: q, Category: c, Difficulty: d, Tag: tg}
					var want []uint
					for _, r := range all {
						if expected(r, s) {
							want = append(want, r.ID)
						}
					}
					got := ids(Apply(all, s))
					if want == nil {
						want = []uint{}
					}
					require.Equal(t, want, got, "state %+v", s)
				}
			}
		}
	}
}

func expected(r models.RecipeView, s State) bool {
	q := strings.ToLower(s.Query)
	queryOK := q == "" ||
		strings.Contains(strings.ToLower(r.Title), q) ||
		strings.Contains(strings.ToLower(r.Description), q) ||
		strings.Contains(strings.ToLower(r.Excerpt), q)

	categoryOK := s.Category == ""
	for _, c := range r.Categories {
		if strings.EqualFold(c.Slug, s.Category) {
			categoryOK = true
		}
	}
	tagOK := s.Tag == ""
	for _, t := range r.Tags {
		if strings.EqualFold(t.Name, s.Tag) {
			tagOK = true
		}
	}
	difficultyOK := s.Difficulty == "" || r.Difficulty == s.Difficulty
	return queryOK && categoryOK && tagOK && difficultyOK
}

func TestClearRestoresCollectionAndDropsQueryParam(t *testing.T) {
	all := seededRecipes()
	u, err := url.Parse("https://example.com/recipes?q=chicken&page=2")
	require.NoError(t, err)

	s := FromQuery(u.Query())
	assert.Equal(t, "chicken", s.Query)

	s = Clear()
	assert.True(t, s.IsEmpty())
	assert.Equal(t, ids(all), ids(Apply(all, s)))

	synced := SyncURL(*u, s)
	assert.False(t, synced.Query().Has(QueryParam))
	assert.Equal(t, "2", synced.Query().Get("page"))
}

func TestShareableQueryOnlyCarriesQ(t *testing.T) {
	s := State{Query: " soup ", Category: "soups", Difficulty: models.DifficultyEasy, Tag: "comfort"}
	assert.Equal(t, url.Values{"q": {"soup"}}, s.ShareableQuery())

	api := s.APIQuery()
	assert.Equal(t, "soups", api.Get("category"))
	assert.Equal(t, "Easy", api.Get("difficulty"))
	assert.Equal(t, "comfort", api.Get("tag"))
	assert.Equal(t, s.Category, FromQuery(api).Category)
}
