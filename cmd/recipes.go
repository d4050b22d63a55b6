package cmd

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"
	"time"

	"recipe-blog-cms/filter"
	"recipe-blog-cms/models"

	"github.com/spf13/cobra"
)

var (
	searchState    filter.State
	browseWindow   time.Duration
	browseSiteBase string
)

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Browse published recipes",
}

var recipesSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "List recipes matching a query and facets",
	RunE: func(cmd *cobra.Command, args []string) error {
		if searchState.Difficulty != "" && !searchState.Difficulty.Valid() {
			return fmt.Errorf("difficulty must be one of Easy, Medium, Hard")
		}
		list, err := newClient().FetchRecipes(cmd.Context(), searchState)
		if err != nil {
			return err
		}
		printRecipes(cmd.OutOrStdout(), list.Recipes)
		return nil
	},
}

var recipesShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show one recipe with its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		recipe, err := c.FetchRecipe(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		comments, err := c.FetchComments(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n%s\n", recipe.Title, recipe.Difficulty, recipe.Description)
		fmt.Fprintf(out, "prep %dm, cook %dm (%dm total), serves %d\n", recipe.PrepTime, recipe.CookTime, recipe.TotalTime(), recipe.Servings)
		if recipe.ImageURL != "" {
			fmt.Fprintln(out, recipe.ImageURL)
		}
		for _, cm := range comments {
			author := "anonymous"
			if cm.Author != nil {
				author = cm.Author.DisplayName
			}
			fmt.Fprintf(out, "  [%d] %s: %s\n", cm.ID, author, cm.Content)
		}
		return nil
	},
}

var recipesBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactive search: each input line is typed into the search box",
	Long: `Loads the collection once and filters it locally as you type.
Lines are debounced like keystrokes. Facet commands apply at once:

	:category <slug>   :difficulty <Easy|Medium|Hard>   :tag <name>   :clear
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := url.Parse(browseSiteBase)
		if err != nil {
			return fmt.Errorf("invalid --url: %w", err)
		}
		list, err := newClient().FetchRecipes(cmd.Context(), filter.Clear())
		if err != nil {
			return err
		}
		return browse(cmd.InOrStdin(), cmd.OutOrStdout(), list.Recipes, *base, browseWindow)
	},
}

// browse drives a filter.Search from line input and prints every result
// with its shareable URL.
func browse(in io.Reader, out io.Writer, recipes []models.RecipeView, base url.URL, window time.Duration) error {
	search := filter.NewSearch(recipes, base, window)
	defer search.Close()

	show := func(r filter.Result) {
		fmt.Fprintf(out, "%d recipes  %s\n", len(r.Recipes), r.URL.String())
		printRecipes(out, r.Recipes)
	}
	show(search.Result())
	done := search.Subscribe(show)
	defer done()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		cmd, arg, isCommand := parseFacet(line)
		if !isCommand {
			search.Type(line)
			continue
		}
		switch cmd {
		case "category":
			search.SetCategory(arg)
		case "difficulty":
			search.SetDifficulty(models.Difficulty(arg))
		case "tag":
			search.SetTag(arg)
		case "clear":
			search.Clear()
		default:
			fmt.Fprintf(out, "unknown command :%s\n", cmd)
		}
	}
	// typing still inside the quiet window applies before exit
	search.Flush()
	return scanner.Err()
}

func parseFacet(line string) (cmd, arg string, ok bool) {
	if !strings.HasPrefix(line, ":") {
		return "", "", false
	}
	cmd, arg, _ = strings.Cut(strings.TrimPrefix(line, ":"), " ")
	return strings.ToLower(cmd), strings.TrimSpace(arg), true
}

func printRecipes(out io.Writer, recipes []models.RecipeView) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tTITLE\tDIFFICULTY\tCATEGORIES\tTAGS")
	for _, r := range recipes {
		categories := make([]string, 0, len(r.Categories))
		for _, c := range r.Categories {
			categories = append(categories, c.Slug)
		}
		tags := make([]string, 0, len(r.Tags))
		for _, t := range r.Tags {
			tags = append(tags, t.Name)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Slug, r.Title, r.Difficulty,
			strings.Join(categories, ","), strings.Join(tags, ","))
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(recipesCmd)
	recipesCmd.AddCommand(recipesSearchCmd, recipesShowCmd, recipesBrowseCmd)

	f := recipesSearchCmd.Flags()
	f.StringVarP(&searchState.Query, "q", "q", "", "free-text query over title, description and excerpt")
	f.StringVar(&searchState.Category, "category", "", "category slug")
	f.StringVar((*string)(&searchState.Difficulty), "difficulty", "", "Easy, Medium or Hard")
	f.StringVar(&searchState.Tag, "tag", "", "tag name")

	recipesBrowseCmd.Flags().DurationVar(&browseWindow, "debounce", 500*time.Millisecond, "quiet period before a typed query applies")
	recipesBrowseCmd.Flags().StringVar(&browseSiteBase, "url", "http://localhost:3000/recipes", "page URL the shareable link is built on")
}
