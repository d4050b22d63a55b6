package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories [slug]",
	Short: "List categories, or show one with its recipes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			detail, err := c.FetchCategory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %s\n", detail.Name, detail.Description)
			printRecipes(out, detail.Recipes)
			return nil
		}

		categories, err := c.FetchCategories(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tNAME")
		for _, cat := range categories {
			fmt.Fprintf(w, "%s\t%s\n", cat.Slug, cat.Name)
		}
		return w.Flush()
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags [name]",
	Short: "List tags by usage, or show one with its recipes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			detail, err := c.FetchTag(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s (%d recipes)\n", detail.Name, detail.UsageCount)
			printRecipes(out, detail.Recipes)
			return nil
		}

		tags, err := c.FetchTags(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tRECIPES")
		for _, t := range tags {
			fmt.Fprintf(w, "%s\t%d\n", t.Name, t.UsageCount)
		}
		return w.Flush()
	},
}

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List published blog posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		posts, err := newClient().FetchPosts(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tTITLE\tEXCERPT")
		for _, p := range posts {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.Slug, p.Title, p.Excerpt)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd, tagsCmd, postsCmd)
}
