package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"recipe-blog-cms/authstate"
	"recipe-blog-cms/client"
	"recipe-blog-cms/guard"
	"recipe-blog-cms/models"

	"github.com/spf13/cobra"
)

var (
	adminEmail    string
	adminPassword string
	newUser       models.CreateUserRequest
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin dashboard operations (requires an admin account)",
}

var adminStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show site counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := adminClient(cmd.Context(), "/admin")
		if err != nil {
			return err
		}
		stats, err := c.AdminStats(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "users:             %d\n", stats.Users)
		fmt.Fprintf(out, "recipes:           %d (%d published)\n", stats.Recipes, stats.PublishedRecipes)
		fmt.Fprintf(out, "categories:        %d\n", stats.Categories)
		fmt.Fprintf(out, "comments:          %d\n", stats.Comments)
		fmt.Fprintf(out, "newsletter:        %d active, %d unsubscribed, %d in the last 30 days\n",
			stats.Newsletter.Active, stats.Newsletter.Unsubscribed, stats.Newsletter.RecentCount)
		return nil
	},
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := adminClient(cmd.Context(), "/admin/users")
		if err != nil {
			return err
		}
		users, err := c.ListUsers(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tSETUP")
		for _, u := range users {
			setup := "done"
			if u.NeedsSetup {
				setup = "pending"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.DisplayName, u.Role, setup)
		}
		return w.Flush()
	},
}

var adminCreateUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an account with a profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := adminClient(cmd.Context(), "/admin/users")
		if err != nil {
			return err
		}
		user, err := c.CreateUser(cmd.Context(), newUser)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s, %s)\n", user.ID, user.Email, user.Role)
		return nil
	},
}

var adminDeleteUserCmd = &cobra.Command{
	Use:   "delete-user <id>",
	Short: "Delete an account with its profile and comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}
		c, err := adminClient(cmd.Context(), "/admin/users")
		if err != nil {
			return err
		}
		if err := c.DeleteUser(cmd.Context(), uint(id)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted user %d\n", id)
		return nil
	},
}

func adminClient(ctx context.Context, location string) (*client.Client, error) {
	c := newClient()
	if err := authorizeAdmin(ctx, c, adminEmail, adminPassword, location); err != nil {
		return nil, err
	}
	return c, nil
}

// authorizeAdmin signs in when credentials are given, then runs the admin
// route guard over the resolved auth state.
func authorizeAdmin(ctx context.Context, c *client.Client, email, password, location string) error {
	if email != "" {
		if _, err := c.SignIn(ctx, email, password); err != nil {
			return err
		}
	}

	m := authstate.New(c, c, logger)
	m.Start(ctx)
	defer m.Close()

	select {
	case <-m.Ready():
	case <-ctx.Done():
		return ctx.Err()
	}
	state := m.State()
	if state.Err != nil {
		return state.Err
	}

	d := guard.Decide(state, guard.Requirements{RequireAuth: true, RequireAdmin: true}, location)
	switch d.Kind {
	case guard.Authorized:
		return nil
	case guard.RedirectSignIn:
		return fmt.Errorf("sign in required (%s): pass --email and --password", d.SignInURL())
	case guard.AccessDenied:
		role := string(d.Role)
		if role == "" {
			role = "no profile"
		}
		return fmt.Errorf("access denied: %s is signed in as %s", d.Email, role)
	default:
		return errors.New("auth state still loading")
	}
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminStatsCmd, adminUsersCmd, adminCreateUserCmd, adminDeleteUserCmd)

	adminCmd.PersistentFlags().StringVar(&adminEmail, "email", "", "admin account email")
	adminCmd.PersistentFlags().StringVar(&adminPassword, "password", "", "admin account password")

	f := adminCreateUserCmd.Flags()
	f.StringVar(&newUser.Email, "user-email", "", "email of the new account")
	f.StringVar(&newUser.Password, "user-password", "", "password of the new account")
	f.StringVar(&newUser.DisplayName, "name", "", "display name")
	f.StringVar((*string)(&newUser.Role), "role", string(models.RoleUser), "admin, user or editor")
}
