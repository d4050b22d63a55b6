package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var newsletterSource string

var newsletterCmd = &cobra.Command{
	Use:   "newsletter",
	Short: "Manage newsletter subscriptions",
}

var newsletterSubscribeCmd = &cobra.Command{
	Use:   "subscribe <email>",
	Short: "Subscribe an email address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := newClient().Subscribe(cmd.Context(), args[0], newsletterSource)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Subscriber.Email, res.Outcome)
		return nil
	},
}

var newsletterUnsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe <email>",
	Short: "Unsubscribe an email address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sub, err := newClient().Unsubscribe(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", sub.Email, sub.SubscriptionStatus)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newsletterCmd)
	newsletterCmd.AddCommand(newsletterSubscribeCmd, newsletterUnsubscribeCmd)
	newsletterSubscribeCmd.Flags().StringVar(&newsletterSource, "source", "cli", "where the signup came from")
}
