package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newBillingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Billing helpers",
	}
	cmd.AddCommand(billingSessionCmd())
	return cmd
}

func billingSessionCmd() *cobra.Command {
	var customerID string
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Create a pricing-table session",
		Run: func(cmd *cobra.Command, args []string) {
			session, err := apiClient.Billing.PricingTableSession(context.Background(), customerID)
			if err != nil {
				fatal("create pricing table session", err)
			}
			output(session, session.ClientSecret)
		},
	}
	cmd.Flags().StringVar(&customerID, "customer", "", "Billing-provider customer id (empty for an unscoped table)")
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server health and runtime config",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			health, err := apiClient.Health(ctx)
			if err != nil {
				fatal("health check", err)
			}
			cfg, err := apiClient.Config(ctx)
			if err != nil {
				fatal("fetch config", err)
			}
			if flagFmt == "quiet" {
				fmt.Println(health.Status)
				return
			}
			output(map[string]any{"health": health, "config": cfg}, health.Status)
		},
	}
}
