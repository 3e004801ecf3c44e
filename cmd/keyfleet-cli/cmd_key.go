package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keyfleet/keyfleet/client"
)

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage private AI keys",
	}
	cmd.AddCommand(keyListCmd())
	cmd.AddCommand(keyGetCmd())
	cmd.AddCommand(keyCreateCmd())
	cmd.AddCommand(keyUpdateCmd())
	cmd.AddCommand(keyDeleteCmd())
	cmd.AddCommand(keyTokenCmd())
	cmd.AddCommand(keySpendCmd())
	return cmd
}

func keyListCmd() *cobra.Command {
	var ownerID, teamID, regionID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List private AI keys",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.KeyListOptions{}
			if cmd.Flags().Changed("owner") {
				opts.OwnerID = &ownerID
			}
			if cmd.Flags().Changed("team") {
				opts.TeamID = &teamID
			}
			if cmd.Flags().Changed("region") {
				opts.RegionID = &regionID
			}
			keys, err := apiClient.Keys.List(context.Background(), opts)
			if err != nil {
				fatal("list keys", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "NAME", "OWNER", "TEAM", "REGION", "SPEND"}
				var rows [][]string
				for _, k := range keys {
					owner, team := "-", "-"
					if k.OwnerID != nil {
						owner = formatID(*k.OwnerID)
					}
					if k.TeamID != nil {
						team = formatID(*k.TeamID)
					}
					rows = append(rows, []string{
						formatID(k.ID), k.Name, owner, team, formatID(k.RegionID),
						fmt.Sprintf("%.2f", k.Spend),
					})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, k := range keys {
					fmt.Println(k.ID)
				}
				return
			}
			output(keys, "")
		},
	}
	cmd.Flags().Int64Var(&ownerID, "owner", 0, "Filter by owning user id")
	cmd.Flags().Int64Var(&teamID, "team", 0, "Filter by team id")
	cmd.Flags().Int64Var(&regionID, "region", 0, "Filter by region id")
	return cmd
}

func keyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a key (never includes the database password)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			key, err := apiClient.Keys.Get(context.Background(), parseID(args[0]))
			if err != nil {
				fatal("get key", err)
			}
			output(key, formatID(key.ID))
		},
	}
}

func keyCreateCmd() *cobra.Command {
	var ownerID, teamID, regionID int64
	var maxBudget float64
	var budgetDuration string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Provision a key; the response is the only time the password is shown",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateKeyRequest{
				Name:           args[0],
				RegionID:       regionID,
				BudgetDuration: budgetDuration,
			}
			if cmd.Flags().Changed("owner") {
				req.OwnerID = &ownerID
			}
			if cmd.Flags().Changed("team") {
				req.TeamID = &teamID
			}
			if cmd.Flags().Changed("max-budget") {
				req.MaxBudget = &maxBudget
			}
			key, err := apiClient.Keys.Create(context.Background(), req)
			if err != nil {
				fatal("create key", err)
			}
			output(key, formatID(key.ID))
		},
	}
	cmd.Flags().Int64Var(&ownerID, "owner", 0, "Owning user id (exclusive with --team)")
	cmd.Flags().Int64Var(&teamID, "team", 0, "Owning team id (exclusive with --owner)")
	cmd.Flags().Int64Var(&regionID, "region", 0, "Region id (required)")
	cmd.Flags().Float64Var(&maxBudget, "max-budget", 0, "Spend ceiling")
	cmd.Flags().StringVar(&budgetDuration, "budget-duration", "", "Reset period, e.g. 30d or 12h")
	cmd.MarkFlagRequired("region") //nolint:errcheck
	return cmd
}

func keyUpdateCmd() *cobra.Command {
	var name, budgetDuration string
	var maxBudget float64
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a key's name or budget settings",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateKeyRequest{}
			if name != "" {
				req.Name = &name
			}
			if cmd.Flags().Changed("max-budget") {
				req.MaxBudget = &maxBudget
			}
			if cmd.Flags().Changed("budget-duration") {
				req.BudgetDuration = &budgetDuration
			}
			key, err := apiClient.Keys.Update(context.Background(), parseID(args[0]), req)
			if err != nil {
				fatal("update key", err)
			}
			output(key, formatID(key.ID))
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().Float64Var(&maxBudget, "max-budget", 0, "New spend ceiling")
	cmd.Flags().StringVar(&budgetDuration, "budget-duration", "", "New reset period (restarts the window)")
	return cmd
}

func keyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Deprovision a key",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if !confirm(fmt.Sprintf("Deprovision key %s? Its credentials stop working immediately.", args[0])) {
				fmt.Println("aborted")
				return
			}
			if err := apiClient.Keys.Delete(context.Background(), parseID(args[0])); err != nil {
				fatal("delete key", err)
			}
			fmt.Println("deleted")
		},
	}
}

func keyTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <id>",
		Short: "Reveal the gateway token (admin only, audit-logged)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			token, err := apiClient.Keys.Token(context.Background(), parseID(args[0]))
			if err != nil {
				fatal("read token", err)
			}
			fmt.Println(token)
		},
	}
}

func keySpendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spend <id>",
		Short: "Show spend against the key's budget window",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			report, err := apiClient.Keys.Spend(context.Background(), parseID(args[0]))
			if err != nil {
				fatal("read spend", err)
			}
			output(report, fmt.Sprintf("%.2f", report.Spend))
		},
	}
}
