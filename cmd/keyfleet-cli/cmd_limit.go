package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keyfleet/keyfleet/client"
)

func newLimitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limit",
		Short: "Manage usage limits",
	}
	cmd.AddCommand(limitListCmd())
	cmd.AddCommand(limitGetCmd())
	cmd.AddCommand(limitSetCmd())
	cmd.AddCommand(limitClearCmd())
	return cmd
}

func limitListCmd() *cobra.Command {
	var ownerType string
	var ownerID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List limits for one owner",
		Run: func(cmd *cobra.Command, args []string) {
			limits, err := apiClient.Resources.ListByOwner(context.Background(), ownerType, ownerID)
			if err != nil {
				fatal("list limits", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "RESOURCE", "TYPE", "CURRENT", "MAX", "UNIT", "SOURCE"}
				var rows [][]string
				for _, l := range limits {
					rows = append(rows, []string{
						formatID(l.ID), l.Resource, l.LimitType,
						fmt.Sprintf("%.2f", l.Current), fmt.Sprintf("%.2f", l.Max),
						l.Unit, l.Source,
					})
				}
				formatTable(headers, rows)
				return
			}
			output(limits, "")
		},
	}
	cmd.Flags().StringVar(&ownerType, "owner-type", "team", "Owner type: user|team")
	cmd.Flags().Int64Var(&ownerID, "owner", 0, "Owner id (required)")
	cmd.MarkFlagRequired("owner") //nolint:errcheck
	return cmd
}

func limitGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a limit by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			limit, err := apiClient.Resources.Get(context.Background(), parseID(args[0]))
			if err != nil {
				fatal("get limit", err)
			}
			output(limit, formatID(limit.ID))
		},
	}
}

func limitSetCmd() *cobra.Command {
	var max float64
	var unit string
	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Override a limit's max value (survives product changes)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			limit, err := apiClient.Resources.SetOverride(context.Background(), parseID(args[0]), &client.SetLimitRequest{
				Max:  max,
				Unit: unit,
			})
			if err != nil {
				fatal("set limit", err)
			}
			output(limit, formatID(limit.ID))
		},
	}
	cmd.Flags().Float64Var(&max, "max", 0, "New max value (required)")
	cmd.Flags().StringVar(&unit, "unit", "", "Unit: count|dollar|gigabyte")
	cmd.MarkFlagRequired("max") //nolint:errcheck
	return cmd
}

func limitClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <id>",
		Short: "Clear an override, reverting to the product-derived value",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			limit, err := apiClient.Resources.ClearOverride(context.Background(), parseID(args[0]))
			if err != nil {
				fatal("clear limit", err)
			}
			output(limit, formatID(limit.ID))
		},
	}
}
