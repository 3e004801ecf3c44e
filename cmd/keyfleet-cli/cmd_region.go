package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keyfleet/keyfleet/client"
)

func newRegionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "region",
		Short: "Manage regions",
	}
	cmd.AddCommand(regionListCmd())
	cmd.AddCommand(regionGetCmd())
	cmd.AddCommand(regionCreateCmd())
	cmd.AddCommand(regionUpdateCmd())
	cmd.AddCommand(regionDeleteCmd())
	cmd.AddCommand(regionAssignTeamsCmd())
	return cmd
}

func regionListCmd() *cobra.Command {
	var includeInactive bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List regions",
		Run: func(cmd *cobra.Command, args []string) {
			regions, err := apiClient.Regions.List(context.Background(), includeInactive)
			if err != nil {
				fatal("list regions", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "NAME", "HOST", "ACTIVE", "DEDICATED"}
				var rows [][]string
				for _, r := range regions {
					rows = append(rows, []string{
						formatID(r.ID), r.Name, r.PostgresHost, yesNo(r.IsActive), yesNo(r.IsDedicated),
					})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, r := range regions {
					fmt.Println(r.ID)
				}
				return
			}
			output(regions, "")
		},
	}
	cmd.Flags().BoolVar(&includeInactive, "include-inactive", false, "Include inactive regions")
	return cmd
}

func regionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a region by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			region, err := apiClient.Regions.Get(context.Background(), parseID(args[0]))
			if err != nil {
				fatal("get region", err)
			}
			output(region, formatID(region.ID))
		},
	}
}

func regionCreateCmd() *cobra.Command {
	var host, gatewayURL, gatewayKey string
	var port int
	var dedicated bool
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a region",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			region, err := apiClient.Regions.Create(context.Background(), &client.CreateRegionRequest{
				Name:         args[0],
				PostgresHost: host,
				PostgresPort: port,
				GatewayURL:   gatewayURL,
				GatewayKey:   gatewayKey,
				IsDedicated:  dedicated,
			})
			if err != nil {
				fatal("create region", err)
			}
			output(region, formatID(region.ID))
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "Postgres host (required)")
	cmd.Flags().IntVar(&port, "port", 5432, "Postgres port")
	cmd.Flags().StringVar(&gatewayURL, "gateway-url", "", "LLM gateway URL")
	cmd.Flags().StringVar(&gatewayKey, "gateway-key", "", "LLM gateway admin key (stored encrypted)")
	cmd.Flags().BoolVar(&dedicated, "dedicated", false, "Restrict to an explicit team allow-list")
	cmd.MarkFlagRequired("host") //nolint:errcheck
	return cmd
}

func regionUpdateCmd() *cobra.Command {
	var name, gatewayURL, gatewayKey string
	var active, dedicated boolFlag
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a region",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateRegionRequest{IsActive: active.value, IsDedicated: dedicated.value}
			if name != "" {
				req.Name = &name
			}
			if gatewayURL != "" {
				req.GatewayURL = &gatewayURL
			}
			if gatewayKey != "" {
				req.GatewayKey = &gatewayKey
			}
			region, err := apiClient.Regions.Update(context.Background(), parseID(args[0]), req)
			if err != nil {
				fatal("update region", err)
			}
			output(region, formatID(region.ID))
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&gatewayURL, "gateway-url", "", "New gateway URL")
	cmd.Flags().StringVar(&gatewayKey, "gateway-key", "", "New gateway admin key")
	cmd.Flags().Var(&active, "active", "Set active state (true|false)")
	cmd.Flags().Var(&dedicated, "dedicated", "Set dedicated state (true|false)")
	return cmd
}

func regionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a region (fails while keys are provisioned in it)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if !confirm(fmt.Sprintf("Delete region %s?", args[0])) {
				fmt.Println("aborted")
				return
			}
			if err := apiClient.Regions.Delete(context.Background(), parseID(args[0])); err != nil {
				fatal("delete region", err)
			}
			fmt.Println("deleted")
		},
	}
}

func regionAssignTeamsCmd() *cobra.Command {
	var teamIDs []int64
	cmd := &cobra.Command{
		Use:   "assign-teams <id>",
		Short: "Replace a dedicated region's team allow-list",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Regions.AssignTeams(context.Background(), parseID(args[0]), teamIDs); err != nil {
				fatal("assign teams", err)
			}
			fmt.Println("assigned")
		},
	}
	cmd.Flags().Int64SliceVar(&teamIDs, "teams", nil, "Team ids, comma-separated (empty clears the list)")
	return cmd
}
