package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/keyfleet/keyfleet/client"
	"github.com/keyfleet/keyfleet/internal/models"
	"github.com/keyfleet/keyfleet/internal/query"
)

func newTeamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage teams",
	}
	cmd.AddCommand(teamListCmd())
	cmd.AddCommand(teamGetCmd())
	cmd.AddCommand(teamCreateCmd())
	cmd.AddCommand(teamUpdateCmd())
	cmd.AddCommand(teamDeleteCmd())
	cmd.AddCommand(teamRestoreCmd())
	cmd.AddCommand(teamPaymentCmd())
	cmd.AddCommand(teamAttachProductCmd())
	cmd.AddCommand(teamDetachProductCmd())
	cmd.AddCommand(teamMergeCmd())
	cmd.AddCommand(teamOverviewCmd())
	return cmd
}

func teamListCmd() *cobra.Command {
	var includeDeleted bool
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List teams",
		Run: func(cmd *cobra.Command, args []string) {
			teams, err := apiClient.Teams.List(context.Background(), includeDeleted)
			if err != nil {
				fatal("list teams", err)
			}
			if search != "" {
				teams = query.Filter(teams,
					query.TextContains(func(t client.Team) string { return t.Name }, search))
			}
			if flagFmt == "table" {
				now := time.Now()
				headers := []string{"ID", "NAME", "ADMIN", "ACTIVE", "STATUS"}
				var rows [][]string
				for _, t := range teams {
					status := query.TeamTrialStatus(toModelTeam(t), now)
					rows = append(rows, []string{
						formatID(t.ID), t.Name, t.AdminEmail, yesNo(t.IsActive), status.String(),
					})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, t := range teams {
					fmt.Println(t.ID)
				}
				return
			}
			output(teams, "")
		},
	}
	cmd.Flags().BoolVar(&includeDeleted, "include-deleted", false, "Include soft-deleted teams")
	cmd.Flags().StringVar(&search, "search", "", "Filter by name substring")
	return cmd
}

func teamGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a team with its product subscriptions",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			team, err := apiClient.Teams.Get(context.Background(), parseID(args[0]))
			if err != nil {
				fatal("get team", err)
			}
			output(team, formatID(team.ID))
		},
	}
}

func teamCreateCmd() *cobra.Command {
	var adminEmail string
	var alwaysFree bool
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a team",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			team, err := apiClient.Teams.Create(context.Background(), &client.CreateTeamRequest{
				Name:         args[0],
				AdminEmail:   adminEmail,
				IsAlwaysFree: alwaysFree,
			})
			if err != nil {
				fatal("create team", err)
			}
			output(team, formatID(team.ID))
		},
	}
	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "Team admin email (required)")
	cmd.Flags().BoolVar(&alwaysFree, "always-free", false, "Exempt from trial expiry")
	cmd.MarkFlagRequired("admin-email") //nolint:errcheck
	return cmd
}

func teamUpdateCmd() *cobra.Command {
	var name, adminEmail string
	var active, alwaysFree boolFlag
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a team",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateTeamRequest{}
			if name != "" {
				req.Name = &name
			}
			if adminEmail != "" {
				req.AdminEmail = &adminEmail
			}
			req.IsActive = active.value
			req.IsAlwaysFree = alwaysFree.value
			team, err := apiClient.Teams.Update(context.Background(), parseID(args[0]), req)
			if err != nil {
				fatal("update team", err)
			}
			output(team, formatID(team.ID))
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "New admin email")
	cmd.Flags().Var(&active, "active", "Set active state (true|false)")
	cmd.Flags().Var(&alwaysFree, "always-free", "Set always-free state (true|false)")
	return cmd
}

func teamDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Soft-delete a team",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if !confirm(fmt.Sprintf("Delete team %s?", args[0])) {
				fmt.Println("aborted")
				return
			}
			if err := apiClient.Teams.Delete(context.Background(), parseID(args[0])); err != nil {
				fatal("delete team", err)
			}
			fmt.Println("deleted")
		},
	}
}

func teamRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <id>",
		Short: "Restore a soft-deleted team",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			team, err := apiClient.Teams.Restore(context.Background(), parseID(args[0]))
			if err != nil {
				fatal("restore team", err)
			}
			output(team, formatID(team.ID))
		},
	}
}

func teamPaymentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "payment <id>",
		Short: "Record a payment, restarting the trial clock",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Teams.RecordPayment(context.Background(), parseID(args[0])); err != nil {
				fatal("record payment", err)
			}
			fmt.Println("recorded")
		},
	}
}

func teamAttachProductCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attach-product <team-id> <product-id>",
		Short: "Subscribe a team to a product",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Teams.AttachProduct(context.Background(), parseID(args[0]), args[1]); err != nil {
				fatal("attach product", err)
			}
			fmt.Println("attached")
		},
	}
}

func teamDetachProductCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detach-product <team-id> <product-id>",
		Short: "Remove a product subscription from a team",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Teams.DetachProduct(context.Background(), parseID(args[0]), args[1]); err != nil {
				fatal("detach product", err)
			}
			fmt.Println("detached")
		},
	}
}

func teamMergeCmd() *cobra.Command {
	var target int64
	cmd := &cobra.Command{
		Use:   "merge <source-id>",
		Short: "Merge a team's users and keys into another team",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if !confirm(fmt.Sprintf("Merge team %s into team %d and delete the source?", args[0], target)) {
				fmt.Println("aborted")
				return
			}
			result, err := apiClient.Teams.Merge(context.Background(), parseID(args[0]), target)
			if err != nil {
				fatal("merge teams", err)
			}
			output(result, formatID(result.TargetTeamID))
		},
	}
	cmd.Flags().Int64Var(&target, "into", 0, "Target team id (required)")
	cmd.MarkFlagRequired("into") //nolint:errcheck
	return cmd
}

func teamOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview <id>",
		Short: "Show a team with its keys and aggregate spend",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			overview, err := apiClient.TeamOverview(context.Background(), parseID(args[0]))
			if err != nil {
				fatal("team overview", err)
			}
			if flagFmt == "table" {
				headers := []string{"KEY", "NAME", "REGION", "SPEND"}
				var rows [][]string
				for _, k := range overview.Keys {
					rows = append(rows, []string{
						formatID(k.ID), k.Name, formatID(k.RegionID), fmt.Sprintf("%.2f", k.Spend),
					})
				}
				formatTable(headers, rows)
				suffix := ""
				if overview.Spend.Partial {
					suffix = " (partial)"
				}
				fmt.Printf("total spend: %.2f%s\n", overview.Spend.Total, suffix)
				return
			}
			output(overview, formatID(overview.Team.ID))
		},
	}
}

// toModelTeam adapts an SDK team to the shape the derived-metric helpers
// take. Only the fields trial status reads are mapped.
func toModelTeam(t client.Team) *models.Team {
	m := &models.Team{
		ID:           t.ID,
		Name:         t.Name,
		IsAlwaysFree: t.IsAlwaysFree,
		CreatedAt:    t.CreatedAt,
		LastPayment:  t.LastPayment,
	}
	for _, p := range t.Products {
		m.Products = append(m.Products, models.Product{ID: p.ID, IsActive: p.IsActive})
	}
	return m
}
