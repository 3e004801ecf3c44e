package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keyfleet/keyfleet/client"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage operator accounts",
	}
	cmd.AddCommand(userListCmd())
	cmd.AddCommand(userGetCmd())
	cmd.AddCommand(userCreateCmd())
	cmd.AddCommand(userUpdateCmd())
	cmd.AddCommand(userDeleteCmd())
	return cmd
}

func userListCmd() *cobra.Command {
	var teamID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Run: func(cmd *cobra.Command, args []string) {
			var filter *int64
			if cmd.Flags().Changed("team") {
				filter = &teamID
			}
			users, err := apiClient.Users.List(context.Background(), filter)
			if err != nil {
				fatal("list users", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "EMAIL", "ROLE", "TEAM", "ACTIVE"}
				var rows [][]string
				for _, u := range users {
					team := "-"
					if u.TeamID != nil {
						team = formatID(*u.TeamID)
					}
					rows = append(rows, []string{formatID(u.ID), u.Email, u.Role, team, yesNo(u.IsActive)})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, u := range users {
					fmt.Println(u.ID)
				}
				return
			}
			output(users, "")
		},
	}
	cmd.Flags().Int64Var(&teamID, "team", 0, "Filter by team id")
	return cmd
}

func userGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a user by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			user, err := apiClient.Users.Get(context.Background(), parseID(args[0]))
			if err != nil {
				fatal("get user", err)
			}
			output(user, formatID(user.ID))
		},
	}
}

func userCreateCmd() *cobra.Command {
	var role string
	var teamID int64
	cmd := &cobra.Command{
		Use:   "create <email>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateUserRequest{Email: args[0], Role: role}
			if cmd.Flags().Changed("team") {
				req.TeamID = &teamID
			}
			user, err := apiClient.Users.Create(context.Background(), req)
			if err != nil {
				fatal("create user", err)
			}
			output(user, formatID(user.ID))
		},
	}
	cmd.Flags().StringVar(&role, "role", "read_only", "Role: admin|key_creator|read_only|sales")
	cmd.Flags().Int64Var(&teamID, "team", 0, "Team id")
	return cmd
}

func userUpdateCmd() *cobra.Command {
	var role string
	var teamID int64
	var clearTeam bool
	var active boolFlag
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateUserRequest{ClearTeam: clearTeam, IsActive: active.value}
			if role != "" {
				req.Role = &role
			}
			if cmd.Flags().Changed("team") {
				req.TeamID = &teamID
			}
			user, err := apiClient.Users.Update(context.Background(), parseID(args[0]), req)
			if err != nil {
				fatal("update user", err)
			}
			output(user, formatID(user.ID))
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "New role")
	cmd.Flags().Int64Var(&teamID, "team", 0, "New team id")
	cmd.Flags().BoolVar(&clearTeam, "clear-team", false, "Remove team affiliation")
	cmd.Flags().Var(&active, "active", "Set active state (true|false)")
	return cmd
}

func userDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Deactivate a user (their keys survive)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if !confirm(fmt.Sprintf("Deactivate user %s?", args[0])) {
				fmt.Println("aborted")
				return
			}
			if err := apiClient.Users.Delete(context.Background(), parseID(args[0])); err != nil {
				fatal("delete user", err)
			}
			fmt.Println("deactivated")
		},
	}
}
