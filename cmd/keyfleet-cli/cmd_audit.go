package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/keyfleet/keyfleet/client"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Query the audit log",
	}
	cmd.AddCommand(auditQueryCmd())
	return cmd
}

func auditQueryCmd() *cobra.Command {
	var actor, eventType, resourceType, action, since string
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query audit entries",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.AuditQueryOptions{
				ActorEmail:   actor,
				EventType:    eventType,
				ResourceType: resourceType,
				Action:       action,
				Page:         page,
				PageSize:     pageSize,
			}
			if since != "" {
				ts, err := time.Parse(time.RFC3339, since)
				if err != nil {
					fatal("parse --since", err)
				}
				opts.Since = &ts
			}
			result, err := apiClient.Audit.Query(context.Background(), opts)
			if err != nil {
				fatal("query audit log", err)
			}
			if flagFmt == "table" {
				headers := []string{"TIME", "ACTOR", "EVENT", "RESOURCE", "ACTION"}
				var rows [][]string
				for _, e := range result.Items {
					rows = append(rows, []string{
						e.Timestamp.Format(time.RFC3339), e.ActorEmail, e.EventType,
						e.ResourceType + "/" + e.ResourceID, e.Action,
					})
				}
				formatTable(headers, rows)
				fmt.Printf("total: %d\n", result.Total)
				return
			}
			output(result, "")
		},
	}
	cmd.Flags().StringVar(&actor, "actor", "", "Filter by actor email")
	cmd.Flags().StringVar(&eventType, "event-type", "", "Filter by event type")
	cmd.Flags().StringVar(&resourceType, "resource-type", "", "Filter by resource type")
	cmd.Flags().StringVar(&action, "action", "", "Filter by action")
	cmd.Flags().StringVar(&since, "since", "", "Only entries after this RFC 3339 timestamp")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 50, "Entries per page (max 500)")
	return cmd
}
