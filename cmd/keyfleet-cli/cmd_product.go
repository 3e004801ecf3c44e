package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keyfleet/keyfleet/client"
)

func newProductCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products",
	}
	cmd.AddCommand(productListCmd())
	cmd.AddCommand(productGetCmd())
	cmd.AddCommand(productCreateCmd())
	cmd.AddCommand(productUpdateCmd())
	cmd.AddCommand(productDeleteCmd())
	return cmd
}

func productListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products",
		Run: func(cmd *cobra.Command, args []string) {
			products, err := apiClient.Products.List(context.Background())
			if err != nil {
				fatal("list products", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "NAME", "USERS", "KEYS/USER", "BUDGET/KEY", "ACTIVE"}
				var rows [][]string
				for _, p := range products {
					rows = append(rows, []string{
						p.ID, p.Name, fmt.Sprintf("%d", p.UserCount),
						fmt.Sprintf("%d", p.KeysPerUser), fmt.Sprintf("%.2f", p.KeyBudget),
						yesNo(p.IsActive),
					})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, p := range products {
					fmt.Println(p.ID)
				}
				return
			}
			output(products, "")
		},
	}
}

func productGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a product by its billing-provider ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			product, err := apiClient.Products.Get(context.Background(), args[0])
			if err != nil {
				fatal("get product", err)
			}
			output(product, product.ID)
		},
	}
}

func productCreateCmd() *cobra.Command {
	var name string
	var userCount, keysPerUser, rpm, vectorGB int
	var keyBudget float64
	cmd := &cobra.Command{
		Use:   "create <id>",
		Short: "Register a product under its billing-provider ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			product, err := apiClient.Products.Create(context.Background(), &client.CreateProductRequest{
				ID:          args[0],
				Name:        name,
				UserCount:   userCount,
				KeysPerUser: keysPerUser,
				KeyBudget:   keyBudget,
				RPMPerKey:   rpm,
				VectorDBGB:  vectorGB,
			})
			if err != nil {
				fatal("create product", err)
			}
			output(product, product.ID)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().IntVar(&userCount, "users", 0, "Seats included")
	cmd.Flags().IntVar(&keysPerUser, "keys-per-user", 0, "Keys allowed per seat")
	cmd.Flags().Float64Var(&keyBudget, "key-budget", 0, "Total budget per key")
	cmd.Flags().IntVar(&rpm, "rpm", 0, "Requests per minute per key")
	cmd.Flags().IntVar(&vectorGB, "vector-gb", 0, "Vector DB storage in GB")
	cmd.MarkFlagRequired("name") //nolint:errcheck
	return cmd
}

func productUpdateCmd() *cobra.Command {
	var name string
	var userCount, keysPerUser, rpm, vectorGB int
	var keyBudget float64
	var active boolFlag
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdateProductRequest{IsActive: active.value}
			if name != "" {
				req.Name = &name
			}
			if cmd.Flags().Changed("users") {
				req.UserCount = &userCount
			}
			if cmd.Flags().Changed("keys-per-user") {
				req.KeysPerUser = &keysPerUser
			}
			if cmd.Flags().Changed("key-budget") {
				req.KeyBudget = &keyBudget
			}
			if cmd.Flags().Changed("rpm") {
				req.RPMPerKey = &rpm
			}
			if cmd.Flags().Changed("vector-gb") {
				req.VectorDBGB = &vectorGB
			}
			product, err := apiClient.Products.Update(context.Background(), args[0], req)
			if err != nil {
				fatal("update product", err)
			}
			output(product, product.ID)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().IntVar(&userCount, "users", 0, "Seats included")
	cmd.Flags().IntVar(&keysPerUser, "keys-per-user", 0, "Keys allowed per seat")
	cmd.Flags().Float64Var(&keyBudget, "key-budget", 0, "Total budget per key")
	cmd.Flags().IntVar(&rpm, "rpm", 0, "Requests per minute per key")
	cmd.Flags().IntVar(&vectorGB, "vector-gb", 0, "Vector DB storage in GB")
	cmd.Flags().Var(&active, "active", "Set active state (true|false)")
	return cmd
}

func productDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a product",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if !confirm(fmt.Sprintf("Delete product %s?", args[0])) {
				fmt.Println("aborted")
				return
			}
			if err := apiClient.Products.Delete(context.Background(), args[0]); err != nil {
				fatal("delete product", err)
			}
			fmt.Println("deleted")
		},
	}
}
