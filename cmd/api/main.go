package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/todolist/core/cmd/api/commands"
)

// @title TodoList API
// @version 1.0
// @description Owner-scoped todo list service with cursor pagination

// @contact.name TodoList Support
// @contact.url https://github.com/todolist/core

// @license.name MIT
// @license.url https://github.com/todolist/core/blob/main/LICENSE

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "todolist",
		Short: "TodoList API Server",
		Long:  `TodoList is a per-user todo service with filtering, search and cursor-based pagination.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
