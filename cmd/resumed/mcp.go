package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kalambet/resumed/internal/api"
	"github.com/kalambet/resumed/internal/config"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the resume tools over MCP (stdio transport)",
	Long: `Serve the resume tools over the Model Context Protocol on stdin/stdout.

Tools: suggest_improvement, generate_tailored_resume.
Resources: user://profile.

Logs go to stderr; stdout carries protocol messages only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCP()
	},
}

func runMCP() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.Log.Level, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openProfileStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()

	assistant, _ := newAssistant(cfg.Ollama)
	mcpSrv := api.NewMCPServer(api.MCPDeps{
		Profile:   store,
		Assistant: assistant,
		Version:   version,
	})

	stdioSrv := server.NewStdioServer(mcpSrv)
	if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP stdio server: %w", err)
	}
	return nil
}
