package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var runTimeout time.Duration

// runCmd sends a single prompt through the full conversation loop
var runCmd = &cobra.Command{
	Use:   "run <prompt>",
	Short: "Ask Dashy a single question",
	Long: `Sends one prompt through the conversation loop and prints the reply.
Tool calls the model makes are applied to the workspace stores before the
final answer is produced.

Example:
  dashy run "add buy milk to my todo list"
  dashy run "what unread emails do I have?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOneShot,
}

func init() {
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 2*time.Minute, "abort the turn after this long")
}

func runOneShot(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n⏹️  Interrupted")
		cancel()
	}()

	prompt := strings.Join(args, " ")

	a, err := buildApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Printf("💬 Prompt: %s\n", prompt)
	fmt.Printf("🤖 Model:  %s\n", a.engine.ModelName())
	fmt.Println(strings.Repeat("─", 50))

	reply, err := a.engine.Submit(ctx, prompt)
	if banner := a.engine.APIError(); banner != "" {
		fmt.Printf("⚠️  %s\n", banner)
		return nil
	}
	if err != nil {
		return fmt.Errorf("turn failed: %w", err)
	}
	if reply != "" {
		fmt.Println(reply)
	}
	return nil
}
