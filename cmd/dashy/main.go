package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose   bool
	apiKey    string
	workspace string

	// Logger for non-interactive commands; the chat TUI has its own UI.
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dashy",
	Short: "dashy - conversational smart dashboard assistant",
	Long: `dashy is a smart dashboard assistant driven by Gemini.

Talk to it in English or Russian: it manages your to-do list and inbox,
rearranges and restyles the dashboard widgets, and switches smart home
devices. Tool calls from the model are applied locally and their results
feed back into the conversation until the request is fully handled.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it has its own UI)
		if cmd.Use == "dashy" && cmd.CalledAs() == "dashy" {
			return nil
		}

		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveChat()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dashy version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("dashy 1.0.0")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (overrides config and GEMINI_API_KEY)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace directory (default: current directory)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(todoCmd)
	rootCmd.AddCommand(mailCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(widgetCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
