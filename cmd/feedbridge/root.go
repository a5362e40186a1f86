package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "feedbridge",
	Short: "feedbridge bridges LLM agents to a human through pop-up dialogs",
	Long: `Feedbridge exposes a get_user_feedback tool over the Model Context
Protocol. When an agent calls it, feedbridge opens a dialog on the user's
machine, waits for the answer, and returns it as the tool result.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a feedbridge config file (YAML)")
}
