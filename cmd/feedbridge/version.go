package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/feedbridge/feedbridge"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of feedbridge",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("feedbridge version %s\n", feedbridge.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
