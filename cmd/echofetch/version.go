package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seabeam/echofetch/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the echofetch version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
