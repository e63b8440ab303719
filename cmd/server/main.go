// Package main is the entry point for the game server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/irmakh/gemini-rpg/cmd/server/client"
)

var rootCmd = &cobra.Command{
	Use:   "gemini-rpg",
	Short: "Gemini RPG game server",
	Long:  `Gemini RPG serves a single-player dungeon crawler over a websocket; a content generator writes the story.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(client.ClientCmd)
	rootCmd.AddCommand(saveCmd)
}
