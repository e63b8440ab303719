package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/irmakh/gemini-rpg/internal/savestate"
)

var migrateOut string

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Work with save files",
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Decode a save file and summarize it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read save: %w", err)
		}

		version := gjson.GetBytes(data, "version").Int()
		gs, err := savestate.Decode(data)
		if err != nil {
			return err
		}

		p, w := gs.Player, gs.World
		fmt.Printf("Save version: %d (current %d)\n", version, savestate.Version)
		fmt.Printf("Hero: %s the %s, level %d (%d/%d xp)\n", p.Name, p.Class, p.Level, p.XP, p.XPToNextLevel)
		fmt.Printf("HP %d/%d  Mana %d/%d  Gold %d  Items %d  Abilities %d\n",
			p.HP, p.MaxHP, p.Mana, p.MaxMana, p.Gold, len(p.Inventory), len(p.Abilities))
		fmt.Printf("Dungeon level %d: %d monsters left\n", w.DungeonLevel, len(w.Monsters))
		if w.Quest != nil {
			fmt.Printf("Quest: %s (completed: %t)\n", w.Quest.Title, w.Quest.IsCompleted)
		}
		if gs.CombatState != nil {
			fmt.Printf("In combat with %s\n", gs.CombatState.Monster.Name)
		}
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate [file]",
	Short: "Rewrite a save file in the current layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read save: %w", err)
		}

		gs, err := savestate.Decode(data)
		if err != nil {
			return err
		}
		out, err := savestate.Encode(gs)
		if err != nil {
			return err
		}

		if migrateOut == "" {
			_, err = os.Stdout.Write(append(out, '\n'))
			return err
		}
		if err := os.WriteFile(migrateOut, out, 0o600); err != nil {
			return fmt.Errorf("failed to write save: %w", err)
		}
		fmt.Printf("Wrote %s (version %d)\n", migrateOut, savestate.Version)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVarP(&migrateOut, "output", "o", "", "Output file (default stdout)")
	saveCmd.AddCommand(inspectCmd)
	saveCmd.AddCommand(migrateCmd)
}
