package client

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var owner string

var newGameCmd = &cobra.Command{
	Use:   "new-game",
	Short: "Open a session and start character creation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := connect(url.Values{"owner": {owner}})
		if err != nil {
			return err
		}
		defer s.close()

		f, err := s.send(map[string]any{"type": "new_game"})
		if err != nil {
			return err
		}
		fmt.Printf("Session: %s\n", s.id)
		printFrame(f)
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create [name] [class]",
	Short: "Generate a hero draft",
	Long: `Generate a hero draft. Class is one of Warrior, Mage or Rogue.

  create Aria Mage`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(map[string]any{"type": "create_character", "name": args[0], "characterClass": args[1]})
	},
}

var confirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Accept the hero draft and enter the first dungeon",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(map[string]any{"type": "confirm_character"})
	},
}

var directions = map[string][2]int{
	"north": {0, -1},
	"south": {0, 1},
	"west":  {-1, 0},
	"east":  {1, 0},
}

var moveCmd = &cobra.Command{
	Use:   "move [direction|dx dy]",
	Short: "Step one cell",
	Long: `Step one cell. Examples:

  move north
  move 1 0`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dx, dy int
		if len(args) == 1 {
			d, ok := directions[strings.ToLower(args[0])]
			if !ok {
				return fmt.Errorf("unknown direction %q", args[0])
			}
			dx, dy = d[0], d[1]
		} else {
			var err error
			if dx, err = strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("invalid dx: %w", err)
			}
			if dy, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("invalid dy: %w", err)
			}
		}
		return run(map[string]any{"type": "move", "dx": dx, "dy": dy})
	},
}

var attackAbility, attackItem string

var attackCmd = &cobra.Command{
	Use:   "attack",
	Short: "Take a combat turn",
	Long: `Take a combat turn: a plain attack, or an ability or potion with a flag.

  attack
  attack --ability ab_1
  attack --item healing_potion`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		action := map[string]any{"kind": "attack"}
		switch {
		case attackAbility != "":
			action = map[string]any{"kind": "ability", "abilityId": attackAbility}
		case attackItem != "":
			action = map[string]any{"kind": "item", "itemId": attackItem}
		}
		return run(map[string]any{"type": "combat_action", "action": action})
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the session state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := connect(nil)
		if err != nil {
			return err
		}
		defer s.close()

		printFrame(s.state)
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save [slot]",
	Short: "Save the game to a slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(map[string]any{"type": "save", "slot": args[0]})
	},
}

var loadCmd = &cobra.Command{
	Use:   "load [slot]",
	Short: "Load the game from a slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(map[string]any{"type": "load", "slot": args[0]})
	},
}

func init() {
	newGameCmd.Flags().StringVar(&owner, "owner", "", "Owner of the session's save slots")
	attackCmd.Flags().StringVar(&attackAbility, "ability", "", "Ability ID to cast")
	attackCmd.Flags().StringVar(&attackItem, "item", "", "Potion ID to drink")
}
