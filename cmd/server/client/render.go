package client

import (
	"fmt"
	"strings"

	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/handlers/ws"
)

const logTail = 6

var glyphs = map[entities.CellType]byte{
	entities.CellFloor:   '.',
	entities.CellWall:    '#',
	entities.CellMonster: 'M',
	entities.CellChest:   'C',
	entities.CellVendor:  'V',
	entities.CellExit:    'E',
	entities.CellTrap:    '^',
}

func printFrame(f ws.Frame) {
	switch f.Type {
	case ws.FrameState:
		if f.State != nil {
			printState(*f.State)
		}
	case ws.FrameSaves:
		for _, r := range f.Saves {
			fmt.Printf("  %-16s %s the %s, level %d, dungeon %d (%s)\n",
				r.Slot, r.Summary.PlayerName, r.Summary.Class, r.Summary.Level,
				r.Summary.DungeonLevel, r.SavedAt.Format("2006-01-02 15:04"))
		}
	case ws.FrameSave:
		fmt.Println(string(f.Data))
	}
}

func printState(gs entities.GameState) {
	fmt.Printf("\nPhase: %s\n", gs.Phase)

	if d := gs.Draft; d != nil && gs.Phase == entities.PhaseCharacterCreation {
		fmt.Printf("Draft: %s the %s (STR %d, DEX %d, INT %d)\n",
			d.Name, d.Class, d.Stats.Strength, d.Stats.Dexterity, d.Stats.Intelligence)
		fmt.Printf("  %s\n", d.Backstory)
	}

	if p := gs.Player; p != nil {
		fmt.Printf("%s the %s  Lv %d  HP %d/%d  MP %d/%d  XP %d/%d  Gold %d\n",
			p.Name, p.Class, p.Level, p.HP, p.MaxHP, p.Mana, p.MaxMana, p.XP, p.XPToNextLevel, p.Gold)
	}

	if w := gs.World; w != nil {
		fmt.Printf("Dungeon level %d: %s\n", w.DungeonLevel, w.Name)
		if q := w.Quest; q != nil {
			status := "active"
			if q.IsCompleted {
				status = "completed"
			}
			fmt.Printf("Quest (%s): %s - %s\n", status, q.Title, q.Objective)
		}
		fmt.Print(renderMap(w, gs.Player))
	}

	if cs := gs.CombatState; cs != nil {
		fmt.Printf("Fighting %s (Lv %d) HP %d/%d\n", cs.Monster.Name, cs.Monster.Level, cs.Monster.HP, cs.Monster.MaxHP)
		for _, line := range tail(cs.CombatLog, logTail) {
			fmt.Printf("  > %s\n", line)
		}
	}

	if gs.Modal != nil {
		fmt.Printf("[%s dialog open]\n", gs.Modal.Kind)
	}
	for _, a := range gs.LevelUpOffer {
		fmt.Printf("  offer %s: %s (%d mana)\n", a.ID, a.Name, a.ManaCost)
	}

	fmt.Println("Log:")
	for _, line := range tail(gs.Log, logTail) {
		fmt.Printf("  %s\n", line)
	}
}

// renderMap draws explored cells only, like the in-game fog
func renderMap(w *entities.World, p *entities.Player) string {
	var b strings.Builder
	for y, row := range w.Map {
		for x, cell := range row {
			switch {
			case p != nil && p.Position.X == x && p.Position.Y == y:
				b.WriteByte('@')
			case !cell.IsExplored:
				b.WriteByte(' ')
			case cell.IsTriggeredTrap():
				b.WriteByte('.')
			default:
				g, ok := glyphs[cell.Type]
				if !ok {
					g = '?'
				}
				b.WriteByte(g)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func tail(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
