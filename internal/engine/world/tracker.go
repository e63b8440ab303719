// Package world tracks the dungeon grid, its monsters, vendors and the
// active quest. Generator-backed operations are split in two: the engine
// builds the request, and once the generator answers, an Apply function
// folds the result into the state.
//
// Functions here mutate the *entities.GameState they are given. The engine
// always passes a private copy, and every function validates before it
// writes so a rejected call leaves the state as it was.
package world

import (
	"fmt"
	"sort"

	"github.com/irmakh/gemini-rpg/internal/clients/content"
	"github.com/irmakh/gemini-rpg/internal/engine/inventory"
	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
)

// Log lines shown when a generator call fails
const (
	MsgDungeonFailed = "Error: The ancient magic binding this dungeon is unstable. Please try again."
	MsgLootFailed    = "The chest is magically sealed and you cannot open it."
	MsgTrapFailed    = "You deftly avoid a hidden trap."
	MsgQuestFailed   = "The echoes of destiny are silent. No new quest could be found."
)

const (
	msgCannotAfford = "You cannot afford that."
	msgNotForSale   = "That item is not for sale."
	msgCannotSell   = "You cannot sell this item."
	msgDeath        = "You have fallen. Your journey ends here."

	questTargetBonusHP = 20
	hpPerMonsterLevel  = 10
)

// DungeonRequest builds the generator request for a level
func DungeonRequest(level int) *content.DungeonRequest {
	return &content.DungeonRequest{Level: level}
}

// ApplyDungeon replaces the world with a generated level and moves the
// player to the start cell. The last listed monster is the quest target.
func ApplyDungeon(gs *entities.GameState, level int, res *content.DungeonResult) error {
	if err := validateDungeon(res); err != nil {
		return err
	}

	targetIdx := len(res.Entities) - 1
	monsters := make([]entities.Monster, 0, len(res.Entities))
	for idx, seed := range res.Entities {
		lvl := seed.Level
		if lvl < 1 {
			lvl = 1
		}
		hp := lvl * hpPerMonsterLevel
		if idx == targetIdx {
			hp += questTargetBonusHP
		}
		monsters = append(monsters, entities.Monster{
			ID:          seed.ID,
			Name:        seed.Name,
			Level:       lvl,
			HP:          hp,
			MaxHP:       hp,
			ImagePrompt: seed.ImagePrompt,
		})
	}

	var vendors []entities.Vendor
	if res.Vendor.ID != "" {
		stock := entities.CloneItems(res.Vendor.Inventory)
		for idx := range stock {
			if stock[idx].Quantity < 1 {
				stock[idx].Quantity = 1
			}
		}
		vendors = append(vendors, entities.Vendor{ID: res.Vendor.ID, Inventory: stock})
	}

	w := &entities.World{
		DungeonLevel: level,
		Name:         res.Name,
		Description:  res.Description,
		Map:          cloneGrid(res.Map),
		Monsters:     monsters,
		Vendors:      vendors,
		Quest: &entities.QuestObjective{
			ID:          res.Quest.ID,
			Title:       res.Quest.Title,
			Description: res.Quest.Description,
			Objective:   res.Quest.Objective,
			XPReward:    res.Quest.XPReward,
			TargetID:    monsters[targetIdx].ID,
		},
	}
	if w.Vendors == nil {
		w.Vendors = []entities.Vendor{}
	}
	retagQuestTarget(w)

	gs.World = w
	if gs.Player != nil {
		gs.Player.Position = StartPosition(w.Map)
	}
	gs.AddLog(fmt.Sprintf("You've entered: %s. %s", res.Name, res.Description))
	gs.Modal = &entities.Modal{Kind: entities.ModalQuest}
	return nil
}

func validateDungeon(res *content.DungeonResult) error {
	if res == nil {
		return errors.InvalidArgument("dungeon result is empty")
	}
	if len(res.Entities) == 0 {
		return errors.InvalidArgument("dungeon has no monsters")
	}
	if len(res.Map) < 3 {
		return errors.InvalidArgument("dungeon map is too small")
	}
	width := len(res.Map[0])
	for _, row := range res.Map {
		if len(row) != width || width < 3 {
			return errors.InvalidArgument("dungeon map is not rectangular")
		}
	}
	return nil
}

func cloneGrid(grid [][]entities.MapCell) [][]entities.MapCell {
	out := make([][]entities.MapCell, len(grid))
	for y := range grid {
		out[y] = append([]entities.MapCell(nil), grid[y]...)
	}
	return out
}

// StartPosition is the first floor cell of a row-major scan of the grid
// interior, or (1,1) when there is none.
func StartPosition(grid [][]entities.MapCell) entities.Position {
	for y := 1; y < len(grid)-1; y++ {
		for x := 1; x < len(grid[y])-1; x++ {
			if grid[y][x].Type == entities.CellFloor {
				return entities.Position{X: x, Y: y}
			}
		}
	}
	return entities.Position{X: 1, Y: 1}
}

// retagQuestTarget flags the cells matching the active quest's target
func retagQuestTarget(w *entities.World) {
	target := ""
	if w.Quest != nil && !w.Quest.IsCompleted {
		target = w.Quest.TargetID
	}
	for y := range w.Map {
		for x := range w.Map[y] {
			cell := &w.Map[y][x]
			switch {
			case target == "":
				cell.IsQuestTarget = false
			case target == entities.QuestTargetExit:
				cell.IsQuestTarget = cell.Type == entities.CellExit
			default:
				cell.IsQuestTarget = cell.Type == entities.CellMonster && cell.EntityID == target
			}
		}
	}
}

// RemoveMonster reverts every cell holding the monster to floor and returns
// how many cells changed. A second call for the same monster returns 0.
func RemoveMonster(w *entities.World, monsterID string) int {
	removed := 0
	for y := range w.Map {
		for x := range w.Map[y] {
			cell := &w.Map[y][x]
			if cell.Type == entities.CellMonster && cell.EntityID == monsterID {
				*cell = entities.MapCell{Type: entities.CellFloor, IsExplored: cell.IsExplored}
				removed++
			}
		}
	}
	if idx := w.FindMonster(monsterID); idx >= 0 {
		w.Monsters[idx].HP = 0
	}
	return removed
}

// CompleteQuestFor marks the active quest completed when targetID is its
// target. It returns the quest only on the call that completes it.
func CompleteQuestFor(w *entities.World, targetID string) *entities.QuestObjective {
	if w.Quest == nil || w.Quest.IsCompleted || w.Quest.TargetID != targetID {
		return nil
	}
	w.Quest.IsCompleted = true
	for y := range w.Map {
		for x := range w.Map[y] {
			w.Map[y][x].IsQuestTarget = false
		}
	}
	q := *w.Quest
	return &q
}

// RemainingMonsters lists roster monsters still present on the map
func RemainingMonsters(w *entities.World) []content.MonsterRef {
	onMap := map[string]bool{}
	for y := range w.Map {
		for x := range w.Map[y] {
			if w.Map[y][x].Type == entities.CellMonster {
				onMap[w.Map[y][x].EntityID] = true
			}
		}
	}
	refs := []content.MonsterRef{}
	for _, m := range w.Monsters {
		if onMap[m.ID] {
			refs = append(refs, content.MonsterRef{ID: m.ID, Name: m.Name})
		}
	}
	return refs
}

// QuestRequest builds the request for a follow-up quest
func QuestRequest(gs *entities.GameState) *content.QuestRequest {
	return &content.QuestRequest{
		PlayerLevel: gs.Player.Level,
		Remaining:   RemainingMonsters(gs.World),
	}
}

// ApplyQuest installs a generated quest and re-tags the map. The target must
// be a monster still on the map, or the exit.
func ApplyQuest(gs *entities.GameState, res *content.QuestResult) error {
	if res == nil || res.TargetID == "" {
		return errors.InvalidArgument("quest has no target")
	}
	if res.TargetID != entities.QuestTargetExit {
		found := false
		for _, ref := range RemainingMonsters(gs.World) {
			if ref.ID == res.TargetID {
				found = true
				break
			}
		}
		if !found {
			return errors.InvalidArgumentf("quest target %s is not on the map", res.TargetID)
		}
	}

	gs.World.Quest = &entities.QuestObjective{
		ID:          res.ID,
		Title:       res.Title,
		Description: res.Description,
		Objective:   res.Objective,
		XPReward:    res.XPReward,
		TargetID:    res.TargetID,
	}
	retagQuestTarget(gs.World)
	gs.Modal = &entities.Modal{Kind: entities.ModalQuest}
	return nil
}

// LootRequest builds the request for chest contents
func LootRequest(gs *entities.GameState) *content.LootRequest {
	return &content.LootRequest{PlayerLevel: gs.Player.Level}
}

// ApplyLoot merges chest contents into the inventory and clears the chest
func ApplyLoot(gs *entities.GameState, ledger *inventory.Ledger, x, y int, items []entities.Item) {
	if len(items) > 0 {
		gs.AddLog("You open it and find:")
		for _, item := range items {
			gs.AddLog("- " + item.Name)
		}
	} else {
		gs.AddLog("The chest is empty.")
	}

	gs.Player.Inventory = ledger.AddItems(gs.Player.Inventory, items)
	if gs.World.InBounds(x, y) {
		cell := gs.World.Cell(x, y)
		*cell = entities.MapCell{Type: entities.CellFloor, IsExplored: true}
	}
}

// TrapRequest builds the request for a trap
func TrapRequest(gs *entities.GameState) *content.TrapRequest {
	return &content.TrapRequest{PlayerLevel: gs.Player.Level, MaxHP: gs.Player.MaxHP}
}

// ApplyTrap damages the player and marks the trap triggered. It reports
// whether the player died.
func ApplyTrap(gs *entities.GameState, x, y int, res *content.TrapResult) bool {
	damage := res.Damage
	if damage < 0 {
		damage = 0
	}
	gs.AddLog("TRAP! " + res.Narration)
	gs.AddLog(fmt.Sprintf("You take %d damage.", damage))

	gs.Player.HP -= damage
	if gs.Player.HP < 0 {
		gs.Player.HP = 0
	}
	if gs.World.InBounds(x, y) {
		*gs.World.Cell(x, y) = entities.MapCell{Type: entities.CellTrap, IsExplored: true, EntityID: entities.TriggeredTrapID}
	}

	if gs.Player.HP == 0 {
		FinalDeath(gs)
		return true
	}
	return false
}

// FinalDeath ends the run. Only a new game or a load leaves this state.
func FinalDeath(gs *entities.GameState) {
	gs.Player.HP = 0
	gs.CombatState = nil
	gs.LevelUpOffer = nil
	gs.Modal = &entities.Modal{Kind: entities.ModalDeath}
	gs.AddLog(msgDeath)
}

// Buy moves one unit of a vendor's item to the player. Nothing changes when
// the player cannot pay.
func Buy(gs *entities.GameState, ledger *inventory.Ledger, vendorID, itemID string) error {
	vIdx := gs.World.FindVendor(vendorID)
	if vIdx < 0 {
		return errors.NotFoundf("vendor %s not found", vendorID)
	}
	vendor := &gs.World.Vendors[vIdx]

	var item *entities.Item
	for idx := range vendor.Inventory {
		if vendor.Inventory[idx].ID == itemID {
			item = vendor.Inventory[idx].Clone()
			break
		}
	}
	if item == nil {
		return errors.NotFound(msgNotForSale).WithMeta("item_id", itemID)
	}
	if item.BuyPrice <= 0 {
		return errors.InvalidArgument(msgNotForSale)
	}
	if gs.Player.Gold < item.BuyPrice {
		return errors.FailedPrecondition(msgCannotAfford)
	}

	vendor.Inventory, _ = inventory.RemoveOne(vendor.Inventory, itemID)
	gs.Player.Gold -= item.BuyPrice
	item.Quantity = 1
	gs.Player.Inventory = ledger.AddItem(gs.Player.Inventory, *item)
	gs.AddLog(fmt.Sprintf("You purchased %s for %d gold.", item.Name, item.BuyPrice))
	return nil
}

// Sell moves one unit of a player's item to a vendor for its sell price.
// The vendor's stock stays sorted by buy price.
func Sell(gs *entities.GameState, vendorID, itemID string) error {
	vIdx := gs.World.FindVendor(vendorID)
	if vIdx < 0 {
		return errors.NotFoundf("vendor %s not found", vendorID)
	}

	pIdx := gs.Player.FindItem(itemID)
	if pIdx < 0 {
		return errors.NotFound("You don't have that item.").WithMeta("item_id", itemID)
	}
	item := gs.Player.Inventory[pIdx].Clone()
	if item.SellPrice <= 0 {
		return errors.InvalidArgument(msgCannotSell)
	}

	gs.Player.Inventory, _ = inventory.RemoveOne(gs.Player.Inventory, itemID)
	gs.Player.Gold += item.SellPrice

	vendor := &gs.World.Vendors[vIdx]
	merged := false
	for idx := range vendor.Inventory {
		if vendor.Inventory[idx].ID == item.ID {
			vendor.Inventory[idx].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		item.Quantity = 1
		vendor.Inventory = append(vendor.Inventory, *item)
	}
	sort.SliceStable(vendor.Inventory, func(i, j int) bool {
		return vendor.Inventory[i].BuyPrice < vendor.Inventory[j].BuyPrice
	})

	gs.AddLog(fmt.Sprintf("You sold %s for %d gold.", item.Name, item.SellPrice))
	return nil
}
