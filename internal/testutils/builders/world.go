package builders

import (
	"github.com/irmakh/gemini-rpg/internal/entities"
)

// WorldBuilder builds small hand-placed dungeons. The grid is walled on the
// border with an open floor inside.
type WorldBuilder struct {
	world *entities.World
}

// NewWorldBuilder creates a level 1 dungeon of the given size
func NewWorldBuilder(width, height int) *WorldBuilder {
	grid := entities.NewGrid(width, height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			grid[y][x] = entities.MapCell{Type: entities.CellFloor, IsExplored: true}
		}
	}
	return &WorldBuilder{
		world: &entities.World{
			DungeonLevel: 1,
			Name:         "The Sunken Crypt",
			Description:  "Water drips from cracked stone.",
			Map:          grid,
			Monsters:     []entities.Monster{},
			Vendors:      []entities.Vendor{},
		},
	}
}

// WithLevel sets the dungeon level
func (b *WorldBuilder) WithLevel(level int) *WorldBuilder {
	b.world.DungeonLevel = level
	return b
}

// WithCell overwrites a single cell
func (b *WorldBuilder) WithCell(x, y int, cell entities.MapCell) *WorldBuilder {
	b.world.Map[y][x] = cell
	return b
}

// WithMonster adds a monster to the roster and places it
func (b *WorldBuilder) WithMonster(x, y int, m entities.Monster, questTarget bool) *WorldBuilder {
	b.world.Monsters = append(b.world.Monsters, m)
	b.world.Map[y][x] = entities.MapCell{Type: entities.CellMonster, IsExplored: true, EntityID: m.ID, IsQuestTarget: questTarget}
	return b
}

// WithVendor adds a vendor and places it
func (b *WorldBuilder) WithVendor(x, y int, v entities.Vendor) *WorldBuilder {
	b.world.Vendors = append(b.world.Vendors, v)
	b.world.Map[y][x] = entities.MapCell{Type: entities.CellVendor, IsExplored: true, EntityID: v.ID}
	return b
}

// WithQuest sets the active quest
func (b *WorldBuilder) WithQuest(q entities.QuestObjective) *WorldBuilder {
	b.world.Quest = &q
	return b
}

// Build returns a copy of the built world
func (b *WorldBuilder) Build() *entities.World {
	return b.world.Clone()
}
