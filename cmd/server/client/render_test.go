package client

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/irmakh/gemini-rpg/internal/entities"
)

func TestRenderMap(t *testing.T) {
	grid := entities.NewGrid(3, 2)
	grid[0][0] = entities.MapCell{Type: entities.CellWall, IsExplored: true}
	grid[0][1] = entities.MapCell{Type: entities.CellFloor, IsExplored: true}
	grid[0][2] = entities.MapCell{Type: entities.CellMonster, IsExplored: true, EntityID: "m1"}
	grid[1][0] = entities.MapCell{Type: entities.CellTrap, IsExplored: true, EntityID: entities.TriggeredTrapID}
	grid[1][1] = entities.MapCell{Type: entities.CellChest, IsExplored: false}
	grid[1][2] = entities.MapCell{Type: entities.CellExit, IsExplored: true}

	w := &entities.World{Map: grid}
	p := &entities.Player{Position: entities.Position{X: 1, Y: 0}}

	assert.Equal(t, "#@M\n. E\n", renderMap(w, p))
}

func TestTail(t *testing.T) {
	assert.Equal(t, []string{"a"}, tail([]string{"a"}, 3))
	assert.Equal(t, []string{"c", "d"}, tail([]string{"a", "b", "c", "d"}, 2))
}
