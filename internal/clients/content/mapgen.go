package content

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
)

const (
	minRooms      = 5
	extraRooms    = 3
	minRoomSize   = 4
	roomSizeRange = 4

	chestsPerLevel = 3
	trapsPerLevel  = 3

	// placement falls back to a row scan after this many random tries
	maxPlacementProbes = 200
)

// Placement is one entity to drop onto a free floor cell
type Placement struct {
	Type        entities.CellType
	EntityID    string
	QuestTarget bool
}

type room struct {
	x, y, w, h int
}

func (r room) center() (int, int) {
	return r.x + r.w/2, r.y + r.h/2
}

// Mapper lays out dungeon levels. Rooms are carved into a walled grid and
// joined in creation order by L-shaped corridors, then entities are
// dropped on free floor cells.
type Mapper struct {
	roller dice.Roller
	width  int
	height int
}

// NewMapper returns a mapper for the standard grid size
func NewMapper(roller dice.Roller) (*Mapper, error) {
	if roller == nil {
		return nil, errors.InvalidArgument("roller is required")
	}
	return &Mapper{roller: roller, width: entities.MapWidth, height: entities.MapHeight}, nil
}

// Layout builds a map holding the given monsters in order, the vendor,
// three chests, three traps and one exit. The last monster is tagged as
// the quest target.
func (m *Mapper) Layout(monsterIDs []string, vendorID string) ([][]entities.MapCell, error) {
	grid, err := m.carve()
	if err != nil {
		return nil, err
	}

	placements := make([]Placement, 0, len(monsterIDs)+chestsPerLevel+trapsPerLevel+2)
	for idx, id := range monsterIDs {
		placements = append(placements, Placement{
			Type:        entities.CellMonster,
			EntityID:    id,
			QuestTarget: idx == len(monsterIDs)-1,
		})
	}
	if vendorID != "" {
		placements = append(placements, Placement{Type: entities.CellVendor, EntityID: vendorID})
	}
	for i := 0; i < chestsPerLevel; i++ {
		placements = append(placements, Placement{Type: entities.CellChest})
	}
	for i := 0; i < trapsPerLevel; i++ {
		placements = append(placements, Placement{Type: entities.CellTrap})
	}
	placements = append(placements, Placement{Type: entities.CellExit})

	for _, p := range placements {
		if err := m.place(grid, p); err != nil {
			return nil, err
		}
	}
	return grid, nil
}

func (m *Mapper) carve() ([][]entities.MapCell, error) {
	grid := entities.NewGrid(m.width, m.height)

	n, err := m.intn(extraRooms)
	if err != nil {
		return nil, err
	}
	var prev *room
	for i := 0; i < minRooms+n; i++ {
		r, err := m.room()
		if err != nil {
			return nil, err
		}
		for y := r.y; y < r.y+r.h; y++ {
			for x := r.x; x < r.x+r.w; x++ {
				grid[y][x] = entities.MapCell{Type: entities.CellFloor, IsExplored: true}
			}
		}
		if prev != nil {
			px, py := prev.center()
			cx, cy := r.center()
			for x := min(px, cx); x <= max(px, cx); x++ {
				grid[py][x] = entities.MapCell{Type: entities.CellFloor, IsExplored: true}
			}
			for y := min(py, cy); y <= max(py, cy); y++ {
				grid[y][cx] = entities.MapCell{Type: entities.CellFloor, IsExplored: true}
			}
		}
		prev = &r
	}
	return grid, nil
}

func (m *Mapper) room() (room, error) {
	w, err := m.intn(roomSizeRange)
	if err != nil {
		return room{}, err
	}
	h, err := m.intn(roomSizeRange)
	if err != nil {
		return room{}, err
	}
	w += minRoomSize
	h += minRoomSize
	x, err := m.intn(m.width - w - 2)
	if err != nil {
		return room{}, err
	}
	y, err := m.intn(m.height - h - 2)
	if err != nil {
		return room{}, err
	}
	return room{x: x + 1, y: y + 1, w: w, h: h}, nil
}

func (m *Mapper) place(grid [][]entities.MapCell, p Placement) error {
	cell := entities.MapCell{
		Type:          p.Type,
		IsExplored:    true,
		EntityID:      p.EntityID,
		IsQuestTarget: p.QuestTarget,
	}

	for i := 0; i < maxPlacementProbes; i++ {
		x, err := m.intn(m.width - 2)
		if err != nil {
			return err
		}
		y, err := m.intn(m.height - 2)
		if err != nil {
			return err
		}
		if free(grid[y+1][x+1]) {
			grid[y+1][x+1] = cell
			return nil
		}
	}

	for y := 1; y < m.height-1; y++ {
		for x := 1; x < m.width-1; x++ {
			if free(grid[y][x]) {
				grid[y][x] = cell
				return nil
			}
		}
	}
	return errors.Internalf("no free floor left for %s", p.Type)
}

func free(c entities.MapCell) bool {
	return c.Type == entities.CellFloor && c.EntityID == ""
}

// intn returns a value in [0,n)
func (m *Mapper) intn(n int) (int, error) {
	if n <= 1 {
		return 0, nil
	}
	v, err := m.roller.Roll(n)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll")
	}
	return v - 1, nil
}
