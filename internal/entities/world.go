package entities

const (
	// MapWidth and MapHeight are the fixed dungeon grid dimensions
	MapWidth  = 20
	MapHeight = 20

	// TriggeredTrapID marks a trap cell that already fired
	TriggeredTrapID = "triggered"

	// QuestTargetExit is the quest target meaning "reach the exit"
	QuestTargetExit = "exit"
)

// CellType is what occupies a map cell
type CellType string

const (
	CellFloor   CellType = "floor"
	CellWall    CellType = "wall"
	CellMonster CellType = "monster"
	CellChest   CellType = "chest"
	CellVendor  CellType = "vendor"
	CellExit    CellType = "exit"
	CellTrap    CellType = "trap"
)

// MapCell is one grid square
type MapCell struct {
	Type          CellType `json:"type"`
	IsExplored    bool     `json:"isExplored"`
	EntityID      string   `json:"entityId,omitempty"`
	IsQuestTarget bool     `json:"isQuestTarget,omitempty"`
}

// IsTriggeredTrap reports whether the cell is a trap that already fired
func (c MapCell) IsTriggeredTrap() bool {
	return c.Type == CellTrap && c.EntityID == TriggeredTrapID
}

// Monster is an enemy placed on the map
type Monster struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Level       int    `json:"level"`
	HP          int    `json:"hp"`
	MaxHP       int    `json:"maxHp"`
	ImageURL    string `json:"imageUrl,omitempty"`
	ImagePrompt string `json:"imageGenPrompt,omitempty"`
}

// Vendor sells and buys items. Its stock is live world state.
type Vendor struct {
	ID        string `json:"id"`
	Inventory []Item `json:"inventory"`
}

// QuestObjective is the active goal of a dungeon level
type QuestObjective struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Objective   string `json:"objective"`
	XPReward    int    `json:"xpReward"`
	IsCompleted bool   `json:"isCompleted"`
	TargetID    string `json:"targetId"`
}

// World is one dungeon level. It is replaced wholesale on each descent.
type World struct {
	DungeonLevel       int             `json:"dungeonLevel"`
	Name               string          `json:"name,omitempty"`
	Description        string          `json:"description"`
	BackgroundImageURL string          `json:"backgroundImageUrl"`
	Map                [][]MapCell     `json:"map"`
	Monsters           []Monster       `json:"monsters"`
	Vendors            []Vendor        `json:"vendors"`
	Quest              *QuestObjective `json:"quest"`
}

// InBounds reports whether a coordinate lies on the grid
func (w *World) InBounds(x, y int) bool {
	return y >= 0 && y < len(w.Map) && x >= 0 && x < len(w.Map[y])
}

// Cell returns a pointer to the cell at x,y. Callers check InBounds first.
func (w *World) Cell(x, y int) *MapCell {
	return &w.Map[y][x]
}

// FindMonster returns the index of a monster in the roster, or -1
func (w *World) FindMonster(id string) int {
	for idx := range w.Monsters {
		if w.Monsters[idx].ID == id {
			return idx
		}
	}
	return -1
}

// FindVendor returns the index of a vendor, or -1
func (w *World) FindVendor(id string) int {
	for idx := range w.Vendors {
		if w.Vendors[idx].ID == id {
			return idx
		}
	}
	return -1
}

// Clone returns a deep copy
func (w *World) Clone() *World {
	if w == nil {
		return nil
	}
	c := *w
	if w.Map != nil {
		c.Map = make([][]MapCell, len(w.Map))
		for y := range w.Map {
			c.Map[y] = append([]MapCell(nil), w.Map[y]...)
		}
	}
	if w.Monsters != nil {
		c.Monsters = append([]Monster(nil), w.Monsters...)
	}
	if w.Vendors != nil {
		c.Vendors = make([]Vendor, len(w.Vendors))
		for idx, v := range w.Vendors {
			c.Vendors[idx] = Vendor{ID: v.ID, Inventory: CloneItems(v.Inventory)}
		}
	}
	if w.Quest != nil {
		q := *w.Quest
		c.Quest = &q
	}
	return &c
}

// NewGrid returns a grid filled with explored walls
func NewGrid(width, height int) [][]MapCell {
	grid := make([][]MapCell, height)
	for y := range grid {
		grid[y] = make([]MapCell, width)
		for x := range grid[y] {
			grid[y][x] = MapCell{Type: CellWall, IsExplored: true}
		}
	}
	return grid
}
