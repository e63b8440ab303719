package entities

// MaxLogEntries bounds both the world log and the combat log
const MaxLogEntries = 100

// GamePhase is the top-level screen the game is on
type GamePhase string

const (
	PhaseMenu              GamePhase = "menu"
	PhaseCharacterCreation GamePhase = "characterCreation"
	PhasePlaying           GamePhase = "playing"
)

// ModalKind identifies the dialog covering the map
type ModalKind string

const (
	ModalQuest     ModalKind = "quest"
	ModalLevelUp   ModalKind = "levelUp"
	ModalVendor    ModalKind = "vendor"
	ModalInventory ModalKind = "inventory"
	ModalDeath     ModalKind = "death"
)

// Modal is an open dialog. VendorID binds a vendor dialog to the live
// vendor in the world rather than a copy of its stock.
type Modal struct {
	Kind     ModalKind `json:"kind"`
	VendorID string    `json:"vendorId,omitempty"`
}

// CombatState exists only while a fight is on
type CombatState struct {
	Monster    Monster  `json:"monster"`
	PlayerTurn bool     `json:"playerTurn"`
	CombatLog  []string `json:"combatLog"`
}

// GameSettings are toggles passed through to the content generator
type GameSettings struct {
	UseImagen bool `json:"useImagen"`
}

// DefaultSettings returns the settings of a fresh game
func DefaultSettings() GameSettings {
	return GameSettings{UseImagen: true}
}

// CharacterDraft is a generated hero waiting for the player to confirm it
type CharacterDraft struct {
	Name      string         `json:"name"`
	Class     CharacterClass `json:"characterClass"`
	Backstory string         `json:"backstory"`
	Stats     BaseStats      `json:"stats"`
	ImageURL  string         `json:"imageUrl,omitempty"`
}

// GameState is everything a session knows. It is the unit the engine
// reduces and the codec persists.
type GameState struct {
	Phase        GamePhase       `json:"gamePhase"`
	Player       *Player         `json:"player"`
	World        *World          `json:"world"`
	Log          []string        `json:"log"`
	Loading      bool            `json:"isLoading"`
	Modal        *Modal          `json:"modal,omitempty"`
	CombatState  *CombatState    `json:"combatState"`
	Paused       bool            `json:"isPaused"`
	Settings     GameSettings    `json:"settings"`
	LevelUpOffer []Ability       `json:"levelUpOffer,omitempty"`
	Draft        *CharacterDraft `json:"draft,omitempty"`
}

// NewGameState returns the state shown on the main menu
func NewGameState() GameState {
	return GameState{
		Phase:    PhaseMenu,
		Log:      []string{"Welcome to Gemini RPG!"},
		Settings: DefaultSettings(),
	}
}

// IsDead reports whether the final-death dialog is up
func (s *GameState) IsDead() bool {
	return s.Modal != nil && s.Modal.Kind == ModalDeath
}

// AddLog appends to the world log, keeping the newest MaxLogEntries
func (s *GameState) AddLog(msg string) {
	s.Log = appendBounded(s.Log, msg)
}

// AddCombatLog appends to the combat log when a fight is on, otherwise to
// the world log.
func (s *GameState) AddCombatLog(msg string) {
	if s.CombatState == nil {
		s.AddLog(msg)
		return
	}
	s.CombatState.CombatLog = appendBounded(s.CombatState.CombatLog, msg)
}

func appendBounded(log []string, msg string) []string {
	log = append(log, msg)
	if len(log) > MaxLogEntries {
		log = append([]string(nil), log[len(log)-MaxLogEntries:]...)
	}
	return log
}

// Clone returns a deep copy, so a reduction never aliases its input
func (s GameState) Clone() GameState {
	c := s
	c.Player = s.Player.Clone()
	c.World = s.World.Clone()
	if s.Log != nil {
		c.Log = append([]string(nil), s.Log...)
	}
	if s.Modal != nil {
		m := *s.Modal
		c.Modal = &m
	}
	if s.CombatState != nil {
		cs := *s.CombatState
		cs.CombatLog = append([]string(nil), s.CombatState.CombatLog...)
		c.CombatState = &cs
	}
	if s.LevelUpOffer != nil {
		c.LevelUpOffer = append([]Ability(nil), s.LevelUpOffer...)
	}
	if s.Draft != nil {
		d := *s.Draft
		c.Draft = &d
	}
	return c
}
