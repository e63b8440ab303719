package savestate_test

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"

	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
	"github.com/irmakh/gemini-rpg/internal/savestate"
	"github.com/irmakh/gemini-rpg/internal/testutils"
	"github.com/irmakh/gemini-rpg/internal/testutils/builders"
)

const legacySave = `{
  "gamePhase": "menu",
  "isPaused": true,
  "player": {
    "name": "Old Timer",
    "characterClass": "Rogue",
    "level": 2,
    "xp": 5,
    "xpToNextLevel": 60,
    "hp": 25,
    "maxHp": 31,
    "position": {"x": 1, "y": 1},
    "stats": {"strength": 11, "dexterity": 11, "intelligence": 12},
    "inventory": [{"id": "p1", "name": "Healing Draught", "type": "potion", "healAmount": 20}],
    "hasPendingLevelUp": true
  },
  "world": {
    "dungeonLevel": 2,
    "description": "Old halls",
    "backgroundImageUrl": "",
    "map": [
      [{"type": "wall", "isExplored": true}, {"type": "wall", "isExplored": true}, {"type": "wall", "isExplored": true}],
      [{"type": "wall", "isExplored": true}, {"type": "floor", "isExplored": true}, {"type": "wall", "isExplored": true}],
      [{"type": "wall", "isExplored": true}, {"type": "wall", "isExplored": true}, {"type": "wall", "isExplored": true}]
    ],
    "monsters": [],
    "quest": null
  },
  "log": ["Saved long ago"]
}`

type CodecTestSuite struct {
	suite.Suite
}

func TestCodecSuite(t *testing.T) {
	suite.Run(t, new(CodecTestSuite))
}

func (s *CodecTestSuite) game() entities.GameState {
	gs := entities.NewGameState()
	gs.Phase = entities.PhasePlaying
	gs.Player = builders.NewPlayerBuilder().
		WithItems(testutils.HealingDraught(3)).
		WithAbilities(testutils.Fireball()).
		WithEquipped(testutils.IronSword()).
		WithPendingLevelUps(1).
		Build()
	gs.World = builders.NewWorldBuilder(6, 6).
		WithMonster(3, 3, testutils.Goblin("m_1"), true).
		WithVendor(4, 4, entities.Vendor{ID: "v_1", Inventory: []entities.Item{testutils.ManaTonic(2)}}).
		WithQuest(entities.QuestObjective{ID: "q", Title: "Cull", TargetID: "m_1"}).
		Build()
	gs.Settings.UseImagen = false
	gs.Modal = &entities.Modal{Kind: entities.ModalInventory}
	return gs
}

func (s *CodecTestSuite) TestRoundTrip() {
	gs := s.game()

	data, err := savestate.Encode(gs)
	s.Require().NoError(err)
	s.Equal(int64(savestate.Version), gjson.GetBytes(data, "version").Int())
	s.False(gjson.GetBytes(data, "isLoading").Exists())

	decoded, err := savestate.Decode(data)
	s.Require().NoError(err)

	s.Equal(gs.Player, decoded.Player)
	s.Equal(gs.World, decoded.World)
	s.Equal(gs.Log, decoded.Log)
	s.Equal(gs.Settings, decoded.Settings)
	s.Nil(decoded.Modal)
	s.Equal(entities.PhasePlaying, decoded.Phase)
}

func (s *CodecTestSuite) TestRoundTripKeepsCombat() {
	gs := s.game()
	gs.CombatState = &entities.CombatState{Monster: testutils.Goblin("m_1"), PlayerTurn: true, CombatLog: []string{"Fight!"}}

	data, err := savestate.Encode(gs)
	s.Require().NoError(err)
	decoded, err := savestate.Decode(data)
	s.Require().NoError(err)

	s.Equal(gs.CombatState, decoded.CombatState)
}

func (s *CodecTestSuite) TestEncodeWithoutGame() {
	_, err := savestate.Encode(entities.NewGameState())
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *CodecTestSuite) TestDecodeLegacySave() {
	gs, err := savestate.Decode([]byte(legacySave))
	s.Require().NoError(err)

	s.Equal(entities.PhasePlaying, gs.Phase)
	s.False(gs.Paused)
	s.False(gs.Loading)
	s.Nil(gs.CombatState)
	s.Equal(entities.DefaultSettings(), gs.Settings)

	p := gs.Player
	s.Equal(1, p.PendingLevelUps)
	s.Equal(22, p.MaxMana)
	s.Equal(22, p.Mana)
	s.Equal(31, p.MaxHP)
	s.Equal(25, p.HP)
	s.Equal(0, p.Gold)
	s.Equal(entities.Equipment{}, p.Equipment)
	s.NotNil(p.Abilities)
	s.Empty(p.Abilities)
	s.Require().Len(p.Inventory, 1)
	s.Equal(1, p.Inventory[0].Quantity)

	s.NotNil(gs.World.Vendors)
	s.Empty(gs.World.Vendors)
	s.Equal([]string{"Saved long ago"}, gs.Log)
}

func (s *CodecTestSuite) TestDecodeDeadPlayer() {
	gs := s.game()
	gs.Player.HP = 0

	data, err := savestate.Encode(gs)
	s.Require().NoError(err)
	decoded, err := savestate.Decode(data)
	s.Require().NoError(err)

	s.True(decoded.IsDead())
}

func (s *CodecTestSuite) TestDecodeCorrupt() {
	testCases := []struct {
		name string
		data string
	}{
		{"not json", "definitely not a save"},
		{"truncated", legacySave[:120]},
		{"array", `[1, 2, 3]`},
		{"no world", `{"player": {"name": "x", "level": 1, "position": {"x": 0, "y": 0}}}`},
		{"empty map", `{"player": {"level": 1, "position": {"x": 0, "y": 0}}, "world": {"map": []}}`},
		{"player off the map", `{"player": {"level": 1, "position": {"x": 5, "y": 0}}, "world": {"map": [[{"type": "floor"}]]}}`},
		{"wrong types", `{"player": {"level": "high"}, "world": {"map": [[{"type": "floor"}]]}}`},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := savestate.Decode([]byte(tc.data))
			s.Require().Error(err)
			s.True(errors.IsDataLoss(err))
		})
	}
}
