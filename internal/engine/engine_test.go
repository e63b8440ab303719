package engine_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/irmakh/gemini-rpg/internal/clients/content"
	contentmock "github.com/irmakh/gemini-rpg/internal/clients/content/mock"
	"github.com/irmakh/gemini-rpg/internal/engine"
	"github.com/irmakh/gemini-rpg/internal/engine/combat"
	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
	"github.com/irmakh/gemini-rpg/internal/pkg/idgen"
	"github.com/irmakh/gemini-rpg/internal/testutils"
	"github.com/irmakh/gemini-rpg/internal/testutils/builders"
)

type EngineTestSuite struct {
	suite.Suite
	ctx    context.Context
	engine engine.Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) SetupTest() {
	s.ctx = context.Background()
	eng, err := engine.New(&engine.Config{IDGenerator: idgen.NewSequential("item")})
	s.Require().NoError(err)
	s.engine = eng
}

func (s *EngineTestSuite) reduce(state entities.GameState, ev engine.Event) *engine.ReduceOutput {
	out, err := s.engine.Reduce(s.ctx, &engine.ReduceInput{State: state, Event: ev})
	s.Require().NoError(err, "reducing %s", ev.EventName())
	return out
}

func (s *EngineTestSuite) lastLog(gs entities.GameState) string {
	return gs.Log[len(gs.Log)-1]
}

// playing builds a game in progress on an 8x8 floor with the player at 1,1
func (s *EngineTestSuite) playing(mutate func(*builders.WorldBuilder)) entities.GameState {
	wb := builders.NewWorldBuilder(8, 8)
	if mutate != nil {
		mutate(wb)
	}
	gs := entities.NewGameState()
	gs.Phase = entities.PhasePlaying
	gs.Player = builders.NewPlayerBuilder().Build()
	gs.World = wb.Build()
	return gs
}

func (s *EngineTestSuite) TestNew() {
	_, err := engine.New(nil)
	s.Error(err)

	_, err = engine.New(&engine.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *EngineTestSuite) TestCharacterCreationFlow() {
	out := s.reduce(entities.NewGameState(), engine.NewGame{})
	s.Equal(entities.PhaseCharacterCreation, out.State.Phase)

	s.Run("blank name is rejected", func() {
		_, err := s.engine.Reduce(s.ctx, &engine.ReduceInput{State: out.State, Event: engine.CreateCharacter{Name: "  ", Class: entities.ClassMage}})
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("unknown class is rejected", func() {
		_, err := s.engine.Reduce(s.ctx, &engine.ReduceInput{State: out.State, Event: engine.CreateCharacter{Name: "Aria", Class: "Bard"}})
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
		s.Contains(err.Error(), "class: must be one of: Warrior, Mage, Rogue")
	})

	out = s.reduce(out.State, engine.CreateCharacter{Name: "Aria", Class: entities.ClassMage})
	s.True(out.State.Loading)
	s.Require().Len(out.Effects, 1)
	s.IsType(engine.GenerateCharacter{}, out.Effects[0])

	_, err := s.engine.Reduce(s.ctx, &engine.ReduceInput{State: out.State, Event: engine.CreateCharacter{Name: "Aria", Class: entities.ClassMage}})
	s.True(errors.IsFailedPrecondition(err), "loading blocks commands")

	out = s.reduce(out.State, engine.CharacterGenerated{
		Name:  "Aria",
		Class: entities.ClassMage,
		Result: &content.CharacterResult{
			Backstory:   "Raised by wolves.",
			Stats:       entities.BaseStats{Strength: 8, Dexterity: 12, Intelligence: 15},
			ImagePrompt: "a young mage",
		},
	})
	s.Require().NotNil(out.State.Draft)
	s.Equal("Raised by wolves.", out.State.Draft.Backstory)
	s.Require().Len(out.Effects, 1)
	img, ok := out.Effects[0].(engine.GenerateImage)
	s.Require().True(ok)
	s.Equal(engine.ImageCharacter, img.Target)
	s.True(img.Request.Enabled)

	out = s.reduce(out.State, engine.ImageGenerated{Target: engine.ImageCharacter, URL: "https://img/aria.png"})
	s.False(out.State.Loading)
	s.Equal("https://img/aria.png", out.State.Draft.ImageURL)

	out = s.reduce(out.State, engine.ConfirmCharacter{})
	s.Equal(entities.PhasePlaying, out.State.Phase)
	s.Require().NotNil(out.State.Player)
	s.Equal(28, out.State.Player.MaxHP)
	s.Equal(25, out.State.Player.MaxMana)
	s.Equal("https://img/aria.png", out.State.Player.ImageURL)
	s.Equal([]string{"Welcome, Aria! Your journey begins.", "Raised by wolves.", "Descending to dungeon level 1..."}, out.State.Log)
	s.Require().Len(out.Effects, 1)
	dungeon, ok := out.Effects[0].(engine.GenerateDungeon)
	s.Require().True(ok)
	s.Equal(1, dungeon.Request.Level)
}

func (s *EngineTestSuite) TestCharacterGenerationFailure() {
	gs := entities.NewGameState()
	gs.Phase = entities.PhaseCharacterCreation
	gs.Loading = true

	out := s.reduce(gs, engine.CharacterGenerated{Name: "Aria", Err: fmt.Errorf("boom")})

	s.False(out.State.Loading)
	s.Nil(out.State.Draft)
	s.Equal("The threads of fate are tangled. Could not create your hero. Please try again.", s.lastLog(out.State))
}

func (s *EngineTestSuite) TestResultWithoutOutstandingCall() {
	_, err := s.engine.Reduce(s.ctx, &engine.ReduceInput{
		State: s.playing(nil),
		Event: engine.LootGenerated{X: 1, Y: 1},
	})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *EngineTestSuite) TestDungeonGenerated() {
	gs := s.playing(nil)
	gs.World = nil
	gs.Loading = true

	grid := entities.NewGrid(entities.MapWidth, entities.MapHeight)
	grid[1][2] = entities.MapCell{Type: entities.CellFloor}
	grid[1][3] = entities.MapCell{Type: entities.CellMonster, EntityID: "m_1"}

	out := s.reduce(gs, engine.DungeonGenerated{Level: 1, Result: &content.DungeonResult{
		Name:        "Moss Hall",
		Description: "Green light.",
		ImagePrompt: "a mossy hall",
		Quest:       content.QuestSeed{ID: "q", Title: "Clear it"},
		Entities:    []content.MonsterSeed{{ID: "m_1", Name: "Slime", Level: 1}},
		Map:         grid,
	}})

	s.Require().NotNil(out.State.World)
	s.Equal(entities.Position{X: 2, Y: 1}, out.State.Player.Position)
	s.Equal(entities.ModalQuest, out.State.Modal.Kind)
	s.True(out.State.Loading, "background image is pending")
	s.Require().Len(out.Effects, 1)
	img := out.Effects[0].(engine.GenerateImage)
	s.Equal(engine.ImageBackground, img.Target)
	s.Equal(content.AspectWide, img.Request.Aspect)

	out = s.reduce(out.State, engine.ImageGenerated{Target: engine.ImageBackground, URL: "bg.png"})
	s.Equal("bg.png", out.State.World.BackgroundImageURL)
	s.Empty(out.Effects)

	out = s.reduce(out.State, engine.CloseModal{})
	s.Nil(out.State.Modal)
}

func (s *EngineTestSuite) TestDungeonFailureAndRetry() {
	gs := s.playing(nil)
	gs.World = nil
	gs.Loading = true

	out := s.reduce(gs, engine.DungeonGenerated{Level: 1, Err: fmt.Errorf("timeout")})
	s.False(out.State.Loading)
	s.Nil(out.State.World)
	s.Equal("Error: The ancient magic binding this dungeon is unstable. Please try again.", s.lastLog(out.State))

	out = s.reduce(out.State, engine.RetryDungeon{})
	s.Require().Len(out.Effects, 1)
	s.IsType(engine.GenerateDungeon{}, out.Effects[0])
}

func (s *EngineTestSuite) TestMoveWhileLoadingIsRejected() {
	gs := s.playing(nil)
	gs.Loading = true

	_, err := s.engine.Reduce(s.ctx, &engine.ReduceInput{State: gs, Event: engine.Move{DX: 1}})
	s.Require().Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *EngineTestSuite) TestEncounterLoadsPortraitOnce() {
	gs := s.playing(func(wb *builders.WorldBuilder) {
		wb.WithMonster(2, 1, testutils.Goblin("m_1"), false)
	})

	out := s.reduce(gs, engine.Move{DX: 1})
	s.Equal("You encounter a Goblin!", s.lastLog(out.State))
	s.Nil(out.State.CombatState)
	s.Require().Len(out.Effects, 1)
	img := out.Effects[0].(engine.GenerateImage)
	s.Equal("m_1", img.EntityID)

	out = s.reduce(out.State, engine.ImageGenerated{Target: engine.ImageMonster, EntityID: "m_1", URL: "goblin.png"})
	s.Require().NotNil(out.State.CombatState)
	s.Equal("goblin.png", out.State.CombatState.Monster.ImageURL)
	s.Equal("goblin.png", out.State.World.Monsters[0].ImageURL)

	s.Run("cached portrait starts combat directly", func() {
		again := out.State.Clone()
		again.CombatState = nil
		again.Player.Position = entities.Position{X: 1, Y: 1}

		next := s.reduce(again, engine.Move{DX: 1})
		s.Empty(next.Effects)
		s.NotNil(next.State.CombatState)
	})
}

func (s *EngineTestSuite) TestCombatRoundTrip() {
	gs := s.playing(func(wb *builders.WorldBuilder) {
		wb.WithMonster(2, 1, testutils.Goblin("m_1"), true).
			WithQuest(entities.QuestObjective{ID: "q", Title: "Cull", XPReward: 20, TargetID: "m_1"})
	})
	gs.Player.Position = entities.Position{X: 2, Y: 1}
	combat.Begin(&gs, gs.World.Monsters[0])

	out := s.reduce(gs, engine.CombatAction{Action: combat.Action{Kind: content.ActionAttack}})
	s.True(out.State.Loading)
	s.Require().Len(out.Effects, 1)
	s.IsType(engine.GenerateCombatAction{}, out.Effects[0])

	s.Run("generator failure returns the turn", func() {
		failed := s.reduce(out.State, engine.CombatResolved{Action: combat.Action{Kind: content.ActionAttack}, Err: fmt.Errorf("503")})
		s.True(failed.State.CombatState.PlayerTurn)
		s.Equal(30, failed.State.Player.HP)
		s.Equal(10, failed.State.CombatState.Monster.HP)
		s.False(failed.State.Loading)
	})

	out = s.reduce(out.State, engine.CombatResolved{
		Action: combat.Action{Kind: content.ActionAttack},
		Result: &content.CombatResult{Narration: "Slain.", MonsterDamage: 10, XPGained: 25, GoldGained: 10},
	})
	s.Nil(out.State.CombatState)
	s.Equal(2, out.State.Player.Level)
	s.Equal(1, out.State.Player.PendingLevelUps)
	s.Equal("A new challenge awaits...", s.lastLog(out.State))
	s.Require().Len(out.Effects, 1)
	quest := out.Effects[0].(engine.GenerateQuest)
	s.Empty(quest.Request.Remaining)

	out = s.reduce(out.State, engine.QuestGenerated{Result: &content.QuestResult{ID: "q2", Title: "Leave", TargetID: entities.QuestTargetExit}})
	s.Equal(entities.ModalQuest, out.State.Modal.Kind)
	s.Empty(out.Effects, "level-up waits for the dialog")

	out = s.reduce(out.State, engine.CloseModal{})
	s.Require().Len(out.Effects, 1)
	s.IsType(engine.GenerateAbilities{}, out.Effects[0])

	out = s.reduce(out.State, engine.AbilitiesGenerated{Abilities: []entities.Ability{
		testutils.Fireball(),
		{ID: "ability_frost", Name: "Frost", ManaCost: 5},
	}})
	s.Equal(entities.ModalLevelUp, out.State.Modal.Kind)
	s.Len(out.State.LevelUpOffer, 2)

	_, err := s.engine.Reduce(s.ctx, &engine.ReduceInput{State: out.State, Event: engine.CloseModal{}})
	s.Error(err, "level-up dialog cannot be dismissed")

	out = s.reduce(out.State, engine.ChooseAbility{AbilityID: "ability_frost"})
	s.Nil(out.State.Modal)
	s.Nil(out.State.LevelUpOffer)
	s.Equal(0, out.State.Player.PendingLevelUps)
	s.Equal(11, out.State.Player.Stats.Strength)
	s.Equal("You learned a new ability: Frost! Your stats have increased.", s.lastLog(out.State))
	s.Empty(out.Effects)
}

func (s *EngineTestSuite) TestNotEnoughManaIsLogged() {
	gs := s.playing(func(wb *builders.WorldBuilder) {
		wb.WithMonster(2, 1, testutils.Goblin("m_1"), false)
	})
	gs.Player.Abilities = []entities.Ability{testutils.Fireball()}
	gs.Player.Mana = 3
	combat.Begin(&gs, gs.World.Monsters[0])

	out := s.reduce(gs, engine.CombatAction{Action: combat.Action{Kind: content.ActionAbility, AbilityID: "ability_fireball"}})

	s.Empty(out.Effects)
	s.False(out.State.Loading)
	s.True(out.State.CombatState.PlayerTurn)
	log := out.State.CombatState.CombatLog
	s.Equal("Not enough mana!", log[len(log)-1])
}

func (s *EngineTestSuite) TestAbilitiesFallback() {
	gs := s.playing(nil)
	gs.Player.PendingLevelUps = 1
	gs.Loading = true

	out := s.reduce(gs, engine.AbilitiesGenerated{Err: fmt.Errorf("bad json")})

	s.Equal(0, out.State.Player.PendingLevelUps)
	s.Equal(11, out.State.Player.Stats.Intelligence)
	s.Require().Len(out.State.Player.Abilities, 1)
	s.True(out.State.Player.Abilities[0].StatOnly)
	s.Equal("The winds of knowledge are chaotic. You are unable to learn a new skill, but your stats have increased.", s.lastLog(out.State))
	s.Empty(out.Effects)
}

func (s *EngineTestSuite) TestChestAndTrap() {
	gs := s.playing(func(wb *builders.WorldBuilder) {
		wb.WithCell(2, 1, entities.MapCell{Type: entities.CellChest}).
			WithCell(1, 2, entities.MapCell{Type: entities.CellTrap})
	})

	s.Run("chest", func() {
		out := s.reduce(gs, engine.Move{DX: 1})
		s.Equal("You found a treasure chest!", s.lastLog(out.State))
		loot := out.Effects[0].(engine.GenerateLoot)
		s.Equal(2, loot.X)

		out = s.reduce(out.State, engine.LootGenerated{X: 2, Y: 1, Items: []entities.Item{testutils.HealingDraught(1)}})
		s.Len(out.State.Player.Inventory, 1)
		s.Equal(entities.CellFloor, out.State.World.Map[1][2].Type)
	})

	s.Run("sealed chest stays", func() {
		out := s.reduce(gs, engine.Move{DX: 1})
		out = s.reduce(out.State, engine.LootGenerated{X: 2, Y: 1, Err: fmt.Errorf("nope")})
		s.Equal("The chest is magically sealed and you cannot open it.", s.lastLog(out.State))
		s.Equal(entities.CellChest, out.State.World.Map[1][2].Type)
	})

	s.Run("trap", func() {
		out := s.reduce(gs, engine.Move{DY: 1})
		s.Equal(entities.Position{X: 1, Y: 1}, out.State.Player.Position)
		s.IsType(engine.TriggerTrap{}, out.Effects[0])

		out = s.reduce(out.State, engine.TrapTriggered{X: 1, Y: 2, Result: &content.TrapResult{Narration: "Darts!", Damage: 4}})
		s.Equal(26, out.State.Player.HP)
		s.True(out.State.World.Map[2][1].IsTriggeredTrap())
	})

	s.Run("avoided trap", func() {
		out := s.reduce(gs, engine.Move{DY: 1})
		out = s.reduce(out.State, engine.TrapTriggered{X: 1, Y: 2, Err: fmt.Errorf("nope")})
		s.Equal("You deftly avoid a hidden trap.", s.lastLog(out.State))
		s.False(out.State.World.Map[2][1].IsTriggeredTrap())
	})
}

func (s *EngineTestSuite) TestExitCompletesExitQuestAndDescends() {
	gs := s.playing(func(wb *builders.WorldBuilder) {
		wb.WithCell(2, 1, entities.MapCell{Type: entities.CellExit, IsQuestTarget: true}).
			WithQuest(entities.QuestObjective{ID: "q", Title: "Escape", XPReward: 10, TargetID: entities.QuestTargetExit})
	})

	out := s.reduce(gs, engine.Move{DX: 1})

	s.True(out.State.World.Quest.IsCompleted)
	s.Equal(10, out.State.Player.XP)
	s.Contains(out.State.Log, "Quest Complete: Escape! You earned 10 XP.")
	s.Equal("Descending to dungeon level 2...", s.lastLog(out.State))
	s.Equal(2, out.Effects[0].(engine.GenerateDungeon).Request.Level)
}

func (s *EngineTestSuite) TestVendorTrade() {
	vendor := entities.Vendor{ID: "v_1", Inventory: []entities.Item{testutils.IronSword()}}
	gs := s.playing(func(wb *builders.WorldBuilder) {
		wb.WithVendor(2, 1, vendor)
	})

	_, err := s.engine.Reduce(s.ctx, &engine.ReduceInput{State: gs, Event: engine.Buy{VendorID: "v_1", ItemID: testutils.TestSwordID}})
	s.Error(err, "trading needs the vendor dialog")

	out := s.reduce(gs, engine.Move{DX: 1})
	s.Equal(&entities.Modal{Kind: entities.ModalVendor, VendorID: "v_1"}, out.State.Modal)

	out = s.reduce(out.State, engine.Buy{VendorID: "v_1", ItemID: testutils.TestSwordID})
	s.Equal("You cannot afford that.", s.lastLog(out.State))
	s.Equal(25, out.State.Player.Gold)
	s.Len(out.State.World.Vendors[0].Inventory, 1)
}

func (s *EngineTestSuite) TestInventoryCommands() {
	gs := s.playing(nil)
	gs.Player.Inventory = []entities.Item{testutils.IronSword(), testutils.HealingDraught(1)}
	gs.Player.HP = 10

	out := s.reduce(gs, engine.OpenInventory{})
	s.Equal(entities.ModalInventory, out.State.Modal.Kind)

	out = s.reduce(out.State, engine.Equip{ItemID: testutils.TestSwordID})
	s.Equal("Equipped Iron Sword.", s.lastLog(out.State))
	s.Equal(35, out.State.Player.MaxHP)
	s.Equal(15, out.State.Player.HP)

	out = s.reduce(out.State, engine.UsePotion{ItemID: testutils.TestPotionID})
	s.Equal("You use the Healing Draught and restored 20 health.", s.lastLog(out.State))
	s.Equal(35, out.State.Player.HP)

	out = s.reduce(out.State, engine.Equip{ItemID: "nothing"})
	s.Equal("You don't have that item.", s.lastLog(out.State))

	out = s.reduce(out.State, engine.Unequip{Slot: entities.SlotWeapon})
	s.Equal("Unequipped Iron Sword.", s.lastLog(out.State))
	s.Equal(30, out.State.Player.MaxHP)
}

func (s *EngineTestSuite) TestPauseAndMenu() {
	gs := s.playing(nil)

	out := s.reduce(gs, engine.TogglePause{})
	s.True(out.State.Paused)

	_, err := s.engine.Reduce(s.ctx, &engine.ReduceInput{State: out.State, Event: engine.Move{DX: 1}})
	s.Error(err)

	out = s.reduce(out.State, engine.ReturnToMenu{})
	s.Equal(entities.PhaseMenu, out.State.Phase)
	s.False(out.State.Paused)

	out = s.reduce(out.State, engine.ContinueGame{})
	s.Equal(entities.PhasePlaying, out.State.Phase)
}

func (s *EngineTestSuite) TestDeathOnlyAllowsRestart() {
	gs := s.playing(nil)
	gs.Player.HP = 0
	gs.Modal = &entities.Modal{Kind: entities.ModalDeath}

	for _, ev := range []engine.Event{engine.Move{DX: 1}, engine.CloseModal{}, engine.TogglePause{}, engine.OpenInventory{}} {
		_, err := s.engine.Reduce(s.ctx, &engine.ReduceInput{State: gs, Event: ev})
		s.Error(err, ev.EventName())
	}

	out := s.reduce(gs, engine.NewGame{})
	s.Equal(entities.PhaseCharacterCreation, out.State.Phase)
	s.Nil(out.State.Player)
}

func (s *EngineTestSuite) TestLoadState() {
	saved := s.playing(nil)
	saved.Phase = entities.PhaseMenu
	saved.Paused = true

	out := s.reduce(entities.NewGameState(), engine.LoadState{State: saved})
	s.Equal(entities.PhasePlaying, out.State.Phase)
	s.False(out.State.Paused)
	s.Equal("Game loaded successfully.", s.lastLog(out.State))

	out = s.reduce(out.State, engine.LoadFailed{})
	s.Equal("Error: The save file is corrupted or invalid.", s.lastLog(out.State))
	s.Equal(entities.PhasePlaying, out.State.Phase)
}

func (s *EngineTestSuite) TestImageEffectFallsBackToPlaceholder() {
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()
	client := contentmock.NewMockClient(ctrl)

	effect := engine.GenerateImage{
		Target:   engine.ImageMonster,
		EntityID: "m_1",
		Request:  &content.ImageRequest{Prompt: "a goblin", Aspect: content.AspectSquare, Enabled: true},
	}
	client.EXPECT().GenerateImage(gomock.Any(), effect.Request).Return("", fmt.Errorf("quota"))

	ev := effect.Execute(s.ctx, client)

	s.Equal(engine.ImageGenerated{
		Target:   engine.ImageMonster,
		EntityID: "m_1",
		URL:      "https://dummyimage.com/512x512/1e293b/94a3b8.png&text=Image+Unavailable",
	}, ev)
}

func (s *EngineTestSuite) TestDungeonEffectCarriesLevel() {
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()
	client := contentmock.NewMockClient(ctrl)

	req := &content.DungeonRequest{Level: 3}
	client.EXPECT().GenerateDungeon(gomock.Any(), req).Return(nil, fmt.Errorf("down"))

	ev := engine.GenerateDungeon{Request: req}.Execute(s.ctx, client)

	generated, ok := ev.(engine.DungeonGenerated)
	s.Require().True(ok)
	s.Equal(3, generated.Level)
	s.Error(generated.Err)
}
