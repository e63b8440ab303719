package content_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/irmakh/gemini-rpg/internal/clients/content"
	"github.com/irmakh/gemini-rpg/internal/engine/stats"
	"github.com/irmakh/gemini-rpg/internal/engine/world"
	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
	"github.com/irmakh/gemini-rpg/internal/pkg/idgen"
	"github.com/irmakh/gemini-rpg/internal/testutils"
	"github.com/irmakh/gemini-rpg/internal/testutils/builders"
)

var errBoom = errors.Internal("boom")

func statsWithStrength(n int) stats.Totals {
	return stats.Totals{Strength: n}
}

type OfflineTestSuite struct {
	suite.Suite
	ctx context.Context
}

func TestOfflineSuite(t *testing.T) {
	suite.Run(t, new(OfflineTestSuite))
}

func (s *OfflineTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *OfflineTestSuite) client(values ...int) *content.OfflineClient {
	c, err := content.NewOffline(&content.OfflineConfig{
		Roller:      testutils.NewStubRoller(values...),
		IDGenerator: idgen.NewSequential("gen"),
	})
	s.Require().NoError(err)
	return c
}

func (s *OfflineTestSuite) TestNewOfflineValidation() {
	s.Run("nil config", func() {
		_, err := content.NewOffline(nil)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("missing roller", func() {
		_, err := content.NewOffline(&content.OfflineConfig{IDGenerator: idgen.NewSequential("")})
		s.Error(err)
	})
}

func (s *OfflineTestSuite) TestGenerateCharacter() {
	c := s.client(1)

	for _, class := range []entities.CharacterClass{entities.ClassWarrior, entities.ClassMage, entities.ClassRogue} {
		res, err := c.GenerateCharacter(s.ctx, &content.CharacterRequest{Name: "Aria", Class: class})
		s.Require().NoError(err)

		st := res.Stats
		s.Equal(30, st.Strength+st.Dexterity+st.Intelligence, string(class))
		s.Contains(res.Backstory, "Aria")
		s.NotEmpty(res.ImagePrompt)

		switch class {
		case entities.ClassWarrior:
			s.Equal(13, st.Strength)
		case entities.ClassMage:
			s.Equal(13, st.Intelligence)
		case entities.ClassRogue:
			s.Equal(13, st.Dexterity)
		}
	}
}

func (s *OfflineTestSuite) TestGenerateCharacterRollerFailure() {
	roller := testutils.NewStubRoller(1)
	roller.Err = errBoom
	c, err := content.NewOffline(&content.OfflineConfig{Roller: roller, IDGenerator: idgen.NewSequential("")})
	s.Require().NoError(err)

	_, err = c.GenerateCharacter(s.ctx, &content.CharacterRequest{Name: "Aria", Class: entities.ClassMage})
	s.Error(err)
}

func (s *OfflineTestSuite) TestGenerateDungeon() {
	s.Run("level one has two regulars and a boss", func() {
		res, err := s.client(2, 5, 1, 3).GenerateDungeon(s.ctx, &content.DungeonRequest{Level: 1})
		s.Require().NoError(err)

		s.Require().Len(res.Entities, 3)
		boss := res.Entities[2]
		s.True(boss.IsQuestTarget)
		s.Equal(2, boss.Level)
		s.False(res.Entities[0].IsQuestTarget)
		s.Equal(50, res.Quest.XPReward)

		s.Require().Len(res.Vendor.Inventory, 5)
		for _, item := range res.Vendor.Inventory {
			s.Positive(item.BuyPrice, item.Name)
			s.Equal(item.BuyPrice/2, item.SellPrice, item.Name)
		}
		s.Equal(3, count(res.Map, entities.CellMonster))
		s.Equal(1, count(res.Map, entities.CellVendor))
	})

	s.Run("regulars cap at four", func() {
		res, err := s.client(1).GenerateDungeon(s.ctx, &content.DungeonRequest{Level: 6})
		s.Require().NoError(err)
		s.Len(res.Entities, 5)
	})

	s.Run("result is accepted by the tracker", func() {
		res, err := s.client(4, 2, 9).GenerateDungeon(s.ctx, &content.DungeonRequest{Level: 2})
		s.Require().NoError(err)

		gs := entities.NewGameState()
		gs.Phase = entities.PhasePlaying
		gs.Player = builders.NewPlayerBuilder().Build()
		s.Require().NoError(world.ApplyDungeon(&gs, 2, res))

		s.Equal(res.Entities[len(res.Entities)-1].ID, gs.World.Quest.TargetID)
		pos := gs.Player.Position
		s.Equal(entities.CellFloor, gs.World.Map[pos.Y][pos.X].Type)
	})
}

func (s *OfflineTestSuite) TestGenerateCombatAction() {
	goblin := testutils.Goblin("m_1")

	s.Run("attack that kills", func() {
		res, err := s.client(6).GenerateCombatAction(s.ctx, &content.CombatRequest{
			PlayerLevel: 1,
			PlayerStats: statsWithStrength(10),
			Monster:     goblin,
			ActionKind:  content.ActionAttack,
		})
		s.Require().NoError(err)
		s.True(res.MonsterDefeated)
		s.Equal(11, res.MonsterDamage)
		s.Equal(25, res.XPGained)
		s.Equal(10, res.GoldGained)
		s.Nil(res.Loot)
	})

	s.Run("attack that does not kill", func() {
		tough := goblin
		tough.HP = 50
		res, err := s.client(6).GenerateCombatAction(s.ctx, &content.CombatRequest{
			PlayerLevel: 1,
			PlayerStats: statsWithStrength(10),
			Monster:     tough,
			ActionKind:  content.ActionAttack,
		})
		s.Require().NoError(err)
		s.False(res.MonsterDefeated)
		s.Equal(11, res.MonsterDamage)
		s.Equal(4, res.PlayerDamage)
		s.Zero(res.XPGained)
		s.Contains(res.Narration, goblin.Name)
	})

	s.Run("potion deals no damage", func() {
		res, err := s.client(6).GenerateCombatAction(s.ctx, &content.CombatRequest{
			PlayerLevel: 1,
			Monster:     goblin,
			ActionKind:  content.ActionItem,
		})
		s.Require().NoError(err)
		s.Zero(res.MonsterDamage)
		s.False(res.MonsterDefeated)
	})

	s.Run("defense soaks damage", func() {
		tough := goblin
		tough.HP = 50
		res, err := s.client(6).GenerateCombatAction(s.ctx, &content.CombatRequest{
			Monster:       tough,
			PlayerDefense: 20,
			ActionKind:    content.ActionAttack,
		})
		s.Require().NoError(err)
		s.Zero(res.PlayerDamage)
	})
}

func (s *OfflineTestSuite) TestGenerateLevelUpAbilities() {
	abilities, err := s.client(3, 1, 2).GenerateLevelUpAbilities(s.ctx, &content.AbilitiesRequest{
		Level: 2,
		Stats: entities.BaseStats{Strength: 8, Dexterity: 9, Intelligence: 13},
	})
	s.Require().NoError(err)
	s.Require().Len(abilities, 3)

	names := map[string]bool{}
	ids := map[string]bool{}
	for _, a := range abilities {
		names[a.Name] = true
		ids[a.ID] = true
		s.Positive(a.ManaCost)
		s.False(a.StatOnly)
	}
	s.Len(names, 3)
	s.Len(ids, 3)
	s.True(names["Arcane Missile"], "intelligence pool")
	s.True(names["Fireball"])
}

func (s *OfflineTestSuite) TestGenerateLoot() {
	items, err := s.client(3).GenerateLoot(s.ctx, &content.LootRequest{PlayerLevel: 2})
	s.Require().NoError(err)
	s.Len(items, 3)

	items, err = s.client(1).GenerateLoot(s.ctx, &content.LootRequest{PlayerLevel: 2})
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal(entities.ItemTypeWeapon, items[0].Type)
	s.NotNil(items[0].Stats)
}

func (s *OfflineTestSuite) TestTriggerTrap() {
	res, err := s.client(11).TriggerTrap(s.ctx, &content.TrapRequest{PlayerLevel: 1, MaxHP: 100})
	s.Require().NoError(err)
	s.Equal(15, res.Damage)
	s.NotEmpty(res.Narration)

	res, err = s.client(1).TriggerTrap(s.ctx, &content.TrapRequest{PlayerLevel: 1, MaxHP: 100})
	s.Require().NoError(err)
	s.Equal(5, res.Damage)

	res, err = s.client(1).TriggerTrap(s.ctx, &content.TrapRequest{PlayerLevel: 1, MaxHP: 10})
	s.Require().NoError(err)
	s.Equal(1, res.Damage, "never harmless")
}

func (s *OfflineTestSuite) TestGenerateNewQuest() {
	s.Run("exit when nothing remains", func() {
		res, err := s.client(1).GenerateNewQuest(s.ctx, &content.QuestRequest{PlayerLevel: 2})
		s.Require().NoError(err)
		s.Equal(entities.QuestTargetExit, res.TargetID)
		s.Equal(40, res.XPReward)
	})

	s.Run("targets a remaining monster", func() {
		res, err := s.client(2).GenerateNewQuest(s.ctx, &content.QuestRequest{
			PlayerLevel: 1,
			Remaining:   []content.MonsterRef{{ID: "m_1", Name: "Rat"}, {ID: "m_2", Name: "Bat"}},
		})
		s.Require().NoError(err)
		s.Equal("m_2", res.TargetID)
		s.Contains(res.Objective, "Bat")
	})
}

func (s *OfflineTestSuite) TestGenerateImage() {
	url, err := s.client(1).GenerateImage(s.ctx, &content.ImageRequest{Prompt: "a cave", Aspect: content.AspectWide, Enabled: true})
	s.Require().NoError(err)
	s.Equal(content.PlaceholderImage(content.AspectWide), url)
}
