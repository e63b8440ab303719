// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/irmakh/gemini-rpg/internal/clients/content"
	contentmock "github.com/irmakh/gemini-rpg/internal/clients/content/mock"
	"github.com/irmakh/gemini-rpg/internal/entities"
)

// ExpectPlaceholderImages answers every image request with the placeholder
// for its aspect
func ExpectPlaceholderImages(client *contentmock.MockClient) {
	client.EXPECT().
		GenerateImage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *content.ImageRequest) (string, error) {
			return content.PlaceholderImage(input.Aspect), nil
		}).
		AnyTimes()
}

// ExpectHero answers one character request with the given stats
func ExpectHero(client *contentmock.MockClient, name string, class entities.CharacterClass, stats entities.BaseStats) {
	client.EXPECT().
		GenerateCharacter(gomock.Any(), &content.CharacterRequest{Name: name, Class: class}).
		Return(&content.CharacterResult{
			Backstory:   name + " grew up at the edge of the map.",
			Stats:       stats,
			ImagePrompt: "portrait of " + name,
		}, nil)
}

// ExpectDungeon answers one dungeon request with a corridor: the player
// starts at 1,1 and the quest target waits at 3,1.
func ExpectDungeon(client *contentmock.MockClient, level int) {
	client.EXPECT().
		GenerateDungeon(gomock.Any(), &content.DungeonRequest{Level: level}).
		DoAndReturn(func(_ context.Context, _ *content.DungeonRequest) (*content.DungeonResult, error) {
			grid := entities.NewGrid(entities.MapWidth, entities.MapHeight)
			grid[1][1] = entities.MapCell{Type: entities.CellFloor}
			grid[1][2] = entities.MapCell{Type: entities.CellFloor}
			grid[1][3] = entities.MapCell{Type: entities.CellMonster, EntityID: "boss", IsQuestTarget: true}
			return &content.DungeonResult{
				Name:        "The Narrow Way",
				Description: "A single corridor.",
				ImagePrompt: "a corridor",
				Quest:       content.QuestSeed{ID: "q1", Title: "Slay the boss", Objective: "Defeat the Boss", XPReward: 50},
				Entities:    []content.MonsterSeed{{ID: "boss", Name: "Boss", Level: level, IsQuestTarget: true}},
				Map:         grid,
			}, nil
		})
}
