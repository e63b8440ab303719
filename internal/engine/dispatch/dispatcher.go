// Package dispatch gates player input and turns a step on the grid into
// an arrival the engine acts on.
package dispatch

import (
	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
)

const msgWall = "A solid wall blocks your path."

// ArrivalKind is what a move ran into
type ArrivalKind int

const (
	ArrivalNone ArrivalKind = iota
	ArrivalTrap
	ArrivalMonster
	ArrivalChest
	ArrivalExit
	ArrivalVendor
)

// Arrival describes the cell a move ended on, or the trap it sprung
type Arrival struct {
	Kind     ArrivalKind
	X        int
	Y        int
	EntityID string
}

// CanAct is the gate every player action passes before any state is read
// for it. It returns a FailedPrecondition naming the first reason found.
func CanAct(gs *entities.GameState) error {
	if err := canManage(gs); err != nil {
		return err
	}
	if gs.Modal != nil {
		return errors.FailedPrecondition("a dialog is open")
	}
	if gs.CombatState != nil {
		return errors.FailedPrecondition("you are in combat")
	}
	return nil
}

// CanManageInventory relaxes CanAct to allow the inventory dialog to be open
func CanManageInventory(gs *entities.GameState) error {
	if err := canManage(gs); err != nil {
		return err
	}
	if gs.Modal != nil && gs.Modal.Kind != entities.ModalInventory {
		return errors.FailedPrecondition("a dialog is open")
	}
	if gs.CombatState != nil {
		return errors.FailedPrecondition("you are in combat")
	}
	return nil
}

// CanFight allows combat submissions, which happen while combat is on
func CanFight(gs *entities.GameState) error {
	if err := canManage(gs); err != nil {
		return err
	}
	if gs.CombatState == nil {
		return errors.FailedPrecondition("you are not in combat")
	}
	if gs.Modal != nil {
		return errors.FailedPrecondition("a dialog is open")
	}
	return nil
}

func canManage(gs *entities.GameState) error {
	switch {
	case gs.Phase != entities.PhasePlaying:
		return errors.FailedPrecondition("no game in progress")
	case gs.Player == nil || gs.World == nil:
		return errors.FailedPrecondition("no game in progress")
	case gs.IsDead():
		return errors.FailedPrecondition("your journey has ended")
	case gs.Loading:
		return errors.FailedPrecondition("please wait")
	case gs.Paused:
		return errors.FailedPrecondition("the game is paused")
	}
	return nil
}

// Move steps the player by dx,dy. Walls bounce with a log line and leaving
// the grid does nothing. An untriggered trap is sprung without moving.
func Move(gs *entities.GameState, dx, dy int) (Arrival, error) {
	if err := CanAct(gs); err != nil {
		return Arrival{}, err
	}

	x, y := gs.Player.Position.X+dx, gs.Player.Position.Y+dy
	w := gs.World
	if !w.InBounds(x, y) {
		return Arrival{}, nil
	}

	cell := w.Cell(x, y)
	arrival := Arrival{X: x, Y: y, EntityID: cell.EntityID}
	switch cell.Type {
	case entities.CellWall:
		gs.AddLog(msgWall)
		return Arrival{}, nil
	case entities.CellTrap:
		if !cell.IsTriggeredTrap() {
			arrival.Kind = ArrivalTrap
			return arrival, nil
		}
	case entities.CellMonster:
		arrival.Kind = ArrivalMonster
	case entities.CellChest:
		arrival.Kind = ArrivalChest
	case entities.CellExit:
		arrival.Kind = ArrivalExit
	case entities.CellVendor:
		arrival.Kind = ArrivalVendor
	}

	gs.Player.Position = entities.Position{X: x, Y: y}
	cell.IsExplored = true
	return arrival, nil
}

// CanTrade allows buying and selling while the dialog for that vendor is open
func CanTrade(gs *entities.GameState, vendorID string) error {
	if err := canManage(gs); err != nil {
		return err
	}
	if gs.Modal == nil || gs.Modal.Kind != entities.ModalVendor || gs.Modal.VendorID != vendorID {
		return errors.FailedPrecondition("you are not trading with that vendor")
	}
	return nil
}
