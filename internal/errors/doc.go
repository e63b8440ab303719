// Package errors provides the coded error type used across the game server.
//
// Every layer returns *Error values so that the transport can classify a
// failure without string matching:
//
//	err := errors.NotFound("save slot not found").WithMeta("slot", slot)
//	err := errors.FailedPreconditionf("session %s is busy", id)
//
// Wrapping keeps the code of the wrapped error:
//
//	if err := repo.Put(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to store save")
//	}
//
// # Player actions versus errors
//
// A rejected player action (not enough gold, not enough mana, an item that
// cannot be equipped) is not an error of the server. The engine records it as
// a log line on an unchanged state. The rules packages still return
// InvalidArgument or FailedPrecondition errors to the engine so that the
// message travels with the code; the engine turns GetMessage(err) into the
// log line.
//
// # Layer guidelines
//
// Repositories return NotFound / AlreadyExists and wrap driver errors.
// Orchestrators validate input (InvalidArgument), check session state
// (FailedPrecondition) and wrap repository errors. The content client returns
// Unavailable for transport failures and DataLoss for responses that do not
// have the expected shape. The save codec returns DataLoss for corrupt files.
// The websocket handler converts any error into an error frame carrying
// GetCode and GetMessage.
package errors
