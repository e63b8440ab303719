package ws

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"

	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
	"github.com/irmakh/gemini-rpg/internal/orchestrators/game"
)

// client pumps one connection. Commands are handled in the read loop so
// they apply in the order sent; the write loop owns every write.
type client struct {
	conn      *websocket.Conn
	games     game.Service
	sessionID string

	send chan Frame
	done chan struct{} // read loop finished
	dead chan struct{} // write loop finished
}

func newClient(conn *websocket.Conn, games game.Service, sessionID string) *client {
	return &client{
		conn:      conn,
		games:     games,
		sessionID: sessionID,
		send:      make(chan Frame, sendBuffer),
		done:      make(chan struct{}),
		dead:      make(chan struct{}),
	}
}

func (c *client) run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.writePump(ctx)
	}()

	c.readPump(ctx)
	close(c.done)
	wg.Wait()
	_ = c.conn.Close()
}

func (c *client) push(f Frame) {
	select {
	case c.send <- f:
	case <-c.dead:
	}
}

func (c *client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		// a quiet but connected session is not idle
		_, _ = c.games.Get(ctx, &game.GetInput{SessionID: c.sessionID})
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// reset per frame: a long generator call must not eat the deadline
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			return
		}
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "websocket read failed",
					"session_id", c.sessionID,
					"error", err.Error())
			}
			return
		}

		if err := c.dispatch(ctx, payload); err != nil {
			slog.DebugContext(ctx, "command failed",
				"session_id", c.sessionID,
				"error", err.Error())
			c.push(errorFrame(err))
		}
	}
}

func (c *client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.dead)
		_ = c.conn.Close()
	}()

	for {
		select {
		case f := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(f); err != nil {
				slog.WarnContext(ctx, "websocket write failed",
					"session_id", c.sessionID,
					"error", err.Error())
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *client) pushState(state entities.GameState) {
	c.push(stateFrame(c.sessionID, state))
}

func (c *client) dispatch(ctx context.Context, payload []byte) error {
	switch gjson.GetBytes(payload, "type").String() {
	case commandSave:
		out, err := c.games.Save(ctx, &game.SaveInput{
			SessionID: c.sessionID,
			Slot:      gjson.GetBytes(payload, "slot").String(),
		})
		if err != nil {
			return err
		}
		c.pushState(out.State)

	case commandLoad:
		out, err := c.games.Load(ctx, &game.LoadInput{
			SessionID: c.sessionID,
			Slot:      gjson.GetBytes(payload, "slot").String(),
		})
		if err != nil {
			return err
		}
		c.pushState(out.State)

	case commandImport:
		data := gjson.GetBytes(payload, "data")
		if !data.Exists() {
			return errors.InvalidArgument("save data is required")
		}
		raw := []byte(data.Raw)
		if data.Type == gjson.String {
			// a save file read as text
			raw = []byte(data.String())
		}
		out, err := c.games.Import(ctx, &game.ImportInput{SessionID: c.sessionID, Data: raw})
		if err != nil {
			return err
		}
		c.pushState(out.State)

	case commandExport:
		out, err := c.games.Export(ctx, &game.ExportInput{SessionID: c.sessionID})
		if err != nil {
			return err
		}
		c.push(Frame{Type: FrameSave, SessionID: c.sessionID, Data: out.Data})

	case commandListSaves:
		return c.listSaves(ctx)

	case commandDeleteSave:
		_, err := c.games.DeleteSave(ctx, &game.DeleteSaveInput{
			SessionID: c.sessionID,
			Slot:      gjson.GetBytes(payload, "slot").String(),
		})
		if err != nil {
			return err
		}
		return c.listSaves(ctx)

	default:
		ev, err := DecodeCommand(payload)
		if err != nil {
			return err
		}
		_, err = c.games.Handle(ctx, &game.HandleInput{
			SessionID: c.sessionID,
			Event:     ev,
			OnState:   c.pushState,
		})
		return err
	}
	return nil
}

func (c *client) listSaves(ctx context.Context) error {
	out, err := c.games.ListSaves(ctx, &game.ListSavesInput{SessionID: c.sessionID})
	if err != nil {
		return err
	}
	c.push(Frame{Type: FrameSaves, SessionID: c.sessionID, Saves: out.Records})
	return nil
}
