// Package client provides test commands that drive a game over the
// websocket endpoint
package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/irmakh/gemini-rpg/internal/handlers/ws"
)

var (
	// Connection flags
	serverAddr string
	sessionID  string
	timeout    time.Duration
)

// ClientCmd is the root command for all client test commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Test client commands for the game server",
	Long:  `Client commands play a session through the websocket endpoint, one command per connection.`,
}

func init() {
	// Add persistent flags for all client commands
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:8080", "HTTP server address")
	ClientCmd.PersistentFlags().StringVar(&sessionID, "session", "", "Session ID")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Time to wait for the game to settle")

	ClientCmd.AddCommand(newGameCmd)
	ClientCmd.AddCommand(createCmd)
	ClientCmd.AddCommand(confirmCmd)
	ClientCmd.AddCommand(moveCmd)
	ClientCmd.AddCommand(attackCmd)
	ClientCmd.AddCommand(stateCmd)
	ClientCmd.AddCommand(saveCmd)
	ClientCmd.AddCommand(loadCmd)
}

// session is one connection bound to a game session
type session struct {
	conn  *websocket.Conn
	id    string
	state ws.Frame
}

// connect attaches to --session, or opens a new session when query is
// given instead
func connect(query url.Values) (*session, error) {
	if query == nil {
		if sessionID == "" {
			return nil, fmt.Errorf("--session is required")
		}
		query = url.Values{"session": {sessionID}}
	}

	u := url.URL{Scheme: "ws", Host: serverAddr, Path: "/ws", RawQuery: query.Encode()}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if resp != nil {
		_ = resp.Body.Close() // nolint:errcheck // safe to ignore in cleanup
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect to server: %s", resp.Status)
		}
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	s := &session{conn: conn}
	greeting, err := s.read()
	if err != nil {
		s.close()
		return nil, err
	}
	s.id = greeting.SessionID
	s.state = greeting
	return s, nil
}

func (s *session) close() {
	_ = s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")) // nolint:errcheck // best effort
	_ = s.conn.Close() // nolint:errcheck // safe to ignore in cleanup
}

func (s *session) read() (ws.Frame, error) {
	var f ws.Frame
	if err := s.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return f, err
	}
	if err := s.conn.ReadJSON(&f); err != nil {
		return f, fmt.Errorf("failed to read frame: %w", err)
	}
	if f.Type == ws.FrameError {
		return f, fmt.Errorf("%s: %s", f.Code, f.Message)
	}
	return f, nil
}

// send writes a command and waits until the game is no longer loading
func (s *session) send(frame map[string]any) (ws.Frame, error) {
	data, err := json.Marshal(frame)
	if err != nil {
		return ws.Frame{}, err
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return ws.Frame{}, fmt.Errorf("failed to send command: %w", err)
	}

	for {
		f, err := s.read()
		if err != nil {
			return f, err
		}
		if f.Type != ws.FrameState || f.State == nil || !f.State.Loading {
			return f, nil
		}
		fmt.Println("...")
	}
}

// run sends one command on --session and prints the settled state
func run(frame map[string]any) error {
	s, err := connect(nil)
	if err != nil {
		return err
	}
	defer s.close()

	f, err := s.send(frame)
	if err != nil {
		return err
	}
	printFrame(f)
	return nil
}
