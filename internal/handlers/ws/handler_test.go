package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/irmakh/gemini-rpg/internal/engine"
	"github.com/irmakh/gemini-rpg/internal/engine/combat"
	"github.com/irmakh/gemini-rpg/internal/entities"
	"github.com/irmakh/gemini-rpg/internal/errors"
	"github.com/irmakh/gemini-rpg/internal/handlers/ws"
	"github.com/irmakh/gemini-rpg/internal/orchestrators/game"
	gamemock "github.com/irmakh/gemini-rpg/internal/orchestrators/game/mock"
	"github.com/irmakh/gemini-rpg/internal/repositories/savegame"
)

type HandlerTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *gamemock.MockService
	srv     *httptest.Server
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = gamemock.NewMockService(s.ctrl)

	handler, err := ws.NewHandler(&ws.HandlerConfig{GameService: s.service})
	s.Require().NoError(err)

	mux := http.NewServeMux()
	handler.Register(mux)
	s.srv = httptest.NewServer(mux)
}

func (s *HandlerTestSuite) TearDownTest() {
	s.srv.Close()
}

func (s *HandlerTestSuite) wsURL(query string) string {
	return "ws" + strings.TrimPrefix(s.srv.URL, "http") + "/ws" + query
}

func (s *HandlerTestSuite) dial(query string) *websocket.Conn {
	conn, resp, err := websocket.DefaultDialer.Dial(s.wsURL(query), nil)
	if resp != nil {
		_ = resp.Body.Close()
	}
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

func (s *HandlerTestSuite) read(conn *websocket.Conn) ws.Frame {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	var f ws.Frame
	s.Require().NoError(conn.ReadJSON(&f))
	return f
}

func (s *HandlerTestSuite) write(conn *websocket.Conn, frame string) {
	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(frame)))
}

// attached connects to an existing session and drains the greeting
func (s *HandlerTestSuite) attached() *websocket.Conn {
	s.service.EXPECT().
		Get(gomock.Any(), &game.GetInput{SessionID: "s1"}).
		Return(&game.GetOutput{State: entities.NewGameState()}, nil)

	conn := s.dial("?session=s1")
	f := s.read(conn)
	s.Equal(ws.FrameState, f.Type)
	s.Equal("s1", f.SessionID)
	return conn
}

func (s *HandlerTestSuite) TestNewHandler() {
	_, err := ws.NewHandler(nil)
	s.Error(err)

	_, err = ws.NewHandler(&ws.HandlerConfig{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *HandlerTestSuite) TestHealthz() {
	resp, err := http.Get(s.srv.URL + "/healthz")
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	s.Equal(http.StatusOK, resp.StatusCode)
	var body map[string]string
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal("ok", body["status"])
}

func (s *HandlerTestSuite) TestUnknownSession() {
	s.service.EXPECT().
		Get(gomock.Any(), &game.GetInput{SessionID: "missing"}).
		Return(nil, errors.NotFound("session missing not found"))

	_, resp, err := websocket.DefaultDialer.Dial(s.wsURL("?session=missing"), nil)
	s.Require().ErrorIs(err, websocket.ErrBadHandshake)
	s.Require().NotNil(resp)
	defer func() { _ = resp.Body.Close() }()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *HandlerTestSuite) TestNewSession() {
	s.service.EXPECT().
		Start(gomock.Any(), &game.StartInput{Owner: "alice"}).
		Return(&game.StartOutput{SessionID: "s9", State: entities.NewGameState()}, nil)

	conn := s.dial("?owner=alice")
	f := s.read(conn)
	s.Equal(ws.FrameState, f.Type)
	s.Equal("s9", f.SessionID)
	s.Require().NotNil(f.State)
	s.Equal(entities.PhaseMenu, f.State.Phase)
}

func (s *HandlerTestSuite) TestCommandStreamsStates() {
	conn := s.attached()

	loading := entities.NewGameState()
	loading.Loading = true
	done := entities.NewGameState()

	s.service.EXPECT().
		Handle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *game.HandleInput) (*game.HandleOutput, error) {
			s.Equal("s1", input.SessionID)
			s.Equal(engine.CombatAction{Action: combat.Action{Kind: "attack"}}, input.Event)
			input.OnState(loading)
			input.OnState(done)
			return &game.HandleOutput{State: done}, nil
		})

	s.write(conn, `{"type":"combat_action","action":{"kind":"attack"}}`)

	first := s.read(conn)
	s.Require().NotNil(first.State)
	s.True(first.State.Loading)

	second := s.read(conn)
	s.Require().NotNil(second.State)
	s.False(second.State.Loading)
}

func (s *HandlerTestSuite) TestRejectedCommand() {
	conn := s.attached()

	s.service.EXPECT().
		Handle(gomock.Any(), gomock.Any()).
		Return(nil, errors.FailedPrecondition("please wait"))

	s.write(conn, `{"type":"move","dx":1,"dy":0}`)

	f := s.read(conn)
	s.Equal(ws.FrameError, f.Type)
	s.Equal("FAILED_PRECONDITION", f.Code)
	s.Equal("please wait", f.Message)
}

func (s *HandlerTestSuite) TestMalformedFrames() {
	conn := s.attached()

	testCases := []struct {
		name    string
		frame   string
		message string
	}{
		{name: "not json", frame: `{nope`, message: "frame is not valid JSON"},
		{name: "no type", frame: `{"dx":1}`, message: "frame type is required"},
		{name: "unknown type", frame: `{"type":"fly"}`, message: "unknown command fly"},
		{name: "effect result", frame: `{"type":"load_state"}`, message: "unknown command load_state"},
		{name: "bad field", frame: `{"type":"move","dx":"east"}`, message: "malformed command"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.write(conn, tc.frame)
			f := s.read(conn)
			s.Equal(ws.FrameError, f.Type)
			s.Equal("INVALID_ARGUMENT", f.Code)
			s.Equal(tc.message, f.Message)
		})
	}
}

func (s *HandlerTestSuite) TestSaveCommands() {
	conn := s.attached()

	saved := entities.NewGameState()
	saved.Log = append(saved.Log, "Game saved.")

	s.service.EXPECT().
		Save(gomock.Any(), &game.SaveInput{SessionID: "s1", Slot: "a"}).
		Return(&game.SaveOutput{State: saved}, nil)
	s.write(conn, `{"type":"save","slot":"a"}`)
	f := s.read(conn)
	s.Require().NotNil(f.State)
	s.Equal("Game saved.", f.State.Log[len(f.State.Log)-1])

	s.service.EXPECT().
		Export(gomock.Any(), &game.ExportInput{SessionID: "s1"}).
		Return(&game.ExportOutput{Data: []byte(`{"version":2}`)}, nil)
	s.write(conn, `{"type":"export"}`)
	f = s.read(conn)
	s.Equal(ws.FrameSave, f.Type)
	s.JSONEq(`{"version":2}`, string(f.Data))

	s.service.EXPECT().
		Import(gomock.Any(), &game.ImportInput{SessionID: "s1", Data: []byte(`{"version":2}`)}).
		Return(&game.ImportOutput{State: entities.NewGameState(), Loaded: true}, nil).
		Times(2)
	s.write(conn, `{"type":"import","data":{"version":2}}`)
	s.Equal(ws.FrameState, s.read(conn).Type)
	s.write(conn, `{"type":"import","data":"{\"version\":2}"}`)
	s.Equal(ws.FrameState, s.read(conn).Type)

	s.write(conn, `{"type":"import"}`)
	f = s.read(conn)
	s.Equal(ws.FrameError, f.Type)
	s.Equal("save data is required", f.Message)

	records := []*savegame.Record{{Owner: "s1", Slot: "a", Summary: savegame.Summary{PlayerName: "Aria", Level: 2}}}
	s.service.EXPECT().
		DeleteSave(gomock.Any(), &game.DeleteSaveInput{SessionID: "s1", Slot: "b"}).
		Return(&game.DeleteSaveOutput{}, nil)
	s.service.EXPECT().
		ListSaves(gomock.Any(), &game.ListSavesInput{SessionID: "s1"}).
		Return(&game.ListSavesOutput{Records: records}, nil)
	s.write(conn, `{"type":"delete_save","slot":"b"}`)
	f = s.read(conn)
	s.Equal(ws.FrameSaves, f.Type)
	s.Require().Len(f.Saves, 1)
	s.Equal("Aria", f.Saves[0].Summary.PlayerName)

	s.service.EXPECT().
		Load(gomock.Any(), &game.LoadInput{SessionID: "s1", Slot: "zz"}).
		Return(nil, errors.NotFound("save slot zz not found"))
	s.write(conn, `{"type":"load","slot":"zz"}`)
	f = s.read(conn)
	s.Equal("NOT_FOUND", f.Code)
}

func TestDecodeCommand(t *testing.T) {
	testCases := []struct {
		frame string
		want  engine.Event
	}{
		{`{"type":"new_game"}`, engine.NewGame{}},
		{`{"type":"create_character","name":"Aria","characterClass":"Mage"}`, engine.CreateCharacter{Name: "Aria", Class: entities.ClassMage}},
		{`{"type":"move","dx":-1,"dy":0}`, engine.Move{DX: -1}},
		{`{"type":"buy","vendorId":"v1","itemId":"i1"}`, engine.Buy{VendorID: "v1", ItemID: "i1"}},
		{`{"type":"unequip","slot":"weapon"}`, engine.Unequip{Slot: entities.SlotWeapon}},
		{`{"type":"update_settings","settings":{"useImagen":false}}`, engine.UpdateSettings{}},
	}

	for _, tc := range testCases {
		got, err := ws.DecodeCommand([]byte(tc.frame))
		if err != nil {
			t.Fatalf("decoding %s: %v", tc.frame, err)
		}
		if got != tc.want {
			t.Errorf("decoding %s: got %#v, want %#v", tc.frame, got, tc.want)
		}
	}
}
