package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"chat-relay/api"
	"chat-relay/auth"
	"chat-relay/gateway"
	"chat-relay/moderation"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/services"
)

const frameTimeout = 3 * time.Second

// BaseSuite boots the entire stack in-process: a throwaway BadgerDB, the
// routing core, and the real HTTP surface behind an httptest server. Each
// test gets a fresh world.
type BaseSuite struct {
	suite.Suite
	Config Config

	server *httptest.Server
	db     *badger.DB
	frames map[*websocket.Conn]chan []byte
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

func (s *BaseSuite) SetupTest() {
	log := slog.Default()

	db, err := badger.Open(badger.DefaultOptions(s.T().TempDir()).
		WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	s.db = db

	registry := runtime.NewRegistry()
	rooms := runtime.NewRoomTracker()
	presence := runtime.NewPresence(log, registry, time.Second)
	registry.OnChange(presence.RegistryChanged)
	router := runtime.NewRouter(log, registry, rooms, time.Second)

	moderator, err := moderation.NewModerator([]string{"idiot"}, '*')
	s.Require().NoError(err)

	tokens := auth.NewTokenManager("e2e-secret", time.Hour)
	userRepo := repositories.NewUserRepository(db)
	groupRepo := repositories.NewGroupRepository(db)
	messageRepo := repositories.NewMessageRepository(db, log, nil)

	authService := services.NewAuthService(userRepo, tokens)
	groupService := services.NewGroupService(groupRepo, messageRepo)
	chatService := services.NewChatService(log, moderator, messageRepo, groupRepo, router)

	gw := gateway.NewGateway(log, gateway.Config{
		SinkCapacity: 32,
		PushTimeout:  time.Second,
	}, registry, rooms, groupService, tokens)

	a := api.NewAPI(log, authService, chatService, groupService)
	s.server = httptest.NewServer(a.Routes(tokens, gw.ServeWS))
	s.frames = make(map[*websocket.Conn]chan []byte)
}

func (s *BaseSuite) TearDownTest() {
	if s.server != nil {
		s.server.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}

// Step prints a colorized header so scenario phases stand out in logs
func (s *BaseSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// RegisterUser creates an account through the real API and returns its token
func (s *BaseSuite) RegisterUser(email string) string {
	var resp struct {
		Token string `json:"token"`
	}
	status := s.DoJSON(http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": email, "password": "ComplexPass123!"}, &resp)
	s.Require().Equal(http.StatusCreated, status)
	s.Require().NotEmpty(resp.Token)
	return resp.Token
}

// DoJSON performs one API call and decodes the response body when out is non nil
func (s *BaseSuite) DoJSON(method, path, token string, body, out any) int {
	var payload bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&payload).Encode(body))
	}

	r, err := http.NewRequest(method, s.server.URL+path, &payload)
	s.Require().NoError(err)
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(r)
	s.Require().NoError(err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < http.StatusMultipleChoices {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// DialWS opens a live session authenticated by the given token
func (s *BaseSuite) DialWS(token string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
	if token != "" {
		url += "?token=" + token
	}
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	s.T().Cleanup(func() { _ = conn.Close() })

	// A single pump goroutine owns all reads on the connection. Helpers
	// consume frames from the channel with timers instead of read deadlines:
	// a timed-out read would poison the connection permanently (gorilla
	// treats any read error as terminal), breaking every later wait.
	ch := make(chan []byte, 256)
	s.frames[conn] = ch
	go func() {
		defer close(ch)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			ch <- raw
		}
	}()
	return conn
}

// WaitForEvent drains frames until the wanted event arrives, decoding its
// payload into out. Presence snapshots interleave freely with other events
// so scenarios never assert absolute frame order.
func (s *BaseSuite) WaitForEvent(conn *websocket.Conn, wanted string, out any) {
	timer := time.NewTimer(frameTimeout)
	defer timer.Stop()
	for {
		select {
		case raw, ok := <-s.frames[conn]:
			s.Require().True(ok, "connection closed while waiting for %q frame", wanted)

			if s.Config.DebugFrames {
				s.T().Logf("FRAME: %s", raw)
			}

			var f struct {
				Event string          `json:"event"`
				Data  json.RawMessage `json:"data"`
			}
			s.Require().NoError(json.Unmarshal(raw, &f))
			if f.Event != wanted {
				continue
			}
			if out != nil {
				s.Require().NoError(json.Unmarshal(f.Data, out))
			}
			return
		case <-timer.C:
			s.T().Fatalf("never received %q frame", wanted)
		}
	}
}

// ExpectNoEvent asserts the named event does not arrive within the window
func (s *BaseSuite) ExpectNoEvent(conn *websocket.Conn, unwanted string, window time.Duration) {
	timer := time.NewTimer(window)
	defer timer.Stop()
	for {
		select {
		case raw, ok := <-s.frames[conn]:
			if !ok {
				return // connection closed: nothing more can arrive
			}

			var f struct {
				Event string `json:"event"`
			}
			s.Require().NoError(json.Unmarshal(raw, &f))
			s.Require().NotEqual(unwanted, f.Event)
		case <-timer.C:
			return // window elapsed: nothing arrived
		}
	}
}

// UserIDOf extracts the verified identity baked into a token
func (s *BaseSuite) UserIDOf(token string) string {
	parts := strings.Split(token, ".")
	s.Require().Len(parts, 3)

	claims, err := auth.NewTokenManager("e2e-secret", time.Hour).Validate(token)
	s.Require().NoError(err)
	return claims.UserID
}
