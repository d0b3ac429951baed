package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	handler "github.com/vncsmyrnk/pollweb/internal/adapters/handler/http"
	"github.com/vncsmyrnk/pollweb/internal/adapters/pollservice"
	"github.com/vncsmyrnk/pollweb/internal/adapters/session/cookie"
	"github.com/vncsmyrnk/pollweb/internal/core/services"
)

const testSecret = "test-secret"

type storedPoll struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Options   []string  `json:"options"`
	Votes     []int     `json:"votes"`
	CreatedAt time.Time `json:"created_at"`
}

// pollService is an in-memory stand-in for the remote poll service.
type pollService struct {
	mu     sync.Mutex
	polls  []*storedPoll
	users  map[string]string
	nextID int
	down   bool
}

func newPollService() *pollService {
	return &pollService{users: make(map[string]string)}
}

func (s *pollService) routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/register", s.register)
	r.Post("/login", s.login)
	r.Get("/polls", s.listPolls)
	r.Get("/poll/{id}", s.getPoll)
	r.Post("/poll", s.requireToken(s.createPoll))
	r.Post("/poll/{id}/vote", s.requireToken(s.vote))
	return r
}

func (s *pollService) setDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

func (s *pollService) issueToken(name string) (string, error) {
	claims := jwt.MapClaims{
		"sub": name,
		"exp": time.Now().Add(15 * time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
}

func (s *pollService) register(w http.ResponseWriter, r *http.Request) {
	var creds struct{ Name, Password string }
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if _, ok := s.users[creds.Name]; ok {
		s.mu.Unlock()
		http.Error(w, "user exists", http.StatusConflict)
		return
	}
	s.users[creds.Name] = creds.Password
	s.mu.Unlock()

	s.writeToken(w, creds.Name)
}

func (s *pollService) login(w http.ResponseWriter, r *http.Request) {
	var creds struct{ Name, Password string }
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	password, ok := s.users[creds.Name]
	s.mu.Unlock()
	if !ok || password != creds.Password {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	s.writeToken(w, creds.Name)
}

func (s *pollService) writeToken(w http.ResponseWriter, name string) {
	token, err := s.issueToken(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(token)
}

func (s *pollService) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			return []byte(testSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *pollService) listPolls(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.down {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	polls := make([]storedPoll, len(s.polls))
	for i, p := range s.polls {
		polls[i] = *p
	}
	_ = json.NewEncoder(w).Encode(polls)
}

func (s *pollService) getPoll(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.polls {
		if p.ID == chi.URLParam(r, "id") {
			_ = json.NewEncoder(w).Encode(p)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *pollService) createPoll(w http.ResponseWriter, r *http.Request) {
	var p storedPoll
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	p.ID = fmt.Sprintf("poll-%d", s.nextID)
	p.CreatedAt = time.Now().UTC()
	s.polls = append(s.polls, &p)

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

func (s *pollService) vote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OptionIndex int `json:"option_index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.polls {
		if p.ID != chi.URLParam(r, "id") {
			continue
		}
		if body.OptionIndex < 0 || body.OptionIndex >= len(p.Votes) {
			http.Error(w, "invalid option", http.StatusBadRequest)
			return
		}
		p.Votes[body.OptionIndex]++
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.NotFound(w, r)
}

type TestApp struct {
	PollService *pollService
	Backend     *httptest.Server
	Server      *httptest.Server
	Client      *http.Client
	PollClient  *pollservice.Client
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()

	svc := newPollService()
	backend := httptest.NewServer(svc.routes())
	t.Cleanup(backend.Close)

	pollClient, err := pollservice.NewClient(backend.URL, 5*time.Second)
	require.NoError(t, err)

	views, err := handler.NewViews()
	require.NoError(t, err)

	authService := services.NewAuthService(pollClient)
	sessions := handler.NewSessions(authService, cookie.Options{})
	router := handler.NewHandler(
		handler.NewPollHandler(pollClient, views),
		handler.NewAuthHandler(authService, sessions, views),
		sessions,
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := server.Client()
	client.Jar = jar

	return &TestApp{
		PollService: svc,
		Backend:     backend,
		Server:      server,
		Client:      client,
		PollClient:  pollClient,
	}
}
