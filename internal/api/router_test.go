package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookhive/bookstore-api/internal/core/domain"
	"github.com/bookhive/bookstore-api/internal/core/service"
	"github.com/bookhive/bookstore-api/internal/infrastructure/db/memory"
)

const (
	testJWTSecret   = "router-test-secret"
	testAdminSecret = "let-me-in"
)

type testServer struct {
	t      *testing.T
	e      *echo.Echo
	events *memory.RoleEventRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	log := zerolog.Nop()
	users := store.Users()
	events := store.RoleEvents()

	e := NewRouter(Deps{
		Auth: service.NewAuthService(users, events, service.AuthConfig{
			JWTSecret:   testJWTSecret,
			TokenTTL:    time.Hour,
			AdminSecret: testAdminSecret,
			BcryptCost:  bcrypt.MinCost,
		}, log),
		Users:          service.NewUserService(users, events, log),
		Books:          service.NewBookService(store.Books(), users, log),
		Purchases:      service.NewPurchaseService(store.Books(), store.Purchases(), users, store.Dedup(time.Hour), log),
		UserStore:      users,
		JWTSecret:      testJWTSecret,
		Logger:         log,
		DisableMetrics: true,
	})
	return &testServer{t: t, e: e, events: events}
}

// do sends a JSON request and decodes the response body into out when non-nil.
func (s *testServer) do(method, path, token string, body any, out any, headers ...string) int {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			s.t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

type authBody struct {
	User    domain.User `json:"user"`
	Token   string      `json:"token"`
	Message string      `json:"message"`
	Error   string      `json:"error"`
}

func (s *testServer) signup(fullname, email, password, adminKey string) authBody {
	s.t.Helper()
	path := "/users/signup"
	if adminKey != "" {
		path = "/users/create-admin-key"
	}
	var out authBody
	code := s.do(http.MethodPost, path, "", map[string]string{
		"fullname": fullname, "email": email, "password": password, "adminKey": adminKey,
	}, &out)
	if code != http.StatusOK {
		s.t.Fatalf("signup %s: expected 200, got %d (%s)", email, code, out.Error)
	}
	return out
}

func TestRouter_SignupLoginScenario(t *testing.T) {
	s := newTestServer(t)

	ann := s.signup("Ann", "Ann@Example.com", "pw1", "")
	if ann.Token == "" || ann.User.Email != "ann@example.com" || ann.User.IsAdmin {
		t.Fatalf("unexpected signup response: %+v", ann)
	}

	var login authBody
	if code := s.do(http.MethodPost, "/users/login", "", map[string]string{"email": "ann@example.com", "password": "pw1"}, &login); code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", code)
	}
	if login.User.ID != ann.User.ID || login.Token == "" {
		t.Fatalf("unexpected login response: %+v", login)
	}

	var failed authBody
	if code := s.do(http.MethodPost, "/users/login", "", map[string]string{"email": "ann@example.com", "password": "wrong"}, &failed); code != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", code)
	}
	if failed.Error == "" || failed.Token != "" {
		t.Fatalf("expected error envelope only, got %+v", failed)
	}

	var dup authBody
	if code := s.do(http.MethodPost, "/users/signup", "", map[string]string{"fullname": "Ann", "email": "ann@example.com", "password": "x"}, &dup); code != http.StatusConflict {
		t.Fatalf("duplicate signup: expected 409, got %d", code)
	}
}

func TestRouter_EscalationSecret(t *testing.T) {
	s := newTestServer(t)

	var denied authBody
	code := s.do(http.MethodPost, "/users/create-admin-key", "", map[string]string{
		"fullname": "Mallory", "email": "m@example.com", "password": "pw", "adminKey": "guess",
	}, &denied)
	if code != http.StatusForbidden {
		t.Fatalf("bad secret: expected 403, got %d", code)
	}

	// Nothing was stored, so the same email can still sign up.
	s.signup("Mallory", "m@example.com", "pw", "")

	root := s.signup("Root", "root@example.com", "pw", testAdminSecret)
	if !root.User.IsAdmin || root.Message == "" {
		t.Fatalf("expected admin account, got %+v", root)
	}
	if events := s.events.Events(); len(events) != 1 || events[0].Variant != domain.GrantBySecret {
		t.Fatalf("expected one secret grant event, got %+v", events)
	}
}

func TestRouter_SetUserAdminScenario(t *testing.T) {
	s := newTestServer(t)
	admin := s.signup("Root", "root@example.com", "pw", testAdminSecret)
	userB := s.signup("Bea", "bea@example.com", "pw", "")

	// Non-admin attempt is rejected and the flag stays false.
	if code := s.do(http.MethodPut, "/admin/user/"+userB.User.ID+"/admin", userB.Token, map[string]bool{"isAdmin": true}, nil); code != http.StatusForbidden {
		t.Fatalf("non-admin toggle: expected 403, got %d", code)
	}
	var users []domain.User
	s.do(http.MethodGet, "/admin/users", admin.Token, nil, &users)
	for _, u := range users {
		if u.ID == userB.User.ID && u.IsAdmin {
			t.Fatalf("flag must be unchanged after rejected attempt")
		}
	}

	var set authBody
	if code := s.do(http.MethodPut, "/admin/user/"+userB.User.ID+"/admin", admin.Token, map[string]bool{"isAdmin": true}, &set); code != http.StatusOK {
		t.Fatalf("admin toggle: expected 200, got %d (%s)", code, set.Error)
	}
	if !set.User.IsAdmin {
		t.Fatalf("expected promoted user in response, got %+v", set.User)
	}

	users = nil
	if code := s.do(http.MethodGet, "/admin/users", admin.Token, nil, &users); code != http.StatusOK {
		t.Fatalf("list users: expected 200, got %d", code)
	}
	found := false
	for _, u := range users {
		if u.ID == userB.User.ID {
			found = u.IsAdmin
		}
	}
	if !found {
		t.Fatalf("expected Bea to be admin in %+v", users)
	}

	// Bea's old token still claims non-admin, but the store is what counts.
	if code := s.do(http.MethodGet, "/admin/users", userB.Token, nil, nil); code != http.StatusOK {
		t.Fatalf("promoted user with old token: expected 200, got %d", code)
	}

	if code := s.do(http.MethodPut, "/admin/user/"+admin.User.ID+"/admin", admin.Token, map[string]bool{"isAdmin": false}, nil); code != http.StatusConflict {
		t.Fatalf("self-demotion: expected 409, got %d", code)
	}
	if code := s.do(http.MethodPut, "/admin/user/missing/admin", admin.Token, map[string]bool{"isAdmin": true}, nil); code != http.StatusNotFound {
		t.Fatalf("unknown user: expected 404, got %d", code)
	}
}

func TestRouter_RevokedAdminTokenLosesAccess(t *testing.T) {
	s := newTestServer(t)
	root := s.signup("Root", "root@example.com", "pw", testAdminSecret)
	other := s.signup("Other", "other@example.com", "pw", testAdminSecret)

	if code := s.do(http.MethodPut, "/admin/user/"+other.User.ID+"/admin", root.Token, map[string]bool{"isAdmin": false}, nil); code != http.StatusOK {
		t.Fatalf("revoke: expected 200, got %d", code)
	}
	// other's token still says is_admin=true.
	if code := s.do(http.MethodGet, "/admin/users", other.Token, nil, nil); code != http.StatusForbidden {
		t.Fatalf("revoked admin: expected 403, got %d", code)
	}
}

func TestRouter_CreateAdminByAdmin(t *testing.T) {
	s := newTestServer(t)
	root := s.signup("Root", "root@example.com", "pw", testAdminSecret)
	plain := s.signup("Plain", "plain@example.com", "pw", "")
	form := map[string]string{"fullname": "Deputy", "email": "deputy@example.com", "password": "pw"}

	if code := s.do(http.MethodPost, "/admin/user/create-admin", plain.Token, form, nil); code != http.StatusForbidden {
		t.Fatalf("non-admin create-admin: expected 403, got %d", code)
	}
	if code := s.do(http.MethodPost, "/admin/user/create-admin", "", form, nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous create-admin: expected 401, got %d", code)
	}

	var created authBody
	if code := s.do(http.MethodPost, "/admin/user/create-admin", root.Token, form, &created); code != http.StatusOK {
		t.Fatalf("create-admin: expected 200, got %d (%s)", code, created.Error)
	}
	if !created.User.IsAdmin || created.Token != "" {
		t.Fatalf("unexpected create-admin response: %+v", created)
	}

	var login authBody
	s.do(http.MethodPost, "/users/login", "", map[string]string{"email": "deputy@example.com", "password": "pw"}, &login)
	if !login.User.IsAdmin {
		t.Fatalf("new admin must be able to log in as admin")
	}
}

func TestRouter_BooksAndPurchase(t *testing.T) {
	s := newTestServer(t)
	root := s.signup("Root", "root@example.com", "pw", testAdminSecret)
	reader := s.signup("Reader", "reader@example.com", "pw", "")
	book := map[string]any{"name": "go", "title": "The Go Book", "category": "free", "price": 0}

	if code := s.do(http.MethodPost, "/books", "", book, nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: expected 401, got %d", code)
	}
	if code := s.do(http.MethodPost, "/books", reader.Token, book, nil); code != http.StatusForbidden {
		t.Fatalf("non-admin create: expected 403, got %d", code)
	}

	var created domain.Book
	if code := s.do(http.MethodPost, "/books", root.Token, book, &created); code != http.StatusCreated {
		t.Fatalf("admin create: expected 201, got %d", code)
	}

	var listed []domain.Book
	if code := s.do(http.MethodGet, "/books?category=free", "", nil, &listed); code != http.StatusOK || len(listed) != 1 {
		t.Fatalf("list: %d %+v", code, listed)
	}
	if code := s.do(http.MethodGet, "/books/nope", "", nil, nil); code != http.StatusNotFound {
		t.Fatalf("unknown book: expected 404, got %d", code)
	}

	book["price"] = 15.5
	var updated domain.Book
	if code := s.do(http.MethodPut, "/books/"+created.ID, root.Token, book, &updated); code != http.StatusOK || updated.Price != 15.5 {
		t.Fatalf("update: %d %+v", code, updated)
	}

	card := map[string]string{"cardNumber": "4242 4242 4242 4242", "expiry": "12/49", "cvv": "123"}
	if code := s.do(http.MethodPost, "/books/"+created.ID+"/purchase", "", card, nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous purchase: expected 401, got %d", code)
	}

	var bought struct {
		Purchase domain.Purchase `json:"purchase"`
	}
	if code := s.do(http.MethodPost, "/books/"+created.ID+"/purchase", reader.Token, card, &bought, "Idempotency-Key", "k-1"); code != http.StatusCreated {
		t.Fatalf("purchase: expected 201, got %d", code)
	}
	if bought.Purchase.Amount != 15.5 || bought.Purchase.CardLast4 != "4242" {
		t.Fatalf("unexpected purchase: %+v", bought.Purchase)
	}
	if code := s.do(http.MethodPost, "/books/"+created.ID+"/purchase", reader.Token, card, nil, "Idempotency-Key", "k-1"); code != http.StatusConflict {
		t.Fatalf("replayed purchase: expected 409, got %d", code)
	}

	if code := s.do(http.MethodDelete, "/books/"+created.ID, reader.Token, nil, nil); code != http.StatusForbidden {
		t.Fatalf("non-admin delete: expected 403, got %d", code)
	}
	if code := s.do(http.MethodDelete, "/books/"+created.ID, root.Token, nil, nil); code != http.StatusNoContent {
		t.Fatalf("admin delete: expected 204, got %d", code)
	}
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)
	if code := s.do(http.MethodGet, "/health", "", nil, nil); code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", code)
	}
	if code := s.do(http.MethodGet, "/health/ready", "", nil, nil); code != http.StatusOK {
		t.Fatalf("ready with no dependencies: expected 200, got %d", code)
	}
}
