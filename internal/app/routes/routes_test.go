package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dongliang3571/kanic-server/internal/domain/models"
	"github.com/dongliang3571/kanic-server/internal/domain/services"
	"github.com/dongliang3571/kanic-server/internal/domain/services/container"
	"github.com/dongliang3571/kanic-server/internal/error/code"
	"github.com/dongliang3571/kanic-server/internal/infrastructure/config"
	"github.com/dongliang3571/kanic-server/internal/test/testdb"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t         *testing.T
	router    *gin.Engine
	container *container.ServiceContainer
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:      "routes-secret",
		JWTExpiration:     600000 * time.Second,
		SessionTTL:        time.Hour,
		SessionCookieName: "sessionid",
		RateLimitRPS:      1000,
		RateLimitBurst:    1000,
		CORSAllowOrigins:  []string{"http://localhost:8000"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	c := container.NewServiceContainer(testdb.New(t), cfg, nil)
	t.Cleanup(c.Close)
	return &testServer{t: t, router: SetupRouter(c), container: c}
}

func (s *testServer) do(method, path string, body interface{}, header http.Header) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func (s *testServer) accounts() services.InterfaceAccountService {
	return s.container.GetService("account").(services.InterfaceAccountService)
}

func (s *testServer) createUser(email, phone string, mechanic bool) *models.Account {
	s.t.Helper()
	a, err := s.accounts().CreateUser(context.Background(), services.CreateUserParams{
		Email: email, Phone: phone, Password: "pw", IsMechanic: mechanic,
	})
	require.NoError(s.t, err)
	return a
}

func (s *testServer) token(email string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api-beta/auth/token", gin.H{"email": email, "password": "pw"}, nil)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var payload struct {
		Token string `json:"token"`
	}
	decode(s.t, w, &payload)
	return payload.Token
}

func TestCreateUserIsPublic(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := s.do(http.MethodPost, "/api-beta/users", gin.H{
		"email": "mech@Example.com", "phone": "100", "password": "pw", "is_mechanic": true,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user struct {
		Email    string `json:"email"`
		Mechanic *struct {
			MechanicID uint `json:"mechanic_id"`
		} `json:"mechanic"`
	}
	decode(t, w, &user)
	assert.Equal(t, "mech@example.com", user.Email)
	require.NotNil(t, user.Mechanic)
	assert.NotZero(t, user.Mechanic.MechanicID)

	w = s.do(http.MethodPost, "/api-beta/users/create", gin.H{"email": "mech@example.com", "phone": "101"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, code.ErrEmailExists, decode(t, w, nil).Code)

	w = s.do(http.MethodPost, "/api-beta/users", gin.H{"phone": "102"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, code.ErrEmailRequired, env.Code)
	assert.Contains(t, env.Message, "must have an email")

	w = s.do(http.MethodPost, "/api-beta/users", gin.H{"email": "x@example.com"}, nil)
	assert.Equal(t, code.ErrPhoneRequired, decode(t, w, nil).Code)
}

func TestProtectedRoutesRejectMissingCredentials(t *testing.T) {
	s := newTestServer(t, testConfig())

	w := s.do(http.MethodGet, "/api-beta/users", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, code.ErrAuthRequired, decode(t, w, nil).Code)

	w = s.do(http.MethodGet, "/api-beta/users", nil, bearer("garbage"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, code.ErrTokenInvalid, decode(t, w, nil).Code)

	w = s.do(http.MethodGet, "/api-beta/requests", nil, http.Header{"Authorization": []string{"Basic abc"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIssuedTokenAuthenticates(t *testing.T) {
	s := newTestServer(t, testConfig())
	s.createUser("owner@example.com", "200", false)
	s.createUser("mech@example.com", "201", true)

	w := s.do(http.MethodPost, "/api-beta/auth/token", gin.H{"email": "owner@example.com", "password": "bad"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, code.ErrCredentialsInvalid, decode(t, w, nil).Code)

	w = s.do(http.MethodPost, "/api-beta/auth/token", gin.H{"email": "owner@example.com", "password": "pw"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var payload struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decode(t, w, &payload)
	assert.Equal(t, "owner@example.com", payload.User.Email)

	w = s.do(http.MethodGet, "/api-beta/users?role=mechanic", nil, bearer(payload.Token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list struct {
		Total int64 `json:"total"`
		Data  []struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	decode(t, w, &list)
	assert.Equal(t, int64(1), list.Total)
	assert.Equal(t, "mech@example.com", list.Data[0].Email)

	w = s.do(http.MethodGet, "/api-beta/users/mech@example.com", nil, http.Header{"Authorization": []string{"JWT " + payload.Token}})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api-beta/users?role=admin", nil, bearer(payload.Token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInactiveAccountTokenRejected(t *testing.T) {
	s := newTestServer(t, testConfig())
	account := s.createUser("gone@example.com", "300", false)
	token := s.token("gone@example.com")

	account.IsActive = false
	require.NoError(t, s.accounts().SaveAccount(context.Background(), account))

	w := s.do(http.MethodGet, "/api-beta/users", nil, bearer(token))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, code.ErrAccountInactive, decode(t, w, nil).Code)
}

func TestSessionLoginAndLogout(t *testing.T) {
	s := newTestServer(t, testConfig())
	s.createUser("sess@example.com", "400", false)

	w := s.do(http.MethodPost, "/api/auth/login", gin.H{"email": "sess@example.com", "password": "pw"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "sessionid" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	withCookie := http.Header{"Cookie": []string{cookie.Name + "=" + cookie.Value}}

	w = s.do(http.MethodGet, "/api-beta/users", nil, withCookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/auth/logout", nil, withCookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api-beta/users", nil, withCookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServiceCatalog(t *testing.T) {
	s := newTestServer(t, testConfig())
	s.createUser("owner@example.com", "500", false)
	_, err := s.accounts().CreateSuperuser(context.Background(), "admin@example.com", "501", "pw")
	require.NoError(t, err)

	owner := bearer(s.token("owner@example.com"))
	admin := bearer(s.token("admin@example.com"))

	w := s.do(http.MethodPost, "/api-beta/services", gin.H{"name": "Oil change", "price": 40}, owner)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api-beta/services", gin.H{"name": "Oil change", "price": 40}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var list struct {
		Total int64 `json:"total"`
	}
	w = s.do(http.MethodGet, "/api-beta/services", nil, owner)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Equal(t, int64(1), list.Total)

	w = s.do(http.MethodGet, "/api-beta/services", nil, owner)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	w = s.do(http.MethodPost, "/api-beta/services", gin.H{"name": "Brakes", "price": 120}, admin)
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api-beta/services", nil, owner)
	assert.Empty(t, w.Header().Get("X-Cache"))
	decode(t, w, &list)
	assert.Equal(t, int64(2), list.Total)

	w = s.do(http.MethodPost, "/api-beta/services", gin.H{"name": "Brakes", "price": 1}, admin)
	assert.Equal(t, code.ErrServiceExists, decode(t, w, nil).Code)

	w = s.do(http.MethodGet, "/api-beta/services/999", nil, owner)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestsVisibility(t *testing.T) {
	s := newTestServer(t, testConfig())
	s.createUser("owner@example.com", "600", false)
	s.createUser("other@example.com", "601", false)
	mechanic := s.createUser("mech@example.com", "602", true)

	service := &models.Service{Name: "Diagnostics", Price: 80}
	require.NoError(t, s.container.GetService("catalog").(services.InterfaceCatalogService).CreateService(context.Background(), service))

	owner := bearer(s.token("owner@example.com"))
	other := bearer(s.token("other@example.com"))
	mech := bearer(s.token("mech@example.com"))

	w := s.do(http.MethodPost, "/api-beta/requests/create", gin.H{
		"service_id": service.ID, "mechanic_id": mechanic.Mechanic.ID,
		"car_make": "Toyota", "car_model": "Corolla", "address": "9 Elm St",
	}, owner)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID       uint   `json:"id"`
		Status   string `json:"status"`
		Mechanic struct {
			User struct {
				Email string `json:"email"`
			} `json:"user"`
		} `json:"mechanic"`
	}
	decode(t, w, &created)
	assert.Equal(t, models.RequestStatusPending, created.Status)
	assert.Equal(t, "mech@example.com", created.Mechanic.User.Email)

	path := fmt.Sprintf("/api-beta/requests/%d", created.ID)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, path, nil, owner).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, path, nil, mech).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, nil, other).Code)

	var list struct {
		Total int64 `json:"total"`
	}
	decode(t, s.do(http.MethodGet, "/api-beta/requests", nil, other), &list)
	assert.Zero(t, list.Total)

	w = s.do(http.MethodPost, "/api-beta/requests", gin.H{"service_id": service.ID}, owner)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, code.ErrBind, decode(t, w, nil).Code)
}

func TestBetaSignUp(t *testing.T) {
	s := newTestServer(t, testConfig())

	form := url.Values{"name": {"Ann"}, "email": {"not-an-email"}, "zipCode": {"11A73"}, "car": {"True"}}
	req := httptest.NewRequest(http.MethodPost, "/beta/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var fieldErrs map[string]string
	env := decode(t, w, &fieldErrs)
	assert.Equal(t, code.ErrFormInvalid, env.Code)
	assert.Equal(t, "must use a valid email", fieldErrs["email"])
	assert.Equal(t, "zip code must be numbers", fieldErrs["zipCode"])

	form.Set("email", "Ann@Example.com")
	form.Set("zipCode", "11373")
	req = httptest.NewRequest(http.MethodPost, "/beta/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var tester models.Tester
	decode(t, w, &tester)
	assert.Equal(t, "ann", tester.Name)
	assert.Equal(t, "ann@example.com", tester.Email)
	assert.True(t, tester.Car)

	w = s.do(http.MethodPost, "/beta/mechanics", gin.H{
		"first_name": "Bo", "last_name": "Li", "email": "bo@example.com", "is_certified": "True", "work_type": "XX",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var mechanicErrs map[string]string
	decode(t, w, &mechanicErrs)
	assert.Equal(t, map[string]string{"work_type": "select a valid choice"}, mechanicErrs)

	w = s.do(http.MethodPost, "/beta/mechanics", gin.H{
		"first_name": "Bo", "last_name": "Li", "email": "bo@example.com", "is_certified": "True", "work_type": "FT",
	}, nil)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestRateLimitedAuthRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	s := newTestServer(t, cfg)

	body := gin.H{"email": "nobody@example.com", "password": "pw"}
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api-beta/auth/token", body, nil).Code)

	w := s.do(http.MethodPost, "/api-beta/auth/token", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, code.ErrTooManyRequests, decode(t, w, nil).Code)
}

func TestRateLimitIgnoresForwardedFor(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	s := newTestServer(t, cfg)

	body := gin.H{"email": "nobody@example.com", "password": "pw"}
	limited := 0
	for i := 0; i < 5; i++ {
		header := http.Header{"X-Forwarded-For": []string{fmt.Sprintf("10.0.0.%d", i+1)}}
		if s.do(http.MethodPost, "/api-beta/auth/token", body, header).Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 4, limited)
}

func TestRateLimitTrustedProxyForwardedFor(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1
	cfg.TrustedProxies = []string{"192.0.2.0/24"}
	s := newTestServer(t, cfg)

	body := gin.H{"email": "nobody@example.com", "password": "pw"}
	first := http.Header{"X-Forwarded-For": []string{"10.0.0.1"}}
	second := http.Header{"X-Forwarded-For": []string{"10.0.0.2"}}
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api-beta/auth/token", body, first).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api-beta/auth/token", body, second).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(http.MethodPost, "/api-beta/auth/token", body, first).Code)
}

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t, testConfig())

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/ping", nil, nil).Code)

	w := s.do(http.MethodGet, "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var checks map[string]string
	decode(t, w, &checks)
	assert.Equal(t, "ok", checks["database"])
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api-beta/users", nil)
	req.Header.Set("Origin", "http://localhost:8000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:8000", w.Header().Get("Access-Control-Allow-Origin"))
}
