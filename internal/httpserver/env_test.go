package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/techstore/internal/location"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/notify"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/testutil"
	"github.com/Skotchmaster/techstore/internal/transport"
	authmw "github.com/Skotchmaster/techstore/pkg/middleware/auth"
	"github.com/Skotchmaster/techstore/pkg/tokens"
)

type testEnv struct {
	E    *echo.Echo
	Repo *repo.GormRepo
	Auth *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	r := repo.New(testutil.NewDB(t))
	issuer := &tokens.Issuer{AccessSecret: []byte("access"), RefreshSecret: []byte("refresh")}

	authSvc := &service.AuthService{Repo: r, Tokens: issuer}
	estimator := location.NewEstimator(location.DevGeocoder{}, location.NewStaticLocator())
	orders := &service.OrderService{Repo: r, Notifier: notify.NewMailer(notify.SMTPConfig{}), Shipping: estimator}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:     &AuthHTTP{Svc: authSvc},
		SocialHandler:   &SocialHTTP{Svc: &service.SocialService{Auth: authSvc}},
		PhoneHandler:    &PhoneHTTP{Svc: &service.PhoneService{Auth: authSvc, SMS: notify.LogSMS{}}},
		CatalogHandler:  &CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
		OrderHandler:    &OrderHTTP{Svc: orders},
		GuestHandler:    &GuestHTTP{Svc: &service.GuestService{Orders: orders, Auth: authSvc}},
		LocationHandler: &LocationHTTP{Estimator: estimator},
		Auth:            authmw.NewAuthenticator(issuer.AccessSecret, r),
	})
	return &testEnv{E: e, Repo: r, Auth: authSvc}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (env *testEnv) customer(t *testing.T, email string) *transport.LoginResult {
	t.Helper()
	res, err := env.Auth.Register(context.Background(), transport.RegisterRequest{
		FullName: "Test Customer", Email: email, Password: "secret123",
	})
	require.NoError(t, err)
	return res
}

func (env *testEnv) admin(t *testing.T) *transport.LoginResult {
	t.Helper()
	res := env.customer(t, "admin@example.com")
	require.NoError(t, env.Repo.DB.Model(res.User).Update("role", models.RoleAdmin).Error)
	res.User.Role = models.RoleAdmin
	out, err := env.Auth.IssueSession(context.Background(), res.User)
	require.NoError(t, err)
	return out
}
