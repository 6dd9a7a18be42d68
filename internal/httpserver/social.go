package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/techstore/internal/service"
	"github.com/Skotchmaster/techstore/internal/social"
	"github.com/Skotchmaster/techstore/internal/transport"
	"github.com/Skotchmaster/techstore/pkg/logging"
)

type SocialHTTP struct {
	Svc           *service.SocialService
	SecureCookies bool
}

// token reads the provider credential: Google sends an id token, Facebook an access token.
func token(c echo.Context, provider string) (string, error) {
	if provider == social.ProviderFacebook {
		var req transport.FacebookTokenRequest
		err := c.Bind(&req)
		return req.AccessToken, err
	}
	var req transport.GoogleTokenRequest
	err := c.Bind(&req)
	return req.Token, err
}

func (h *SocialHTTP) login(provider string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("handler", "social."+provider)

		tok, err := token(c, provider)
		if err != nil {
			return badRequest(l, "social_login", "invalid body", err)
		}

		res, err := h.Svc.Login(ctx, provider, tok)
		if err != nil {
			return fail(l, "social_login", err)
		}

		setSession(c, res, h.SecureCookies)
		l.Info("social_login_success", "provider", provider, "user_id", res.User.ID.String())
		return c.JSON(http.StatusOK, res)
	}
}

func (h *SocialHTTP) link(provider string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("handler", "social.link_"+provider)

		uid, err := currentUser(c)
		if err != nil {
			return err
		}
		tok, err := token(c, provider)
		if err != nil {
			return badRequest(l, "social_link", "invalid body", err)
		}

		if err := h.Svc.Link(ctx, uid, provider, tok); err != nil {
			return fail(l, "social_link", err)
		}

		l.Info("social_link_success", "provider", provider)
		return c.JSON(http.StatusOK, echo.Map{"message": provider + " account linked"})
	}
}

func (h *SocialHTTP) Google(c echo.Context) error   { return h.login(social.ProviderGoogle)(c) }
func (h *SocialHTTP) Facebook(c echo.Context) error { return h.login(social.ProviderFacebook)(c) }

func (h *SocialHTTP) LinkGoogle(c echo.Context) error   { return h.link(social.ProviderGoogle)(c) }
func (h *SocialHTTP) LinkFacebook(c echo.Context) error { return h.link(social.ProviderFacebook)(c) }
