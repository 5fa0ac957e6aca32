package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// ContextKey is where the middleware stores the *Principal on echo.Context.
const ContextKey = "principal"

// ErrRevoked is returned for tokens that were logged out.
var ErrRevoked = errors.New("session revoked")

// Principal is the authenticated identity derived from a verified token.
type Principal struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// Guard turns session cookies into principals.
type Guard struct {
	jwt   *JWTService
	store TokenStoreInterface
}

// NewGuard creates a guard. store may be nil, in which case revocation is not checked.
func NewGuard(jwtService *JWTService, store TokenStoreInterface) *Guard {
	return &Guard{jwt: jwtService, store: store}
}

// Authenticate reads the session cookie from r and returns the principal, or
// nil when the cookie is missing or does not verify.
func (g *Guard) Authenticate(r *http.Request) *Principal {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	p, err := g.Verify(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return p
}

// Verify checks a raw token and returns its principal.
func (g *Guard) Verify(ctx context.Context, token string) (*Principal, error) {
	claims, err := g.jwt.Verify(token)
	if err != nil {
		return nil, err
	}

	if g.store != nil && claims.ID != "" {
		revoked, _ := g.store.IsRevoked(ctx, claims.ID)
		if revoked {
			return nil, ErrRevoked
		}
	}

	p := &Principal{
		UserID:  claims.Subject,
		Email:   claims.Email,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

// Middleware rejects requests without a valid session cookie by calling
// onError, and stores the principal under ContextKey otherwise.
func (g *Guard) Middleware(onError func(c echo.Context, err error) error) echo.MiddlewareFunc {
	return echojwt.WithConfig(g.jwtConfig(onError, false))
}

// Optional stores the principal when a valid session cookie is present and
// lets every request through.
func (g *Guard) Optional() echo.MiddlewareFunc {
	ignore := func(c echo.Context, err error) error { return nil }
	return echojwt.WithConfig(g.jwtConfig(ignore, true))
}

func (g *Guard) jwtConfig(onError func(c echo.Context, err error) error, continueOnIgnored bool) echojwt.Config {
	return echojwt.Config{
		ContextKey:             ContextKey,
		TokenLookup:            "cookie:" + CookieName,
		ContinueOnIgnoredError: continueOnIgnored,
		ErrorHandler:           onError,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return g.Verify(c.Request().Context(), token)
		},
	}
}

// FromContext returns the principal stored by the middleware.
func FromContext(c echo.Context) (*Principal, bool) {
	p, ok := c.Get(ContextKey).(*Principal)
	return p, ok && p != nil
}
