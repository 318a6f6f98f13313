package v1

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/google/uuid"

    "github.com/owhenrique/library/internal/library"
)

// AuthConfig carries the signing secret and token lifetime.
type AuthConfig struct {
    Secret   string
    TokenTTL time.Duration
}

// identity is the authenticated caller, as carried in the request context.
type identity struct {
    UserID uuid.UUID
    Role   library.Role
}

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

type accessClaims struct {
    Role string `json:"role"`
    jwt.RegisteredClaims
}

type tokenIssuer struct {
    secret []byte
    ttl    time.Duration
}

func newTokenIssuer(cfg AuthConfig) *tokenIssuer {
    ttl := cfg.TokenTTL
    if ttl == 0 {
        ttl = 30 * time.Minute
    }
    return &tokenIssuer{secret: []byte(cfg.Secret), ttl: ttl}
}

// issue signs an HS256 access token with the user id as subject and the
// role as a private claim.
func (t *tokenIssuer) issue(u library.User) (string, error) {
    now := time.Now().UTC()
    claims := accessClaims{
        Role: string(u.Role),
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   u.ID.String(),
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
        },
    }
    return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// parse verifies the token signature and expiry and extracts the identity.
func (t *tokenIssuer) parse(token string) (identity, error) {
    var claims accessClaims
    _, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (any, error) {
        if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, jwt.ErrSignatureInvalid
        }
        return t.secret, nil
    }, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
    if err != nil {
        return identity{}, err
    }
    userID, err := uuid.Parse(claims.Subject)
    if err != nil {
        return identity{}, err
    }
    role := library.Role(claims.Role)
    if !role.Valid() {
        return identity{}, jwt.ErrTokenInvalidClaims
    }
    return identity{UserID: userID, Role: role}, nil
}

func parseBearerToken(r *http.Request) (string, bool) {
    h := r.Header.Get("Authorization")
    if h == "" {
        return "", false
    }
    if !strings.HasPrefix(h, "Bearer ") && !strings.HasPrefix(h, "bearer ") {
        return "", false
    }
    return strings.TrimSpace(h[len("Bearer "):]), true
}

// requireRole authenticates the request and, when roles are given, gates
// the route to those roles. With no roles any authenticated caller passes.
func (s *Server) requireRole(roles ...library.Role) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            tok, ok := parseBearerToken(r)
            if !ok {
                unauthorized(w, "missing bearer token")
                return
            }
            id, err := s.tokens.parse(tok)
            if err != nil {
                unauthorized(w, "invalid or expired token")
                return
            }
            if len(roles) > 0 {
                allowed := false
                for _, role := range roles {
                    if id.Role == role {
                        allowed = true
                        break
                    }
                }
                if !allowed {
                    forbidden(w)
                    return
                }
            }
            ctx := context.WithValue(r.Context(), ctxKeyIdentity, id)
            next.ServeHTTP(w, r.WithContext(ctx))
        })
    }
}

// callerIdentity returns the authenticated caller stored by requireRole.
func callerIdentity(ctx context.Context) (identity, bool) {
    id, ok := ctx.Value(ctxKeyIdentity).(identity)
    return id, ok
}
