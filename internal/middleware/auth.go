package middleware

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type ctxKey int

const userIDKey ctxKey = iota

// UserIDFrom returns the authenticated user id placed in ctx by RequireAuth.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID returns a context carrying id. Handlers tests use it to skip
// token verification.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// VerifierConfig lists the accepted signing keys and the optional claim checks.
// At least one of HMACSecret and RSAPublicKeyPEM must be set.
type VerifierConfig struct {
	HMACSecret      []byte
	RSAPublicKeyPEM []byte
	Issuer          string
	Audience        string
}

// Verifier validates bearer tokens issued by the identity provider. The
// subject claim is the user id.
type Verifier struct {
	secret  []byte
	rsaKey  *rsa.PublicKey
	methods []string
	opts    []jwt.ParserOption
}

func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	v := &Verifier{secret: cfg.HMACSecret}
	if len(cfg.HMACSecret) > 0 {
		v.methods = append(v.methods, jwt.SigningMethodHS256.Alg())
	}
	if len(cfg.RSAPublicKeyPEM) > 0 {
		key, err := jwt.ParseRSAPublicKeyFromPEM(cfg.RSAPublicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("parse rsa public key: %w", err)
		}
		v.rsaKey = key
		v.methods = append(v.methods, jwt.SigningMethodRS256.Alg())
	}
	if len(v.methods) == 0 {
		return nil, errors.New("verifier needs an hmac secret or an rsa public key")
	}

	v.opts = []jwt.ParserOption{jwt.WithValidMethods(v.methods), jwt.WithExpirationRequired()}
	if cfg.Issuer != "" {
		v.opts = append(v.opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		v.opts = append(v.opts, jwt.WithAudience(cfg.Audience))
	}
	return v, nil
}

// Verify parses tokenStr and returns its subject.
func (v *Verifier) Verify(tokenStr string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, v.keyFunc, v.opts...)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if len(v.secret) > 0 {
			return v.secret, nil
		}
	case *jwt.SigningMethodRSA:
		if v.rsaKey != nil {
			return v.rsaKey, nil
		}
	}
	return nil, jwt.ErrSignatureInvalid
}

type AuthMiddleware struct {
	verifier *Verifier
	logger   *zap.Logger
}

func NewAuthMiddleware(verifier *Verifier, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{verifier: verifier, logger: logger}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token subject as the request's user id.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}
		userID, err := m.verifier.Verify(strings.TrimPrefix(authz, "Bearer "))
		if err != nil {
			m.logger.Debug("rejected token", zap.Error(err))
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		setLoggedUser(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}
