package rest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openbid/auction-exchange-backend/internal/domain/values"
)

type contextKey string

const principalKey contextKey = "principal"

// jwtPayload is the gateway-decoded token body carried in X-JWT-PAYLOAD.
type jwtPayload struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	UserTyp string `json:"u_typ"`
}

// azureClaim is one entry of the X-MS-CLIENT-PRINCIPAL claims blob.
type azureClaim struct {
	Typ string `json:"typ"`
	Val string `json:"val"`
}

type azurePrincipal struct {
	Claims        []azureClaim `json:"claims"`
	NameClaimType string       `json:"name_typ"`
}

// authMiddleware resolves the caller identity and stores it in the
// request context. The service sits behind a gateway that has already
// verified the credentials, so the headers are trusted as-is and a
// Bearer token is decoded without signature verification. Absence or an
// undecodable payload yields no principal; handlers that require one
// reject the request themselves.
func authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if principal := resolvePrincipal(r); principal != nil {
			ctx := context.WithValue(r.Context(), principalKey, principal)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// principalFrom returns the authenticated caller, or nil.
func principalFrom(ctx context.Context) *values.User {
	principal, _ := ctx.Value(principalKey).(*values.User)
	return principal
}

func resolvePrincipal(r *http.Request) *values.User {
	if payload := r.Header.Get("X-JWT-PAYLOAD"); payload != "" {
		return decodeJWTPayload(payload)
	}
	if blob := r.Header.Get("X-MS-CLIENT-PRINCIPAL"); blob != "" {
		return decodeAzurePrincipal(blob)
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return decodeBearer(strings.TrimPrefix(auth, "Bearer "))
	}
	return nil
}

func decodeJWTPayload(payload string) *values.User {
	raw, err := decodeBase64(payload)
	if err != nil {
		return nil
	}
	var claims jwtPayload
	if err := json.Unmarshal(raw, &claims); err != nil || claims.Name == "" {
		return nil
	}
	user := values.NewBuyerOrSeller(values.UserID(claims.Name), claims.Name)
	return &user
}

func decodeAzurePrincipal(blob string) *values.User {
	raw, err := decodeBase64(blob)
	if err != nil {
		return nil
	}
	var principal azurePrincipal
	if err := json.Unmarshal(raw, &principal); err != nil || principal.NameClaimType == "" {
		return nil
	}
	for _, claim := range principal.Claims {
		if claim.Typ == principal.NameClaimType && claim.Val != "" {
			user := values.NewBuyerOrSeller(values.UserID(claim.Val), claim.Val)
			return &user
		}
	}
	return nil
}

func decodeBearer(token string) *values.User {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	name, _ := claims["name"].(string)
	if name == "" {
		return nil
	}
	user := values.NewBuyerOrSeller(values.UserID(name), name)
	return &user
}

// decodeBase64 accepts both standard and URL-safe encodings, padded or
// not, and tolerates surrounding whitespace.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		if raw, err := enc.DecodeString(s); err == nil {
			return raw, nil
		}
	}
	return base64.StdEncoding.DecodeString(s)
}
