package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sroche/yogabook/internal/repository"
)

// Principal is the authenticated identity attached to a request after the
// bearer token has been verified and the backing user row loaded.
//
// It is derived per request and threaded through the request context — never
// stored in package-level state — so a pooled handler goroutine can never
// observe a principal from an unrelated request.
type Principal struct {
	ID        int64
	Username  string // the user's email, as carried in the token subject
	FirstName string
	LastName  string
	Admin     bool
}

// contextKey is an unexported type used for context keys in this package.
//
// context.WithValue uses any as the key type. Using a package-private type
// prevents collisions: only THIS package can create a key of type
// contextKey, so only this package can read or write the principal.
type contextKey string

const principalKey contextKey = "principal"

// Authenticate extracts and verifies a bearer token, resolving it to a
// Principal in the request context.
//
// It never blocks a request. The chain always continues:
//  1. No Authorization header, or one without the "Bearer " scheme prefix →
//     continue anonymous.
//  2. Token fails verification (malformed, expired, bad signature) →
//     continue anonymous. Failures are swallowed, not surfaced.
//  3. Subject doesn't resolve to a user row → continue anonymous.
//  4. Otherwise install the Principal and continue authenticated.
//
// Rejection is RequireAuth's job — keeping the two concerns separate lets
// public routes (the auth endpoints) share this middleware with protected
// ones.
func Authenticate(tokens *TokenService, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p := resolvePrincipal(r, tokens, users); p != nil {
				r = r.WithContext(ContextWithPrincipal(r.Context(), p))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth blocks anonymous requests with 401. It must run after
// Authenticate on the same route.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ContextWithPrincipal returns a copy of ctx carrying the principal. Only
// Authenticate and test harnesses that need an authenticated request should
// call this.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext retrieves the authenticated principal from the
// request context. Returns (nil, false) if the request is anonymous.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok && p != nil
}

// resolvePrincipal performs the header → token → user lookup chain.
// Any failure along the way yields nil (anonymous).
func resolvePrincipal(r *http.Request, tokens *TokenService, users repository.UserRepository) *Principal {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil
	}

	if !tokens.Verify(token) {
		return nil
	}

	user, err := users.GetUserByEmail(r.Context(), tokens.Subject(token))
	if err != nil {
		return nil
	}

	return &Principal{
		ID:        user.ID,
		Username:  user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Admin:     user.Admin,
	}
}
