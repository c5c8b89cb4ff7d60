package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"construtora/internal"
	"construtora/internal/auth"
	"construtora/internal/documents"
	"construtora/internal/metrics"
	"construtora/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyUser contextKey = "user"
)

var errUnauthenticated = errors.New("not authenticated")

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		elapsed := time.Since(started)
		metrics.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(rw.statusCode)).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method).Observe(elapsed.Seconds())

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": elapsed.Milliseconds(),
		}).Info("http request")
	})
}

type identity struct {
	Subject    string
	Email      string
	GivenName  string
	FamilyName string
}

// tokenIdentity reads the encrypted access token cookie and verifies the JWT
// inside against the Cognito key set.
func (s *Service) tokenIdentity(r *http.Request) (*identity, error) {
	cookie, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME)
	if err != nil {
		return nil, errUnauthenticated
	}

	var accessToken string
	err = s.cookie.Decode(internal.COOKIE_ACCESS_TOKEN_NAME, cookie.Value, &accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}

	return s.verifyToken(r.Context(), accessToken)
}

func (s *Service) verifyToken(ctx context.Context, raw string) (*identity, error) {
	set, err := s.jwksCache.Lookup(ctx, s.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, errors.New("no user ID in JWT subject claim")
	}

	id := &identity{Subject: subject}
	// optional claims, present on ID tokens only
	_ = token.Get("email", &id.Email)
	_ = token.Get("given_name", &id.GivenName)
	_ = token.Get("family_name", &id.FamilyName)

	return id, nil
}

// RequireAuth resolves the caller to an active user and puts it on the
// request context. Browsers are sent to /login, API clients get a 401.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := s.authenticate(r)
		if err != nil {
			s.logger.WithError(err).Debug("request is not authenticated")
			if wantsHTML(r) {
				s.setRedirectCookie(w, r.URL.Path, time.Minute*5)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			s.writeError(w, http.StatusUnauthorized, errUnauthenticated)
			return
		}

		user, err := s.users.User(r.Context(), id.Subject)
		if err != nil {
			if errors.Is(err, types.ErrUserNotFound) {
				s.writeError(w, http.StatusForbidden, errors.New("user has no profile, log in again"))
				return
			}
			s.logger.WithError(err).Error("failed to load user")
			s.internalServerError(w)
			return
		}

		if !user.Active {
			s.writeError(w, http.StatusForbidden, errors.New("user is inactive"))
			return
		}

		s.logger.WithFields(logrus.Fields{
			"user_id": user.ID,
			"role_id": user.RoleID,
		}).Debug("authenticated user")

		ctx := context.WithValue(r.Context(), contextKeyUser, user)
		ctx = documents.ContextWithActor(ctx, user.ID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) userFromContext(ctx context.Context) (*types.User, error) {
	user, ok := ctx.Value(contextKeyUser).(*types.User)
	if !ok || user == nil {
		return nil, fmt.Errorf("user not found in context")
	}
	return user, nil
}

// allow wraps h so it only runs for users holding every capability.
func (s *Service) allow(h http.HandlerFunc, capabilities ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.userFromContext(r.Context())
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, errUnauthenticated)
			return
		}

		if !auth.CanAccessAll(user, capabilities...) {
			s.logger.WithFields(logrus.Fields{
				"user_id":      user.ID,
				"capabilities": capabilities,
				"path":         r.URL.Path,
			}).Info("capability check failed")
			s.writeError(w, http.StatusForbidden, errors.New("missing permission"))
			return
		}

		h(w, r)
	}
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			// 308 keeps the method and body of uploads
			http.Redirect(w, r, newURL.String(), http.StatusPermanentRedirect)
			return
		}

		next.ServeHTTP(w, r)
	})
}
