// apps/go-server/internal/httpserver/auth.go
//
// Players and bearer tokens.
//   - POST /players     {name, pin}      → {id, name}
//   - POST /auth/token  {playerId, pin}  → {token, expiresAt}
//   - requireAuth: verifies the HS256 JWT and loads the player.
//
// PINs are short numeric secrets typed on a shared family tablet; they are
// stored as bcrypt hashes.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/memorylane/apps/go-server/internal/store"
)

type createPlayerReq struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
}

type playerRes struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type tokenReq struct {
	PlayerID string `json:"playerId"`
	PIN      string `json:"pin"`
}

type tokenRes struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// validatePlayer enforces basic name/PIN rules.
func validatePlayer(name, pin string) error {
	if n := len([]rune(name)); n < 1 || n > 40 {
		return errors.New("name must be 1-40 chars")
	}
	if len(pin) < 4 || len(pin) > 8 {
		return errors.New("pin must be 4-8 digits")
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return errors.New("pin must be 4-8 digits")
		}
	}
	return nil
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var body createPlayerReq
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if err := validatePlayer(body.Name, body.PIN); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h, err := bcrypt.GenerateFromPassword([]byte(body.PIN), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "hash_failed")
		return
	}
	p := store.Player{ID: s.newID(), Name: body.Name, PinHash: string(h), CreatedAt: s.now()}
	if err := s.store.CreatePlayer(r.Context(), p); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("create player")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusCreated, playerRes{ID: p.ID, Name: p.Name})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var body tokenReq
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	p, err := s.store.GetPlayer(r.Context(), body.PlayerID)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(p.PinHash), []byte(body.PIN)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	tok, exp, err := s.signJWT(p.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	writeJSON(w, http.StatusOK, tokenRes{Token: tok, ExpiresAt: exp})
}

// signJWT creates an HS256 JWT for a player, valid for cfg.JWTExpires.
func (s *Server) signJWT(playerID string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.JWTExpires)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  playerID,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// bearer extracts the token from "Authorization: Bearer <token>".
func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// ctxPlayerKey is the context key type for the authenticated player.
type ctxPlayerKey struct{}

// requireAuth enforces a valid JWT and injects the player into the request
// context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := bearer(r)
		if tokenStr == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(s.cfg.JWTSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		id, _ := claims["id"].(string)
		if id == "" {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		// Ensure player still exists
		p, err := s.store.GetPlayer(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxPlayerKey{}, &p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentPlayer returns the player placed by requireAuth.
func currentPlayer(r *http.Request) *store.Player {
	p, _ := r.Context().Value(ctxPlayerKey{}).(*store.Player)
	return p
}
