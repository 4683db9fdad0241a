package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	sessionCookieName = "ldmn_session"
	stateCookieName   = "ldmn_oauth_state"
	sessionLifetime   = 12 * time.Hour

	twitchUsersURL = "https://api.twitch.tv/helix/users"
)

// Identity is what the identity provider supplies per connection. It is
// resolved once, at connection time, and never consulted again by the core.
type Identity struct {
	Login        string
	DisplayName  string
	ProfileImage string
}

type sessionClaims struct {
	Login        string `json:"login"`
	DisplayName  string `json:"display_name"`
	ProfileImage string `json:"profile_image,omitempty"`
	jwt.RegisteredClaims
}

func oauthConfig(cfg *Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.twitchClientID,
		ClientSecret: cfg.twitchClientSecret,
		RedirectURL:  cfg.callbackURL,
		Endpoint:     endpoints.Twitch,
	}
}

func signSession(cfg *Config, ident Identity) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Login:        ident.Login,
		DisplayName:  ident.DisplayName,
		ProfileImage: ident.ProfileImage,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionLifetime)),
		},
	})

	return token.SignedString([]byte(cfg.sessionSecret))
}

func parseSession(cfg *Config, raw string) (Identity, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.sessionSecret), nil
	})
	if err != nil || !token.Valid {
		return Identity{}, errors.New("invalid session")
	}

	return Identity{
		Login:        claims.Login,
		DisplayName:  claims.DisplayName,
		ProfileImage: claims.ProfileImage,
	}, nil
}

// identityFromRequest resolves the caller's identity from the session cookie.
// The second return is false for anonymous requests.
func identityFromRequest(cfg *Config, r *http.Request) (Identity, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return Identity{}, false
	}

	ident, err := parseSession(cfg, c.Value)
	if err != nil || ident.Login == "" {
		return Identity{}, false
	}
	return ident, true
}

func newStateToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}

// serveLogin redirects to the identity provider's consent page, with a
// random state token pinned in a short-lived cookie.
func serveLogin(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		state := newStateToken()
		if state == "" {
			http.Error(w, "unable to begin login", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     stateCookieName,
			Value:    state,
			Path:     "/",
			MaxAge:   300,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		http.Redirect(w, r, oauthConfig(cfg).AuthCodeURL(state), http.StatusTemporaryRedirect)
	}
}

type twitchUserResponse struct {
	Data []struct {
		Login           string `json:"login"`
		DisplayName     string `json:"display_name"`
		ProfileImageURL string `json:"profile_image_url"`
	} `json:"data"`
}

func fetchTwitchIdentity(cfg *Config, token *oauth2.Token) (Identity, error) {
	req, err := http.NewRequest(http.MethodGet, twitchUsersURL, nil)
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Client-Id", cfg.twitchClientID)

	resp, err := (&http.Client{Timeout: timeout}).Do(req)
	if err != nil {
		return Identity{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, errors.New("identity lookup failed: " + resp.Status)
	}

	var users twitchUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return Identity{}, err
	}
	if len(users.Data) == 0 {
		return Identity{}, errors.New("identity lookup returned no user")
	}

	return Identity{
		Login:        users.Data[0].Login,
		DisplayName:  users.Data[0].DisplayName,
		ProfileImage: users.Data[0].ProfileImageURL,
	}, nil
}

// serveCallback completes the login: exchanges the code, resolves the Twitch
// user, sets the session cookie, and routes the admin to the console and
// everyone else to the player page.
func serveCallback(cfg *Config, gate *AccessGate) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		stateCookie, err := r.Cookie(stateCookieName)
		if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
			http.Redirect(w, r, cfg.prefix+"/", http.StatusTemporaryRedirect)
			return
		}

		token, err := oauthConfig(cfg).Exchange(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			logf(cfg, "AUTH: Exchange failed: %v", err)
			http.Redirect(w, r, cfg.prefix+"/", http.StatusTemporaryRedirect)
			return
		}

		ident, err := fetchTwitchIdentity(cfg, token)
		if err != nil {
			logf(cfg, "AUTH: %v", err)
			http.Redirect(w, r, cfg.prefix+"/", http.StatusTemporaryRedirect)
			return
		}

		signed, err := signSession(cfg, ident)
		if err != nil {
			http.Error(w, "unable to establish session", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    signed,
			Path:     "/",
			MaxAge:   int(sessionLifetime / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		logf(cfg, "AUTH: %q logged in", ident.Login)

		if gate.IsAdministrator(ident.Login) {
			http.Redirect(w, r, cfg.prefix+"/admin", http.StatusTemporaryRedirect)
		} else {
			http.Redirect(w, r, cfg.prefix+"/player", http.StatusTemporaryRedirect)
		}
	}
}
