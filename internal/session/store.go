package session

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/taskdeck/webapp/internal/contracts"
)

const (
	TokenCookie = "token"
	UserCookie  = "user"

	DefaultMaxAge = 7 * 24 * time.Hour
)

// Session is the cookie-backed credential pair: the task service bearer token
// and the reconciled identity. Token may be empty after a degraded login
// (auth provider succeeded, task service did not).
type Session struct {
	Token    string
	Identity contracts.Identity
}

// Store reads and writes the two session cookies. The max-age is fixed at
// write time; there is no sliding expiry.
type Store struct {
	Codec  Codec
	Secure bool
	MaxAge time.Duration
}

func NewStore(secret string, secure bool) Store {
	return Store{
		Codec:  NewCodec(secret),
		Secure: secure,
		MaxAge: DefaultMaxAge,
	}
}

// Read returns the session from the request cookies. A missing cookie, a
// value that fails to open, or an identity that fails to parse all yield
// absent: a broken session reads as logged out.
func (s Store) Read(r *http.Request) (Session, bool) {
	tokenCookie, err := r.Cookie(TokenCookie)
	if err != nil {
		return Session{}, false
	}
	token, ok := s.Codec.Open(tokenCookie.Value)
	if !ok {
		return Session{}, false
	}

	userCookie, err := r.Cookie(UserCookie)
	if err != nil {
		return Session{}, false
	}
	userJSON, ok := s.Codec.Open(userCookie.Value)
	if !ok {
		return Session{}, false
	}
	var identity contracts.Identity
	if err := json.Unmarshal(userJSON, &identity); err != nil {
		return Session{}, false
	}

	return Session{Token: string(token), Identity: identity}, true
}

// Write sets both cookies. The token cookie is skipped when the token is
// empty, which happens after a provider-only login. The two cookie writes are
// not transactional; a failure between them is accepted.
func (s Store) Write(w http.ResponseWriter, token string, identity contracts.Identity) error {
	if token != "" {
		sealed, err := s.Codec.Seal([]byte(token))
		if err != nil {
			return err
		}
		http.SetCookie(w, s.cookie(TokenCookie, sealed, int(s.maxAge().Seconds())))
	}

	userJSON, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	sealed, err := s.Codec.Seal(userJSON)
	if err != nil {
		return err
	}
	http.SetCookie(w, s.cookie(UserCookie, sealed, int(s.maxAge().Seconds())))
	return nil
}

// Clear deletes both cookies. Always succeeds, including when the cookies
// were never set.
func (s Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie(TokenCookie, "", -1))
	http.SetCookie(w, s.cookie(UserCookie, "", -1))
}

func (s Store) maxAge() time.Duration {
	if s.MaxAge <= 0 {
		return DefaultMaxAge
	}
	return s.MaxAge
}

func (s Store) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
