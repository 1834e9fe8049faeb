package session

import (
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"assignboard/internal/logger"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	keyUserID   = "user_id"
	keyUserName = "user_name"
)

// Flash categories, rendered as alert styles.
const (
	Info    = "info"
	Success = "success"
	Warning = "warning"
	Danger  = "danger"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
	gob.Register([]interface{}{})
}

// Identity is what a signed-in session remembers about its user.
type Identity struct {
	UserID int64
	Name   string
}

// Manager reads and writes the application session for one request at a time.
// It holds no per-request state.
type Manager struct {
	store sessions.Store
	name  string
}

func NewManager(store sessions.Store, name string) *Manager {
	return &Manager{store: store, name: name}
}

// renewer is implemented by stores that key sessions server-side and can
// move a session to a fresh id.
type renewer interface {
	Renew(s *sessions.Session) error
}

func (m *Manager) get(r *http.Request) (*sessions.Session, error) {
	s, err := m.store.Get(r, m.name)
	// A cookie that fails to decode yields a fresh session; keep going with it.
	if err != nil && !isDecodeError(err) {
		return nil, fmt.Errorf("get session %q: %w", m.name, err)
	}
	if s == nil {
		return nil, fmt.Errorf("get session %q: no session returned", m.name)
	}
	return s, nil
}

func isDecodeError(err error) bool {
	var scErr securecookie.Error
	return errors.As(err, &scErr) && scErr.IsDecode()
}

// Identity returns the signed-in user, if any. Storage failures are logged
// and treated as signed out.
func (m *Manager) Identity(r *http.Request) (Identity, bool) {
	s, err := m.get(r)
	if err != nil {
		logger.FromContext(r.Context(), slog.Default()).Error("read session", "error", err)
		return Identity{}, false
	}
	id, ok := s.Values[keyUserID].(int64)
	if !ok || id <= 0 {
		return Identity{}, false
	}
	name, _ := s.Values[keyUserName].(string)
	return Identity{UserID: id, Name: name}, true
}

// SignIn stores the identity. Server-side sessions move to a new id first,
// so an id handed out before login is useless afterwards.
func (m *Manager) SignIn(w http.ResponseWriter, r *http.Request, id Identity) error {
	s, err := m.get(r)
	if err != nil {
		return err
	}
	if rn, ok := m.store.(renewer); ok {
		if err := rn.Renew(s); err != nil {
			return err
		}
	}
	s.Values[keyUserID] = id.UserID
	s.Values[keyUserName] = id.Name
	return s.Save(r, w)
}

// SignOut forgets the identity but keeps the session so a flash can follow.
func (m *Manager) SignOut(w http.ResponseWriter, r *http.Request) error {
	s, err := m.get(r)
	if err != nil {
		return err
	}
	delete(s.Values, keyUserID)
	delete(s.Values, keyUserName)
	return s.Save(r, w)
}

func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) error {
	s, err := m.get(r)
	if err != nil {
		return err
	}
	s.AddFlash(Flash{Category: category, Message: message})
	return s.Save(r, w)
}

// Flashes pops all pending flashes.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) ([]Flash, error) {
	s, err := m.get(r)
	if err != nil {
		return nil, err
	}
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil, nil
	}

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		switch f := v.(type) {
		case Flash:
			flashes = append(flashes, f)
		case string:
			flashes = append(flashes, Flash{Category: Info, Message: f})
		}
	}
	return flashes, s.Save(r, w)
}
