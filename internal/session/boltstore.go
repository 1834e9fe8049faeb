package session

import (
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.etcd.io/bbolt"
)

var sessionsBucket = []byte("sessions")

const defaultMaxAge = 86400 * 30

// BoltStore keeps session values server-side in a bbolt bucket. The cookie
// only carries the signed session id.
//
// Each record is an 8-byte big-endian unix expiry followed by the
// securecookie-encoded values.
type BoltStore struct {
	db      *bbolt.DB
	Codecs  []securecookie.Codec
	Options *sessions.Options
}

// OpenBolt opens (or creates) the session database at path.
func OpenBolt(path string) (*bbolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	return db, nil
}

func NewBoltStore(db *bbolt.DB, keyPairs ...[]byte) (*BoltStore, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create sessions bucket: %w", err)
	}

	s := &BoltStore{
		db:     db,
		Codecs: securecookie.CodecsFromPairs(keyPairs...),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   defaultMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
	s.MaxAge(s.Options.MaxAge)
	return s, nil
}

// MaxAge sets the lifetime of new sessions and of the codecs' timestamps.
func (s *BoltStore) MaxAge(age int) {
	s.Options.MaxAge = age
	for _, codec := range s.Codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(age)
		}
	}
}

func (s *BoltStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New returns the stored session for the request cookie, or a fresh one when
// the cookie is absent, tampered with, expired or unknown.
func (s *BoltStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, c.Value, &session.ID, s.Codecs...); err != nil {
		session.ID = ""
		return session, nil
	}

	found, err := s.load(session, time.Now())
	if err != nil {
		return session, err
	}
	if !found {
		session.ID = ""
		return session, nil
	}

	session.IsNew = false
	return session, nil
}

// Save persists the session and writes the id cookie. A negative MaxAge
// deletes the record and expires the cookie.
func (s *BoltStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.erase(session.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}
	if err := s.save(session, time.Now()); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return fmt.Errorf("encode session id: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Renew drops the stored record and clears the id, so the next Save writes
// the values under a new one.
func (s *BoltStore) Renew(session *sessions.Session) error {
	if session.ID == "" {
		return nil
	}
	if err := s.erase(session.ID); err != nil {
		return err
	}
	session.ID = ""
	return nil
}

// PurgeExpired removes every record whose expiry is before now.
func (s *BoltStore) PurgeExpired(now time.Time) (int, error) {
	var purged int
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(sessionsBucket)
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			if expired(v, now) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		purged = len(stale)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return purged, nil
}

func (s *BoltStore) save(session *sessions.Session, now time.Time) error {
	encoded, err := securecookie.EncodeMulti(session.Name(), session.Values, s.Codecs...)
	if err != nil {
		return fmt.Errorf("encode session values: %w", err)
	}

	ttl := session.Options.MaxAge
	if ttl == 0 {
		ttl = s.Options.MaxAge
	}
	if ttl <= 0 {
		ttl = defaultMaxAge
	}
	expires := now.Add(time.Duration(ttl) * time.Second)

	record := make([]byte, 8+len(encoded))
	binary.BigEndian.PutUint64(record[:8], uint64(expires.Unix()))
	copy(record[8:], encoded)

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(session.ID), record)
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *BoltStore) load(session *sessions.Session, now time.Time) (bool, error) {
	var record []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(sessionsBucket).Get([]byte(session.ID)); v != nil {
			record = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("read session: %w", err)
	}
	if record == nil || expired(record, now) {
		return false, nil
	}

	if err := securecookie.DecodeMulti(session.Name(), string(record[8:]), &session.Values, s.Codecs...); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *BoltStore) erase(id string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func expired(record []byte, now time.Time) bool {
	if len(record) < 8 {
		return true
	}
	return int64(binary.BigEndian.Uint64(record[:8])) < now.Unix()
}
