// Package store implements the session store: one in-memory slot mirrored to
// durable local storage so a session survives process restarts.
package store

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/uninotice/platform/domains/identity/be/service"
	"github.com/uninotice/platform/platform/go/localstate"
)

// sessionKey is the single durable key used by the store.
const sessionKey = "auth_session"

// sessionSchema guards restore: a durable record that does not match is
// treated as absent and erased, never as an error.
const sessionSchema = `{
  "type": "object",
  "required": ["id", "email", "domain"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "email": {"type": "string", "minLength": 1},
    "domain": {"type": "string", "enum": ["platform_operator", "tenant_user"]},
    "tenant_id": {"type": "string"},
    "profile": {"type": "object", "additionalProperties": {"type": "string"}}
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
)

func schema() *jsonschema.Schema {
	compileOnce.Do(func() {
		compiledSchema = jsonschema.MustCompileString("session.json", sessionSchema)
	})
	return compiledSchema
}

// sessionRecord is the durable wire form of a session.
type sessionRecord struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Domain   string            `json:"domain"`
	TenantID string            `json:"tenant_id,omitempty"`
	Profile  map[string]string `json:"profile,omitempty"`
}

// SessionStore holds the sole live session of this process.
type SessionStore struct {
	mu      sync.Mutex
	current *service.Session
	kv      localstate.Store
}

// New constructs a SessionStore over the given durable key-value port.
func New(kv localstate.Store) *SessionStore {
	if kv == nil {
		panic("localstate store is required")
	}
	return &SessionStore{kv: kv}
}

// Set overwrites the in-memory slot and mirrors the full identity durably as
// one atomic write.
func (s *SessionStore) Set(session service.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(toRecord(session))
	if err != nil {
		return err
	}
	if err := s.kv.Put(sessionKey, data); err != nil {
		return err
	}

	s.current = &session
	return nil
}

// Get returns the in-memory session; on an empty slot it attempts to restore
// the durable copy. Malformed durable records are erased and reported absent.
func (s *SessionStore) Get() (service.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return *s.current, true
	}

	data, err := s.kv.Get(sessionKey)
	if err != nil {
		return service.Session{}, false
	}

	session, ok := decode(data)
	if !ok {
		// Partially written or tampered record; drop it.
		_ = s.kv.Delete(sessionKey)
		return service.Session{}, false
	}

	s.current = &session
	return session, true
}

// Clear empties both the in-memory slot and the durable copy. Idempotent.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	return s.kv.Delete(sessionKey)
}

func decode(data []byte) (service.Session, bool) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return service.Session{}, false
	}
	if err := schema().Validate(doc); err != nil {
		return service.Session{}, false
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return service.Session{}, false
	}

	domain := service.Domain(strings.TrimSpace(rec.Domain))
	if !domain.Valid() {
		return service.Session{}, false
	}

	return service.Session{Identity: service.Identity{
		ID:       rec.ID,
		Email:    rec.Email,
		Domain:   domain,
		TenantID: rec.TenantID,
		Profile:  rec.Profile,
	}}, true
}

func toRecord(session service.Session) sessionRecord {
	return sessionRecord{
		ID:       session.ID,
		Email:    session.Email,
		Domain:   string(session.Domain),
		TenantID: session.TenantID,
		Profile:  session.Profile,
	}
}

var _ service.SessionStore = (*SessionStore)(nil)
