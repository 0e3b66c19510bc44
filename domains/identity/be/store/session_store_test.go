package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uninotice/platform/domains/identity/be/service"
	"github.com/uninotice/platform/platform/go/localstate"
)

func sampleSession() service.Session {
	return service.Session{Identity: service.Identity{
		ID:       "u1",
		Email:    "maria@acme.edu",
		Domain:   service.DomainTenantUser,
		TenantID: "t1",
		Profile: map[string]string{
			"first_name":      "Maria",
			"university_name": "Acme University",
		},
	}}
}

func newFileBacked(t *testing.T) (*SessionStore, *localstate.FileStore) {
	t.Helper()
	kv, err := localstate.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return New(kv), kv
}

func TestSetGetClearRoundTrip(t *testing.T) {
	store, _ := newFileBacked(t)

	require.NoError(t, store.Set(sampleSession()))

	got, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, sampleSession(), got)

	require.NoError(t, store.Clear())
	_, ok = store.Get()
	require.False(t, ok)

	// clear is idempotent
	require.NoError(t, store.Clear())
}

// A fresh store over the same durable directory must reconstruct the session
// in all fields, simulating a process restart.
func TestRestartRestoresSession(t *testing.T) {
	dir := t.TempDir()
	kv, err := localstate.NewFileStore(dir)
	require.NoError(t, err)

	first := New(kv)
	require.NoError(t, first.Set(sampleSession()))

	restartedKV, err := localstate.NewFileStore(dir)
	require.NoError(t, err)
	second := New(restartedKV)

	got, ok := second.Get()
	require.True(t, ok)
	require.Equal(t, sampleSession(), got)
}

func TestMalformedDurableRecordTreatedAsAbsent(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"truncated json", `{"id":"u1","email":`},
		{"missing required fields", `{"id":"u1"}`},
		{"unknown domain", `{"id":"u1","email":"a@b.c","domain":"superuser"}`},
		{"wrong field types", `{"id":42,"email":"a@b.c","domain":"tenant_user"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kv, err := localstate.NewFileStore(t.TempDir())
			require.NoError(t, err)
			require.NoError(t, kv.Put("auth_session", []byte(tc.data)))

			store := New(kv)
			_, ok := store.Get()
			require.False(t, ok)

			// the broken record must have been erased
			_, err = kv.Get("auth_session")
			require.ErrorIs(t, err, localstate.ErrNoValue)
		})
	}
}

func TestSetReplacesPriorSession(t *testing.T) {
	store, _ := newFileBacked(t)

	require.NoError(t, store.Set(sampleSession()))

	operator := service.Session{Identity: service.Identity{
		ID:     "admin1",
		Email:  "admin@platform.com",
		Domain: service.DomainPlatformOperator,
	}}
	require.NoError(t, store.Set(operator))

	got, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, operator, got)
}
