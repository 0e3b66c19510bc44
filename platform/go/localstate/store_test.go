package localstate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutGetDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get("session")
	require.ErrorIs(t, err, ErrNoValue)

	require.NoError(t, store.Put("session", []byte(`{"id":"u1"}`)))

	data, err := store.Get("session")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"u1"}`, string(data))

	require.NoError(t, store.Delete("session"))
	_, err = store.Get("session")
	require.ErrorIs(t, err, ErrNoValue)

	// deleting again is not an error
	require.NoError(t, store.Delete("session"))
}

func TestPutOverwrites(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put("session", []byte("first")))
	require.NoError(t, store.Put("session", []byte("second")))

	data, err := store.Get("session")
	require.NoError(t, err)
	require.Equal(t, "second", string(data))
}
