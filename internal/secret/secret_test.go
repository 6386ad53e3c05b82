package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKeyIsDeterministic(t *testing.T) {
	a, err := DeriveKey("hunter2")
	require.NoError(t, err)
	b, err := DeriveKey("hunter2")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := DeriveKey("hunter3")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSealOpenRoundTrip(t *testing.T) {
	key, err := DeriveKey("pass")
	require.NoError(t, err)

	plain := []byte("clipboard contents with\nnewlines and unicode — ok")
	sealed, err := Seal(plain, key)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "clipboard")

	got, err := Open(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestSealProducesFreshNonces(t *testing.T) {
	key, err := DeriveKey("pass")
	require.NoError(t, err)

	a, err := Seal([]byte("same"), key)
	require.NoError(t, err)
	b, err := Seal([]byte("same"), key)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestOpenRejectsWrongKey(t *testing.T) {
	key, err := DeriveKey("right")
	require.NoError(t, err)
	wrong, err := DeriveKey("wrong")
	require.NoError(t, err)

	sealed, err := Seal([]byte("secret"), key)
	require.NoError(t, err)

	_, err = Open(sealed, wrong)
	assert.Error(t, err)
}

func TestOpenRejectsTruncatedBlob(t *testing.T) {
	key, err := DeriveKey("pass")
	require.NoError(t, err)
	_, err = Open([]byte("short"), key)
	assert.Error(t, err)
}
