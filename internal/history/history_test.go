package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kexlie/bobble/internal/secret"
)

func openStore(t *testing.T, key *[secret.KeySize]byte) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), key)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndList(t *testing.T) {
	s := openStore(t, nil)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := s.Add(fmt.Sprintf("entry-%d", i), "text/plain", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	got, err := s.List(10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "entry-2", got[0].Text, "newest first")
	assert.Equal(t, "entry-0", got[2].Text)
	assert.Equal(t, "text/plain", got[0].ContentType)
	assert.Equal(t, base.Add(2*time.Minute).Unix(), got[0].CreatedAt.Unix())
}

func TestListHonoursLimit(t *testing.T) {
	s := openStore(t, nil)
	now := time.Now()
	for i := 0; i < 5; i++ {
		_, err := s.Add(fmt.Sprintf("e%d", i), "", now.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
	}
	got, err := s.List(2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestTrimKeepsNewest(t *testing.T) {
	s := openStore(t, nil)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		_, err := s.Add(fmt.Sprintf("e%d", i), "", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	n, err := s.Trim(4)
	require.NoError(t, err)
	assert.EqualValues(t, 6, n)

	got, err := s.List(100)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, "e9", got[0].Text)
	assert.Equal(t, "e6", got[3].Text)
}

func TestPurgeDropsOldEntries(t *testing.T) {
	s := openStore(t, nil)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	_, err := s.Add("old", "", base.Add(-48*time.Hour))
	require.NoError(t, err)
	_, err = s.Add("fresh", "", base)
	require.NoError(t, err)

	n, err := s.Purge(base.Add(-DefaultMaxAge))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := s.List(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].Text)
}

func TestDelete(t *testing.T) {
	s := openStore(t, nil)
	id, err := s.Add("gone", "", time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Delete(id))

	got, err := s.List(10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	s := openStore(t, nil)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	_, err := s.Add("Deploy Notes", "", base)
	require.NoError(t, err)
	_, err = s.Add("grocery list", "", base.Add(time.Minute))
	require.NoError(t, err)
	_, err = s.Add("deployment log", "", base.Add(2*time.Minute))
	require.NoError(t, err)

	got, err := s.Search("deploy", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "deployment log", got[0].Text)
	assert.Equal(t, "Deploy Notes", got[1].Text)
}

func TestSealedRowsRoundTrip(t *testing.T) {
	key, err := secret.DeriveKey("pass")
	require.NoError(t, err)
	s := openStore(t, key)
	assert.True(t, s.Encrypted())

	_, err = s.Add("secret text", "text/plain", time.Now())
	require.NoError(t, err)

	got, err := s.List(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "secret text", got[0].Text)

	found, err := s.Search("SECRET", 10)
	require.NoError(t, err)
	assert.Len(t, found, 1, "search decrypts before matching")
}

func TestSealedRowsRejectWrongKey(t *testing.T) {
	dir := t.TempDir()
	key, err := secret.DeriveKey("right")
	require.NoError(t, err)

	s, err := Open(dir, key)
	require.NoError(t, err)
	_, err = s.Add("secret", "", time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	wrong, err := secret.DeriveKey("wrong")
	require.NoError(t, err)
	s2, err := Open(dir, wrong)
	require.NoError(t, err)
	defer s2.Close()

	_, err = s2.List(10)
	assert.Error(t, err)
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, nil)
	require.NoError(t, err)
	_, err = s.Add("persisted", "", time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := Open(dir, nil)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.List(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "persisted", got[0].Text)
}
