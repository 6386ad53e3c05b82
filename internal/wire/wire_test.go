package wire

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kexlie/bobble/internal/message"
	"github.com/kexlie/bobble/internal/secret"
)

// exchange writes msg on one end of a pipe and reads it back on the other.
func exchange(t *testing.T, key *[secret.KeySize]byte, msg *message.Message) *message.Message {
	t.Helper()
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	writer := New(a, key)
	reader := New(b, key)

	errCh := make(chan error, 1)
	go func() { errCh <- writer.WriteMsg(msg) }()

	got, err := reader.ReadMsg()
	require.NoError(t, err)
	require.NoError(t, <-errCh)
	return got
}

func TestPlaintextRoundTrip(t *testing.T) {
	got := exchange(t, nil, message.NewCut("copy me", "text/plain", "paste", "host"))
	assert.Equal(t, message.TypeCut, got.Type)
	assert.Equal(t, "copy me", got.Text())
}

func TestEncryptedRoundTrip(t *testing.T) {
	key, err := secret.DeriveKey("pass")
	require.NoError(t, err)

	got := exchange(t, key, message.NewCut("sealed text", "text/plain", "paste", "host"))
	assert.Equal(t, message.TypeCut, got.Type)
	assert.Equal(t, "sealed text", got.Text())
}

func TestKeyMismatchFailsToRead(t *testing.T) {
	key, err := secret.DeriveKey("right")
	require.NoError(t, err)
	wrong, err := secret.DeriveKey("wrong")
	require.NoError(t, err)

	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	writer := New(a, key)
	reader := New(b, wrong)

	errCh := make(chan error, 1)
	go func() { errCh <- writer.WriteMsg(message.NewCut("x", "", "paste", "")) }()

	_, err = reader.ReadMsg()
	assert.Error(t, err)
	require.NoError(t, <-errCh)
}

func TestPlaintextSenderEncryptedReceiverFails(t *testing.T) {
	key, err := secret.DeriveKey("pass")
	require.NoError(t, err)

	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	writer := New(a, nil)
	reader := New(b, key)

	errCh := make(chan error, 1)
	go func() { errCh <- writer.WriteMsg(message.NewCut("x", "", "paste", "")) }()

	_, err = reader.ReadMsg()
	assert.Error(t, err)
	require.NoError(t, <-errCh)
}

func TestMultipleMessagesOnOneConn(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	writer := New(a, nil)
	reader := New(b, nil)

	go func() {
		for i := 0; i < 3; i++ {
			_ = writer.WriteMsg(&message.Message{Type: message.TypeStatus})
		}
	}()

	for i := 0; i < 3; i++ {
		got, err := reader.ReadMsg()
		require.NoError(t, err)
		assert.Equal(t, message.TypeStatus, got.Type)
	}
}
