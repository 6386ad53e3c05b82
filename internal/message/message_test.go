package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := NewCut("hello\nworld", "text/plain", "paste", "laptop")
	raw, err := m.Encode()
	require.NoError(t, err)

	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, TypeCut, got.Type)
	assert.Equal(t, "laptop", got.Source)
	assert.Equal(t, "paste", got.Class)
	assert.Equal(t, "text/plain", got.ContentType)
	assert.Equal(t, "hello\nworld", got.Text())
}

func TestTextSurvivesArbitraryBytes(t *testing.T) {
	m := &Message{Type: TypeCut}
	m.SetText("null\x00byte and \"quotes\"")
	raw, err := m.Encode()
	require.NoError(t, err)

	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "null\x00byte and \"quotes\"", got.Text())
}

func TestTextOnEmptyOrMalformedPayload(t *testing.T) {
	assert.Empty(t, (&Message{}).Text())
	assert.Empty(t, (&Message{Payload: "not!base64!"}).Text())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("{truncated"))
	assert.Error(t, err)
}

func TestErrorf(t *testing.T) {
	m := Errorf("bubble %s: %s", "abc", "gone")
	assert.Equal(t, TypeError, m.Type)
	assert.Equal(t, "bubble abc: gone", m.Error)
}
