package password

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("hunter2")
	require.NoError(t, err)

	assert.True(t, Verify("hunter2", encoded))
	assert.False(t, Verify("hunter3", encoded))
	assert.False(t, Verify("", encoded))
}

func TestHash_UniqueSalts(t *testing.T) {
	a, err := Hash("same password")
	require.NoError(t, err)
	b, err := Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, Verify("same password", a))
	assert.True(t, Verify("same password", b))
}

func TestHash_BlobShape(t *testing.T) {
	encoded, err := Hash("x")
	require.NoError(t, err)

	blob, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Len(t, blob, 1+16+32)
	assert.Equal(t, byte(0x01), blob[0])
}

func TestVerify_MalformedBlobs(t *testing.T) {
	assert.False(t, Verify("pw", ""))
	assert.False(t, Verify("pw", "not base64!!!"))
	assert.False(t, Verify("pw", base64.StdEncoding.EncodeToString([]byte("too short"))))

	// Unknown version byte
	blob := make([]byte, 1+16+32)
	blob[0] = 0x02
	assert.False(t, Verify("pw", base64.StdEncoding.EncodeToString(blob)))
}

func TestVerify_EmptyPassword(t *testing.T) {
	encoded, err := Hash("")
	require.NoError(t, err)

	assert.True(t, Verify("", encoded))
	assert.False(t, Verify("anything", encoded))
}
