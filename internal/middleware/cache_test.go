package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Set("X-Cache", "MISS")
	body := []byte(`{"items":[]}`)

	encoded, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(encoded)
	require.True(t, ok)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	require.Equal(t, body, gotBody)
}

// Truncated or garbage payloads must not be served as responses.
func TestDecodePayload_Corrupt(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, {0, 0, 0, 200, 0, 0, 0, 99}} {
		_, _, _, ok := decodePayload(bs)
		require.False(t, ok)
	}
}

func TestPayloadRoundTrip_EmptyBody(t *testing.T) {
	encoded, err := encodePayload(http.StatusNoContent, http.Header{}, nil)
	require.NoError(t, err)
	status, _, body, ok := decodePayload(encoded)
	require.True(t, ok)
	require.Equal(t, http.StatusNoContent, status)
	require.Empty(t, body)
}
