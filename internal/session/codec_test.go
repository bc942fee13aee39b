package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	codec, err := NewCodec("secret")
	require.NoError(t, err)

	sealed, err := codec.Seal("A1")
	require.NoError(t, err)
	require.NotEqual(t, "A1", sealed)

	plain, err := codec.Open(sealed)
	require.NoError(t, err)
	require.Equal(t, "A1", plain)
}

func TestCodecRejectsTamperedValues(t *testing.T) {
	t.Parallel()

	codec, err := NewCodec("secret")
	require.NoError(t, err)

	sealed, err := codec.Seal("A1")
	require.NoError(t, err)

	_, err = codec.Open(sealed[:len(sealed)-2] + "xx")
	require.Error(t, err)

	_, err = codec.Open("%%%not-base64%%%")
	require.Error(t, err)

	_, err = codec.Open("dG9vc2hvcnQ")
	require.Error(t, err)
}

func TestCodecKeysAreSecretSpecific(t *testing.T) {
	t.Parallel()

	first, err := NewCodec("secret-one")
	require.NoError(t, err)
	second, err := NewCodec("secret-two")
	require.NoError(t, err)

	sealed, err := first.Seal("A1")
	require.NoError(t, err)

	_, err = second.Open(sealed)
	require.Error(t, err)
}

func TestCodecRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewCodec("")
	require.Error(t, err)
}
