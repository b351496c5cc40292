package vault

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestNewRejectsBadKeys(t *testing.T) {
	cases := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"not hex", strings.Repeat("zz", 32)},
		{"too short", "0011223344"},
		{"too long", strings.Repeat("00", 33)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(&Config{Key: tc.key})
			require.ErrorIs(t, err, ErrInvalidKeySize)
		})
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	v, err := New(&Config{Key: testKey})
	require.NoError(t, err)

	for _, plaintext := range []string{"", "token", strings.Repeat("long secret ", 100)} {
		sealed, err := v.Encrypt(plaintext)
		require.NoError(t, err)
		require.NotEqual(t, plaintext, sealed)

		opened, err := v.Decrypt(sealed)
		require.NoError(t, err)
		require.Equal(t, plaintext, opened)
	}
}

func TestEncryptUsesFreshNonces(t *testing.T) {
	v, err := New(&Config{Key: testKey})
	require.NoError(t, err)

	first, err := v.Encrypt("same value")
	require.NoError(t, err)

	second, err := v.Encrypt("same value")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestDecryptRejectsMalformedInput(t *testing.T) {
	v, err := New(&Config{Key: testKey})
	require.NoError(t, err)

	_, err = v.Decrypt("not base64!!!")
	require.ErrorIs(t, err, ErrInvalidCiphertext)

	// Valid base64 but shorter than a nonce.
	_, err = v.Decrypt(base64.StdEncoding.EncodeToString([]byte("tiny")))
	require.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	v, err := New(&Config{Key: testKey})
	require.NoError(t, err)

	sealed, err := v.Encrypt("secret")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(sealed)
	require.NoError(t, err)

	raw[len(raw)-1] ^= 0x01

	_, err = v.Decrypt(base64.StdEncoding.EncodeToString(raw))
	require.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestDecryptRejectsForeignKey(t *testing.T) {
	v1, err := New(&Config{Key: testKey})
	require.NoError(t, err)

	v2, err := New(&Config{Key: strings.Repeat("ab", 32)})
	require.NoError(t, err)

	sealed, err := v1.Encrypt("secret")
	require.NoError(t, err)

	_, err = v2.Decrypt(sealed)
	require.ErrorIs(t, err, ErrInvalidCiphertext)
}
