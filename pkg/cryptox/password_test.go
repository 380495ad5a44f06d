package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	h := NewHasher("pepper")

	tests := []struct {
		name     string
		password string
	}{
		{"simple", "password123"},
		{"symbols", "P@ssw0rd!#$%^&*()"},
		{"long", strings.Repeat("a", 100)},
		{"unicode", "пароль密码"},
		{"whitespace", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			encoded, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m="))
			require.Len(t, strings.Split(encoded, "$"), 6)

			require.NoError(t, h.Verify(tt.password, encoded))
			require.ErrorIs(t, h.Verify(tt.password+"x", encoded), ErrPasswordMismatch)
		})
	}
}

func TestHasher_UniqueSalts(t *testing.T) {
	t.Parallel()

	h := NewHasher("pepper")
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestHasher_PepperMatters(t *testing.T) {
	t.Parallel()

	encoded, err := NewHasher("one").Hash("secret1")
	require.NoError(t, err)
	require.ErrorIs(t, NewHasher("two").Verify("secret1", encoded), ErrPasswordMismatch)
}

func TestHasher_Malformed(t *testing.T) {
	t.Parallel()

	h := NewHasher("pepper")

	require.ErrorIs(t, h.Verify("x", ""), ErrPasswordMismatch)
	for _, bad := range []string{
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$!!!$aGFzaA",
	} {
		require.ErrorIs(t, h.Verify("x", bad), ErrMalformedHash, bad)
	}
}

func TestLoadPepper(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "pepper")

	first, err := LoadPepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := LoadPepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second, "pepper must be stable across loads")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadPepper_Empty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pepper")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	_, err := LoadPepper(path)
	require.Error(t, err)
}
