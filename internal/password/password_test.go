package password_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samlehman617/HeyImHungry/internal/password"
)

func TestHashAndVerify(t *testing.T) {
	digest, err := password.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", digest)

	require.True(t, password.Verify("correct horse battery staple", digest))
	require.False(t, password.Verify("wrong password", digest))
	require.False(t, password.Verify("", digest))
}

func TestHashSaltsEachDigest(t *testing.T) {
	first, err := password.Hash("password")
	require.NoError(t, err)
	second, err := password.Hash("password")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.True(t, password.Verify("password", first))
	require.True(t, password.Verify("password", second))
}

func TestVerifyMalformedDigest(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=49152,t=2,p=2$notbase64!!$also-not",
		"$bcrypt$v=19$m=49152,t=2,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=49152,t=2$c2FsdA$aGFzaA",
	}
	for _, digest := range cases {
		require.False(t, password.Verify("password", digest), "digest %q must verify false", digest)
	}
}
