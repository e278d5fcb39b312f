package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCredentialsMatchPlain(t *testing.T) {
	c := Credentials{Username: "admin", Password: "s3cret"}

	assert.True(t, c.Match("admin", "s3cret"))
	assert.False(t, c.Match("admin", "wrong"))
	assert.False(t, c.Match("root", "s3cret"))
	assert.False(t, c.Match("", ""))
}

func TestCredentialsMatchBcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	c := Credentials{Username: "admin", Password: string(hash)}
	assert.True(t, IsBcryptHash(c.Password))
	assert.True(t, c.Match("admin", "s3cret"))
	assert.False(t, c.Match("admin", string(hash)), "the hash itself is not the password")
}

func TestCredentialsNotConfigured(t *testing.T) {
	c := Credentials{Username: "admin"}
	assert.False(t, c.Configured())
	assert.False(t, c.Match("admin", ""))
}
