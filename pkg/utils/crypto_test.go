package utils_test

import (
	"testing"

	"github.com/maheshrc27/postpilot/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cryptoKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecryptRoundTrip(t *testing.T) {
	encrypted, err := utils.Encrypt([]byte("platform-access-token"), cryptoKey)
	require.NoError(t, err)
	assert.NotEqual(t, "platform-access-token", encrypted)

	decrypted, err := utils.Decrypt(encrypted, cryptoKey)
	require.NoError(t, err)
	assert.Equal(t, "platform-access-token", decrypted)
}

func TestDecryptWithWrongKey(t *testing.T) {
	encrypted, err := utils.Encrypt([]byte("secret"), cryptoKey)
	require.NoError(t, err)

	otherKey := []byte("fedcba9876543210fedcba9876543210")
	_, err = utils.Decrypt(encrypted, otherKey)
	assert.Error(t, err)
}

func TestDecryptGarbage(t *testing.T) {
	_, err := utils.Decrypt("not base64!!!", cryptoKey)
	assert.Error(t, err)
}
