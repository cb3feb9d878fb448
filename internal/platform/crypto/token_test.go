package crypto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/shruthikaa3007/secure-document-vault/internal/domain"
)

func TestJWTCodecRoundTrip(t *testing.T) {
	codec := NewJWTCodec("signing-secret", time.Hour)
	p := &domain.Principal{
		ID:          bson.NewObjectID(),
		Role:        domain.RoleManager,
		Permissions: []string{domain.PermViewLogs},
	}

	token, err := codec.Sign(p)
	require.NoError(t, err)

	got, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, domain.RoleManager, got.Role)
	assert.Equal(t, []string{domain.PermViewLogs}, got.Permissions)
}

func TestJWTCodecRejectsWrongSecret(t *testing.T) {
	signer := NewJWTCodec("secret-a", time.Hour)
	verifier := NewJWTCodec("secret-b", time.Hour)

	token, err := signer.Sign(&domain.Principal{ID: bson.NewObjectID(), Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTCodecRejectsExpiredToken(t *testing.T) {
	codec := NewJWTCodec("signing-secret", -time.Minute)

	token, err := codec.Sign(&domain.Principal{ID: bson.NewObjectID(), Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.Error(t, err)
}

func TestJWTCodecRejectsGarbage(t *testing.T) {
	codec := NewJWTCodec("signing-secret", time.Hour)
	_, err := codec.Verify("not.a.token")
	assert.Error(t, err)
}
