package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateParticipant(t *testing.T) {
	svc := NewParticipantService(newFakeParticipantRepo(), testLogger())

	email := "pat@example.com"
	created, err := svc.Create(context.Background(), "Pat", &email)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Pat", created.Name)
	require.NotNil(t, created.Email)
	assert.Equal(t, email, *created.Email)

	_, err = svc.Create(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrValidationFailed)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
