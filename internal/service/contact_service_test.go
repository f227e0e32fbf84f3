package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailnet/retail_api/internal/models"
	"github.com/retailnet/retail_api/internal/utils"
)

func contactRequest(city string) *ContactRequest {
	return &ContactRequest{City: city, Street: "Tverskaya", House: "1"}
}

func TestContactLimit(t *testing.T) {
	contacts := newFakeContacts()
	svc := NewContactService(contacts)
	ctx := context.Background()

	for i := 0; i < models.MaxContactsPerAccount; i++ {
		_, err := svc.Create(ctx, 1, contactRequest("Moscow"))
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, 1, contactRequest("Moscow"))
	require.Error(t, err)
	assert.Equal(t, "CONTACT_LIMIT", utils.APICode(err))

	// The cap is per account.
	_, err = svc.Create(ctx, 2, contactRequest("Kazan"))
	assert.NoError(t, err)
}

func TestContactFavoriteIsExclusive(t *testing.T) {
	contacts := newFakeContacts()
	svc := NewContactService(contacts)
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, &ContactRequest{City: "Moscow", Street: "Tverskaya", House: "1", Favorite: true})
	require.NoError(t, err)
	assert.True(t, first.Favorite)

	second, err := svc.Create(ctx, 1, &ContactRequest{City: "Moscow", Street: "Arbat", House: "5", Favorite: true})
	require.NoError(t, err)
	assert.True(t, second.Favorite)

	stored, err := contacts.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, stored.Favorite)
}

func TestContactOwnership(t *testing.T) {
	contacts := newFakeContacts()
	svc := NewContactService(contacts)
	ctx := context.Background()

	mine, err := svc.Create(ctx, 1, contactRequest("Moscow"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, 2, mine.ID, contactRequest("Kazan"))
	assert.ErrorIs(t, err, utils.ErrNotOwner)

	err = svc.Delete(ctx, 2, mine.ID)
	assert.ErrorIs(t, err, utils.ErrNotOwner)

	require.NoError(t, svc.Delete(ctx, 1, mine.ID))
	_, err = svc.Update(ctx, 1, mine.ID, contactRequest("Kazan"))
	assert.ErrorIs(t, err, utils.ErrContactNotFound)
}
