package access

import (
	"context"
	"testing"

	"github.com/AurelieMous/projet-zombieland/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestActor(t *testing.T) {
	admin := Actor{UserID: 1, Role: models.RoleAdmin}
	client := Actor{UserID: 2, Role: models.RoleClient}

	assert.True(t, admin.CanAccess(2))
	assert.True(t, client.CanAccess(2))
	assert.False(t, client.CanAccess(3))

	ctx := WithActor(context.Background(), client)
	got, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, client, got)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
}
