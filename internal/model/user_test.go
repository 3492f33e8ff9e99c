package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPassword(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("secret123"))

	assert.NotEqual(t, "secret123", u.Password)
	assert.True(t, u.CheckPassword("secret123"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestUserActorAndProfile(t *testing.T) {
	id := uuid.New()
	u := &User{BaseModel: BaseModel{ID: id}, Email: "ana@shop.test", Role: RoleAdmin}

	assert.Equal(t, Actor{ID: id.String(), Name: "ana@shop.test"}, u.Actor())
	assert.True(t, u.IsAdmin())

	u.DisplayName = "Ana"
	assert.Equal(t, "Ana", u.Actor().Name)
	assert.Equal(t, RoleAdmin, u.ToProfile().Role)
}

func TestDefaultDisplayName(t *testing.T) {
	assert.Equal(t, "juan", DefaultDisplayName("juan@jmerls.com"))
	assert.Equal(t, "nodomain", DefaultDisplayName("nodomain"))
}

func TestNewSystemLogEntryDefaults(t *testing.T) {
	e := NewSystemLogEntry(ActionSale, Actor{}, "Sold 1 of X", "")

	assert.Equal(t, "System", e.UserName)
	assert.Equal(t, LevelInfo, e.Level)
	assert.Nil(t, e.UserID)
	assert.Nil(t, e.TargetID)

	e = NewSystemLogEntry(ActionSale, Actor{ID: "u1", Name: "Ana"}, "Sold 1 of X", "p1")
	assert.Equal(t, "u1", *e.UserID)
	assert.Equal(t, "p1", *e.TargetID)
}
