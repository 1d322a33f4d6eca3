package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/directory/domain"
)

func TestUsersFromRecords(t *testing.T) {
	users := usersFromRecords(map[string]rtdbUser{
		"b": {Name: "Zed", Email: "z@example.com", Role: "admin"},
		"a": {Name: "amy", Email: "a@example.com"},
	})

	assert.Equal(t, []domain.User{
		{UID: "a", DisplayName: "amy", Email: "a@example.com", Role: domain.RoleUser},
		{UID: "b", DisplayName: "Zed", Email: "z@example.com", Role: domain.RoleAdmin},
	}, users)

	assert.Empty(t, usersFromRecords(nil))
}
