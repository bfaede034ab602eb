package models_test

import (
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestUserString(t *testing.T) {
	u := models.User{ID: 7, Username: "testuser", Email: "test@test.com"}
	assert.Equal(t, "<User #7: testuser, test@test.com>", u.String())
}

func TestUserFollowMembership(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}
	bob := &models.User{ID: 2, Username: "bob"}

	assert.False(t, bob.IsFollowing(alice))
	assert.False(t, alice.IsFollowedBy(bob))

	// bob follows alice
	bob.Following = append(bob.Following, *alice)
	alice.Followers = append(alice.Followers, *bob)

	assert.True(t, bob.IsFollowing(alice))
	assert.True(t, alice.IsFollowedBy(bob))
	assert.False(t, alice.IsFollowing(bob))
	assert.False(t, bob.IsFollowedBy(alice))
	assert.False(t, bob.IsFollowing(nil))
}
