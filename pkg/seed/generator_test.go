package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorIsDeterministic(t *testing.T) {
	profile, err := DefaultProfile()
	require.NoError(t, err)

	first := NewGenerator(profile, 42).Generate(20)
	second := NewGenerator(profile, 42).Generate(20)
	assert.Equal(t, first, second)

	other := NewGenerator(profile, 7).Generate(20)
	assert.NotEqual(t, first.Friends[0].ID, other.Friends[0].ID)
}

func TestGeneratorRelationsAreConsistent(t *testing.T) {
	profile, err := DefaultProfile()
	require.NoError(t, err)

	batch := NewGenerator(profile, 1).Generate(50)
	require.Len(t, batch.Friends, 50)

	ids := map[string]bool{}
	for _, friend := range batch.Friends {
		ids[friend.ID] = true
	}

	perFriend := map[string]int{}
	for _, pet := range batch.Pets {
		assert.True(t, ids[pet.FriendID], "pet %s references unknown friend", pet.ID)
		assert.Contains(t, []string{"dog", "cat", "rabbit", "fish", "bird"}, pet.Kind)
		perFriend[pet.FriendID]++
	}
	for _, n := range perFriend {
		assert.LessOrEqual(t, n, profile.MaxPetsPerFriend)
	}

	for _, quote := range batch.Quotes {
		seen := map[string]bool{}
		for _, friendID := range quote.FriendIDs {
			assert.True(t, ids[friendID])
			assert.False(t, seen[friendID], "duplicate link on quote %s", quote.ID)
			seen[friendID] = true
		}
	}

	result := batch.Result()
	assert.Equal(t, 50, result.Friends)
	assert.Equal(t, len(batch.Pets), result.Pets)
	assert.LessOrEqual(t, result.Addresses, 50)
}

func TestParseProfileRejectsIncomplete(t *testing.T) {
	_, err := ParseProfile([]byte("firstNames: [Ada]\n"))
	assert.Error(t, err)

	_, err = ParseProfile([]byte(": not yaml"))
	assert.Error(t, err)
}
