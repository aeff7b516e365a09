package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/okadio/microblog/internal/domain/entity"
)

func TestCanUpdateUser(t *testing.T) {
	cases := []struct {
		name   string
		actor  string
		target string
		want   bool
	}{
		{"owner", "u1", "u1", true},
		{"other user", "u2", "u1", false},
		{"anonymous", "", "u1", false},
		{"both empty", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanUpdateUser(tc.actor, tc.target))
			assert.Equal(t, tc.want, CanDeleteUser(tc.actor, tc.target))
		})
	}
}

func TestCanDeleteStatus(t *testing.T) {
	st := &entity.Status{ID: "s1", UserID: "u1"}

	assert.True(t, CanDeleteStatus("u1", st))
	assert.False(t, CanDeleteStatus("u2", st))
	assert.False(t, CanDeleteStatus("", st))
	assert.False(t, CanDeleteStatus("u1", nil))
}
