package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAdminOrSelf_Self(t *testing.T) {
	assert.True(t, IsAdminOrSelf(&User{ID: 7}, 7))
}

func TestIsAdminOrSelf_OtherUser(t *testing.T) {
	assert.False(t, IsAdminOrSelf(&User{ID: 7}, 8))
}

func TestIsAdminOrSelf_Staff(t *testing.T) {
	assert.True(t, IsAdminOrSelf(&User{ID: 7, IsStaff: true}, 8))
}

func TestIsAdminOrSelf_Superuser(t *testing.T) {
	assert.True(t, IsAdminOrSelf(&User{ID: 7, IsSuperuser: true}, 8))
}

func TestIsAdminOrSelf_NilPrincipal(t *testing.T) {
	assert.False(t, IsAdminOrSelf(nil, 7))
}
