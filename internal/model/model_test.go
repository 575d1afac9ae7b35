// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserString(t *testing.T) {
	u := User{Name: "Ana", Email: "ana@x.com"}
	assert.Equal(t, "Ana <ana@x.com>", u.String())
	assert.Equal(t, "-", u.AgeString())

	u.Age = IntPtr(30)
	assert.Equal(t, "30", u.AgeString())
}

func TestUserPatch_IsEmpty(t *testing.T) {
	assert.True(t, UserPatch{}.IsEmpty())
	assert.False(t, UserPatch{Age: IntPtr(0)}.IsEmpty())
	assert.False(t, UserPatch{Name: StringPtr("")}.IsEmpty())
}

func TestUserPatch_ApplyKeepsOmittedFields(t *testing.T) {
	orig := User{ID: 7, Name: "Ana", Email: "ana@x.com", Age: IntPtr(30)}
	got := UserPatch{Age: IntPtr(31)}.Apply(orig)

	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "ana@x.com", got.Email)
	if assert.NotNil(t, got.Age) {
		assert.Equal(t, 31, *got.Age)
	}
	// the original must not be aliased
	assert.Equal(t, 30, *orig.Age)
}
