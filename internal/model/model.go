// Copyright (c) 2026 ToeiRei
// Usercrud - interactive user management console
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the user record shared by the data access layer,
// the interactive shell and the command line interface.
package model // import "github.com/toeirei/usercrud/internal/model"

import (
	"fmt"
	"strconv"
)

// User is a single persisted row of the usuarios table.
type User struct {
	ID    int64  `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Age   *int   `json:"age,omitempty" yaml:"age,omitempty"`
}

// String returns the "name <email>" representation.
func (u User) String() string {
	return fmt.Sprintf("%s <%s>", u.Name, u.Email)
}

// AgeString renders the optional age, using "-" when it is not set.
func (u User) AgeString() string {
	if u.Age == nil {
		return "-"
	}
	return strconv.Itoa(*u.Age)
}

// NewUser holds the fields required to create a user. The id is assigned by
// the store.
type NewUser struct {
	Name  string
	Email string
	Age   *int
}

// UserPatch describes a partial update. A nil field is left untouched.
type UserPatch struct {
	Name  *string
	Email *string
	Age   *int
}

// IsEmpty reports whether the patch does not change anything.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Age == nil
}

// Apply returns a copy of u with the supplied patch fields applied.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Age != nil {
		age := *p.Age
		u.Age = &age
	}
	return u
}

// IntPtr returns a pointer to v. Handy for optional ages.
func IntPtr(v int) *int { return &v }

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }
