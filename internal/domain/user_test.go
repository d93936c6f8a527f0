package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "valid user",
			email:    "test@example.com",
			password: "securepassword12345",
			wantErr:  nil,
		},
		{
			name:     "email is normalized",
			email:    "  Test@Example.COM ",
			password: "securepassword12345",
			wantErr:  nil,
		},
		{
			name:     "empty email",
			email:    "",
			password: "securepassword12345",
			wantErr:  ErrEmptyEmail,
		},
		{
			name:     "missing @",
			email:    "testexample.com",
			password: "securepassword12345",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "missing domain dot",
			email:    "test@examplecom",
			password: "securepassword12345",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "password too short",
			email:    "test@example.com",
			password: "short",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "password too long",
			email:    "test@example.com",
			password: strings.Repeat("a", 73),
			wantErr:  ErrPasswordTooLong,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			user, err := NewUser(tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, user)
			assert.NotEqual(t, uuid.Nil, user.ID)
			assert.Equal(t, strings.ToLower(strings.TrimSpace(tt.email)), user.Email)
			assert.False(t, user.CreatedAt.IsZero())
		})
	}
}

func TestUserValidate_HashedOnly(t *testing.T) {
	t.Parallel()

	// A user loaded from the database has no plaintext password.
	user := &User{
		ID:             uuid.New(),
		Email:          "stored@example.com",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
	}
	assert.NoError(t, user.Validate())

	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), ErrEmptyPassword)
}
