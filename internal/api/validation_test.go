package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectFieldErrors(t *testing.T) {
	t.Parallel()

	v := newJSONTagValidator()

	t.Run("reports every failing field", func(t *testing.T) {
		err := v.Struct(RegisterRequest{Email: "nope", Password: "short"})
		require.Error(t, err)

		fieldErrors := collectFieldErrors(err)
		require.Len(t, fieldErrors, 2)

		fields := map[string]string{}
		for _, fe := range fieldErrors {
			fields[fe.Field] = fe.Message
		}
		assert.Equal(t, "must be a valid email address", fields["email"])
		assert.Equal(t, "must be at least 12 characters", fields["password"])
	})

	t.Run("uses json tag names", func(t *testing.T) {
		err := v.Struct(RefreshTokenRequest{})
		require.Error(t, err)

		fieldErrors := collectFieldErrors(err)
		require.Len(t, fieldErrors, 1)
		assert.Equal(t, "refresh_token", fieldErrors[0].Field)
		assert.Equal(t, "is required", fieldErrors[0].Message)
	})

	t.Run("oneof message lists allowed values", func(t *testing.T) {
		err := v.Struct(CreateAlertRequest{
			Symbol:    "BTC/USD",
			Threshold: "100",
			Direction: "diagonal",
		})
		require.Error(t, err)

		fieldErrors := collectFieldErrors(err)
		require.Len(t, fieldErrors, 1)
		assert.Equal(t, "direction", fieldErrors[0].Field)
		assert.Equal(t, "must be one of: above below", fieldErrors[0].Message)
	})

	t.Run("non-validator error yields nothing", func(t *testing.T) {
		assert.Nil(t, collectFieldErrors(errors.New("plain error")))
	})
}
