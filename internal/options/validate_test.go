package options

import (
	"testing"

	"github.com/erraggy/apish/dslerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSingleInputSource(t *testing.T) {
	t.Run("exactly one", func(t *testing.T) {
		assert.NoError(t, ValidateSingleInputSource("api", false, true, false))
	})

	t.Run("none", func(t *testing.T) {
		err := ValidateSingleInputSource("api", false, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, dslerrors.ErrConfig)
		assert.Contains(t, err.Error(), "no input source")
	})

	t.Run("several", func(t *testing.T) {
		err := ValidateSingleInputSource("api", true, true)
		require.Error(t, err)
		var cfgErr *dslerrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "api", cfgErr.Option)
		assert.Equal(t, 2, cfgErr.Value)
	})
}

func TestValidateOptionalInputSource(t *testing.T) {
	assert.NoError(t, ValidateOptionalInputSource("models"))
	assert.NoError(t, ValidateOptionalInputSource("models", false, false))
	assert.NoError(t, ValidateOptionalInputSource("models", false, true))
	assert.ErrorIs(t, ValidateOptionalInputSource("models", true, true), dslerrors.ErrConfig)
}
