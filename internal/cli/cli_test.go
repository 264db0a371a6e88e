package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"0", "-3", "abc", ""} {
		_, err := parseID(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestListParamsFromFlags(t *testing.T) {
	cmd := clientsListCmd
	require.NoError(t, cmd.Flags().Set("limit", "5"))
	require.NoError(t, cmd.Flags().Set("search", "acme"))

	params := listParamsFromFlags(cmd)
	assert.Equal(t, 5, params.Limit)
	assert.Equal(t, "acme", params.Q)
	assert.Empty(t, params.Status)
}
