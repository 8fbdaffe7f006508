package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertBoxKeepsSingleBanner(t *testing.T) {
	var box AlertBox
	assert.Nil(t, box.Current())

	first := box.Show(AlertDanger, "first", time.Now())
	second := box.Show(AlertSuccess, "second", time.Now())
	require.NotEqual(t, first.ID, second.ID)

	current := box.Current()
	require.NotNil(t, current)
	assert.Equal(t, "second", current.Message)

	assert.False(t, box.Dismiss(first.ID))
	assert.True(t, box.Dismiss(second.ID))
	assert.False(t, box.Dismiss(second.ID))
	assert.Nil(t, box.Current())
}
