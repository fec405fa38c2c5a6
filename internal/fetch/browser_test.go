package fetch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBrowserManager_Defaults(t *testing.T) {
	m := NewBrowserManager(BrowserConfig{}, nil)

	assert.Equal(t, DefaultUserAgent, m.cfg.UserAgent)
	assert.Equal(t, 5*time.Second, m.cfg.HealthTimeout)
	assert.Equal(t, 0, m.Launches())
}

func TestBrowserManager_InvalidateBeforeLaunch(t *testing.T) {
	m := NewBrowserManager(DefaultBrowserConfig(), nil)

	m.Invalidate()
	m.Invalidate()

	assert.Nil(t, m.browserCtx)
	assert.Equal(t, 0, m.Launches())
}

func TestBrowserManager_ClosedRejectsUse(t *testing.T) {
	m := NewBrowserManager(DefaultBrowserConfig(), nil)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	_, cancel, err := m.NewTab()

	assert.ErrorIs(t, err, ErrBrowserClosed)
	assert.Nil(t, cancel)
	assert.Equal(t, 0, m.Launches())
}
