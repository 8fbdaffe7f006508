package dashboard

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedTemplateCarriesStaticIDs(t *testing.T) {
	raw, err := embeddedTemplates.ReadFile("templates/dashboard.html")
	require.NoError(t, err)
	page := string(raw)

	for _, id := range []string{
		"last-update", "next-update", "data-timestamp", "alerts-container",
		"loading-indicator", "content-container",
	} {
		assert.Contains(t, page, id)
	}
}

func TestNewTemplateRenderer(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)
	assert.NotNil(t, renderer)
}

func TestEmbeddedTemplateReloadsOnDataEventsOnly(t *testing.T) {
	raw, err := embeddedTemplates.ReadFile("templates/dashboard.html")
	require.NoError(t, err)

	match := regexp.MustCompile(`var reloadOn = \{([^}]*)\}`).FindSubmatch(raw)
	require.Len(t, match, 2)
	reasons := string(match[1])
	for _, reason := range []string{ReasonOpportunities, ReasonCharts, ReasonAlert, ReasonManualUpdate} {
		assert.Contains(t, reasons, reason+": true")
	}
	assert.NotContains(t, reasons, ReasonStatus)
	assert.NotContains(t, reasons, ReasonLoading)
}
