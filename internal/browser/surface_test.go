package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tablecheck/internal/interfaces"
)

const testPage = `<!DOCTYPE html>
<html><body>
<input id="search" type="search" aria-label="Search">
<select id="length"><option value="10">10</option><option value="25">25</option></select>
<button id="go" onclick="document.getElementById('msg').textContent='clicked'">Go</button>
<div id="msg"></div>
<div id="echo"></div>
<table id="dataTable"><tbody><tr><td>Ana</td><td>Ruiz</td></tr></tbody></table>
<script>
document.getElementById('search').addEventListener('input', function (e) {
	document.getElementById('echo').textContent = 'search:' + e.target.value;
});
document.getElementById('length').addEventListener('change', function (e) {
	document.getElementById('echo').textContent = 'length:' + e.target.value;
});
</script>
</body></html>`

// requireBrowser skips unless a local Chrome is available for integration runs
func requireBrowser(t *testing.T) {
	t.Helper()
	if os.Getenv("TABLECHECK_BROWSER_TESTS") == "" {
		t.Skip("set TABLECHECK_BROWSER_TESTS=1 to run tests against a local Chrome")
	}
}

func TestSurface_AgainstLocalPage(t *testing.T) {
	requireBrowser(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(testPage))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	session, err := NewSession(ctx, SessionConfig{Headless: true, NoSandbox: true, DisableGPU: true}, arbor.NewLogger())
	require.NoError(t, err)
	defer session.Close()

	require.NoError(t, session.Navigate(ctx, server.URL))
	surface := session.Surface()

	echo := interfaces.Target{Name: "echo", Selector: "#echo"}

	require.NoError(t, surface.Fill(ctx, interfaces.Target{Name: "search", Selector: "#search"}, "Ana"))
	text, err := surface.Text(ctx, echo)
	require.NoError(t, err)
	assert.Equal(t, "search:Ana", text)

	require.NoError(t, surface.SelectByValue(ctx, interfaces.Target{Name: "length", Selector: "#length"}, "25"))
	text, err = surface.Text(ctx, echo)
	require.NoError(t, err)
	assert.Equal(t, "length:25", text)

	err = surface.SelectByValue(ctx, interfaces.Target{Name: "length", Selector: "#length"}, "100")
	assert.Error(t, err)

	require.NoError(t, surface.Click(ctx, interfaces.Target{Name: "go", Selector: "//button[@id='go']", Kind: interfaces.SelectorXPath}))
	text, err = surface.Text(ctx, interfaces.Target{Name: "msg", Selector: "#msg"})
	require.NoError(t, err)
	assert.Equal(t, "clicked", text)

	html, err := surface.OuterHTML(ctx, interfaces.Target{Name: "table", Selector: "#dataTable"})
	require.NoError(t, err)
	assert.True(t, strings.Contains(html, "<td>Ruiz</td>"))

	png, err := surface.Screenshot(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestSurface_MissingElementHonoursDeadline(t *testing.T) {
	requireBrowser(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	session, err := NewSession(ctx, SessionConfig{Headless: true, NoSandbox: true}, arbor.NewLogger())
	require.NoError(t, err)
	defer session.Close()

	attemptCtx, attemptCancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer attemptCancel()

	start := time.Now()
	err = session.Surface().Click(attemptCtx, interfaces.Target{Name: "ghost", Selector: "#does-not-exist"})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)
}
