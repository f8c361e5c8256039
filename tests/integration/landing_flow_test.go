//go:build integration

package integration

import (
	"encoding/json"
	"html"
	"net/http"
	"net/url"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/taqueria-landing/internal/coupon"
)

// followRedirect performs one click and returns the coupon carried by the messaging URL.
func followRedirect(t *testing.T, href string) (string, *url.URL) {
	t.Helper()
	resp, err := httpClient.Get(testServer + html.UnescapeString(href))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	target, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)

	text := target.Query().Get("text")
	return couponIn(t, text), target
}

func couponIn(t *testing.T, text string) string {
	t.Helper()
	for _, field := range strings.Fields(text) {
		if coupon.Valid(field) {
			return field
		}
	}
	t.Fatalf("No coupon in message %q", text)
	return ""
}

func TestE2E_PageHasNoRawMessagingLinks(t *testing.T) {
	resp, err := httpClient.Get(formatURL(""))
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, `href="https://wa.me`, "messaging links must go through the redirect")
	assert.NotContains(t, body, "PLACEHOLDER")
}

func TestE2E_ClickYieldsFreshCoupon(t *testing.T) {
	href := redirectLinks(t)[0]

	first, target := followRedirect(t, href)
	second, _ := followRedirect(t, href)

	assert.Equal(t, "wa.me", target.Host)
	assert.True(t, coupon.Valid(first))
	assert.True(t, coupon.Valid(second))
	assert.NotEqual(t, first, second, "every click carries its own coupon")
}

func TestE2E_ClickIsLogged(t *testing.T) {
	if testPool == nil {
		t.Skip("TEST_DB_URL not set")
	}
	href := html.UnescapeString(redirectLinks(t)[0])
	u, err := url.Parse(href)
	require.NoError(t, err)
	linkID := path.Base(u.Path)

	before := clickCount(t, linkID)
	followRedirect(t, href)

	assert.Equal(t, before+1, clickCount(t, linkID))
}

func TestE2E_UnknownLink(t *testing.T) {
	resp, err := httpClient.Get(formatURL("wa/00000000-0000-5000-8000-000000000000"))
	require.NoError(t, err)
	readBody(t, resp)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestE2E_CouponAPI(t *testing.T) {
	resp, err := httpClient.Get(formatURL("api/coupon"))
	require.NoError(t, err)
	body := readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var c struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &c))
	assert.True(t, coupon.Valid(c.Code), "got %q", c.Code)
}

func TestE2E_ShareAndStatus(t *testing.T) {
	resp, err := httpClient.Get(formatURL("api/share"))
	require.NoError(t, err)
	var share map[string]string
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &share))
	assert.NotEmpty(t, share["title"])
	assert.NotEmpty(t, share["url"])

	resp, err = httpClient.Get(formatURL("api/status"))
	require.NoError(t, err)
	var status map[string]any
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &status))
	assert.Contains(t, status, "open")
	assert.Equal(t, float64(15), status["opens_at"])
}
