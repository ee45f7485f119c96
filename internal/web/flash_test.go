package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashIsShownOnce(t *testing.T) {
	f := &flashes{}

	rec := httptest.NewRecorder()
	f.set(rec, flashError, "Passwords do not match.")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/register", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	got := f.pop(rec, req)
	require.NotNil(t, got)
	assert.Equal(t, Flash{Category: flashError, Message: "Passwords do not match."}, *got)

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, flashCookie, cleared[0].Name)
	assert.Negative(t, cleared[0].MaxAge)
}

func TestFlashIgnoresGarbage(t *testing.T) {
	f := &flashes{}
	for _, value := range []string{"", "!!not-base64!!", "bm8tbmV3bGluZQ"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if value != "" {
			req.AddCookie(&http.Cookie{Name: flashCookie, Value: value})
		}
		assert.Nil(t, f.pop(httptest.NewRecorder(), req), value)
	}
}
