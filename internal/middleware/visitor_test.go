package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runVisitor(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	var got string
	h := VisitorID()(func(c echo.Context) error {
		got = VisitorFrom(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return got, rec
}

func TestVisitorIDAssignsCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	got, rec := runVisitor(t, req)

	_, err := uuid.Parse(got)
	assert.NoError(t, err)

	var cookie *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == VisitorCookieName {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, got, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestVisitorIDReusesCookie(t *testing.T) {
	existing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookieName, Value: existing})
	got, rec := runVisitor(t, req)

	assert.Equal(t, existing, got)
	assert.Empty(t, rec.Result().Cookies())
}

func TestVisitorIDReplacesGarbageCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookieName, Value: "not-a-uuid"})
	got, _ := runVisitor(t, req)

	_, err := uuid.Parse(got)
	assert.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", got)
}
