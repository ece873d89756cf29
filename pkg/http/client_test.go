package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) *httptest.Server {
	t.Helper()
	e := echo.New()
	e.GET("/items", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{"q": c.QueryParam("q")})
	})
	e.POST("/items", func(c echo.Context) error {
		var body map[string]string
		if err := c.Bind(&body); err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, body)
	})
	e.POST("/dup", func(c echo.Context) error {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Holding with this symbol already exists"})
	})
	e.GET("/plain", func(c echo.Context) error {
		return c.String(http.StatusBadGateway, "upstream down")
	})
	e.DELETE("/items/1", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func TestSendAndParse(t *testing.T) {
	srv := newTestBackend(t)
	c := NewClient(WithBaseURL(srv.URL + "/"))
	ctx := context.Background()

	var got map[string]interface{}
	err := c.SendAndParse(ctx, &RequestOptions{
		Method:      MethodGet,
		Path:        "items",
		QueryParams: map[string][]string{"q": {"aapl"}},
	}, &got)
	require.NoError(t, err)
	assert.Equal(t, "aapl", got["q"])

	var created map[string]string
	err = c.SendAndParse(ctx, &RequestOptions{
		Method: MethodPost,
		Path:   "/items",
		Body:   map[string]string{"symbol": "MSFT"},
	}, &created)
	require.NoError(t, err)
	assert.Equal(t, "MSFT", created["symbol"])

	require.NoError(t, c.SendAndParse(ctx, &RequestOptions{Method: MethodDelete, Path: "/items/1"}, nil))
}

func TestSendAndParseStatusError(t *testing.T) {
	srv := newTestBackend(t)
	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	err := c.SendAndParse(context.Background(), &RequestOptions{Method: MethodPost, Path: "/dup", Body: map[string]string{}}, nil)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "Holding with this symbol already exists", se.Detail)

	err = c.SendAndParse(context.Background(), &RequestOptions{Method: MethodGet, Path: "/plain"}, nil)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Code)
	assert.Equal(t, "upstream down", se.Detail)
}
