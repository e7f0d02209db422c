package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnit_RequestCommand_PrintsAndOpensLink(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("MESSAGING_BASE_URL", "https://wa.me")
	t.Setenv("MESSAGING_RECIPIENT", "911111111111")
	t.Setenv("APP_TIMEZONE", "Asia/Kolkata")

	var out bytes.Buffer
	var opened string
	app := newApp(&out, func(u string) error {
		opened = u
		return nil
	})

	err := app.Run(context.Background(), []string{"rider", "request",
		"--start", "Park Street",
		"--destination", "Salt Lake",
		"--at", "2024-05-01T10:00",
		"--vehicle", "Taxi",
	})
	require.NoError(t, err)

	link := strings.TrimSpace(out.String())
	assert.Equal(t, link, opened)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/911111111111?text="))

	u, err := url.Parse(link)
	require.NoError(t, err)
	msg := u.Query().Get("text")
	assert.Contains(t, msg, "Taxi")
	assert.Contains(t, msg, "1 May 2024")
}

func TestUnit_RequestCommand_NoOpen(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	var out bytes.Buffer
	app := newApp(&out, func(string) error {
		t.Fatal("browser must not be opened")
		return nil
	})

	err := app.Run(context.Background(), []string{"rider", "request", "--at", "2024-05-01T10:00", "--lang", "bn", "--no-open"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.String())
}

func TestUnit_RequestCommand_RejectsBadInput(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	app := newApp(&bytes.Buffer{}, func(string) error { return nil })

	err := app.Run(context.Background(), []string{"rider", "request", "--at", "2024-05-01T10:00", "--vehicle", "Boat"})
	assert.Error(t, err)

	app = newApp(&bytes.Buffer{}, func(string) error { return nil })
	err = app.Run(context.Background(), []string{"rider", "request", "--at", "soon"})
	assert.Error(t, err)

	app = newApp(&bytes.Buffer{}, func(string) error { return nil })
	err = app.Run(context.Background(), []string{"rider", "request", "--at", "2024-05-01T10:00", "--lang", "fr"})
	assert.Error(t, err)
}

func TestUnit_SuggestCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Park", r.URL.Query().Get("input"))
		_, _ = w.Write([]byte(`{"locData":{"predictions":[
			{"place_id":"p1","description":"Park Street"},
			{"place_id":"p2","description":"Park Circus"}]}}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	app := newApp(&out, nil)

	err := app.Run(context.Background(), []string{"rider", "suggest", "--proxy", srv.URL, "Park"})
	require.NoError(t, err)
	assert.Equal(t, "p1\tPark Street\np2\tPark Circus\n", out.String())
}

func TestUnit_SuggestCommand_NeedsFragment(t *testing.T) {
	app := newApp(&bytes.Buffer{}, nil)

	err := app.Run(context.Background(), []string{"rider", "suggest"})
	assert.ErrorIs(t, err, ErrExactlyOneFragment)
}
