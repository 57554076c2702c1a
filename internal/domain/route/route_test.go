package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagePath(t *testing.T) {
	assert.Equal(t, "/pages/1", PagePath(0))
	assert.Equal(t, "/pages/3", PagePath(2))
	assert.Equal(t, "/pages/1", PagePath(-4))
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		path  string
		total int
		want  int
	}{
		{"/pages/1", 3, 0},
		{"/pages/3", 3, 2},
		{"/pages/999", 3, 2},
		{"/pages/abc", 3, 0},
		{"/pages/", 3, 0},
		{"/pages/0", 3, 0},
		{"/pages/-2", 3, 0},
		{"/pages/2?x=1", 3, 1},
		{"/pages/2/extra", 3, 1},
		{"/", 3, 0},
		{"/notes", 3, 0},
		{"/pages/2", 0, 0},
		{"/pages/2abc", 3, 1},
		{"/pages/3.7", 3, 2},
		{"/pages/+2", 3, 1},
		{"/pages/99999999999999999999", 3, 2},
		{"/pages/-99999999999999999999", 3, 0},
		{"/pages/-", 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePage(tt.path, tt.total))
		})
	}
}

func TestPageRoundTrip(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, i, ParsePage(PagePath(i), 3))
	}
}

func TestAppPaths(t *testing.T) {
	assert.Equal(t, "/calculator", AppPath("Calculator"))
	assert.Equal(t, "/notes?fromPage=2", AppPathFrom(AppPath("Notes"), 2))
	assert.Equal(t, "/notes", AppPathFrom("/notes", 0))
}

func TestFromPage(t *testing.T) {
	n, ok := FromPage("fromPage=3")
	require.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok = FromPage("?fromPage=2&x=y")
	require.True(t, ok)
	assert.Equal(t, 2, n)

	for _, q := range []string{"", "fromPage=", "fromPage=abc", "fromPage=0", "other=1", "%zz"} {
		_, ok := FromPage(q)
		assert.False(t, ok, q)
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory("/pages/1")

	var seen []string
	cancel := h.Subscribe(func(path string) { seen = append(seen, path) })

	h.Replace("/pages/2")
	assert.Equal(t, 1, h.Len(), "replace does not grow the stack")

	h.Push("/notes?fromPage=2")
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "/notes?fromPage=2", h.Current())

	h.Back()
	assert.Equal(t, "/pages/2", h.Current())
	h.Back()
	assert.Equal(t, "/pages/2", h.Current(), "back at the first entry is a no-op")

	h.Replace("/pages/2")
	cancel()
	h.Push("/clock")

	assert.Equal(t, []string{"/pages/2", "/notes?fromPage=2", "/pages/2"}, seen)
}

func TestHistoryPushDropsForwardEntries(t *testing.T) {
	h := NewHistory("")
	h.Push("/a")
	h.Push("/b")
	h.Back()
	h.Push("/c")

	assert.Equal(t, 3, h.Len())
	h.Back()
	assert.Equal(t, "/a", h.Current())
}
