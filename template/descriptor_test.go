package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDescriptor(t *testing.T) {
	want := Descriptor{
		Template: "https://i.imgur.com/abc123.png",
		Width:    120,
		X:        -15,
		Y:        340,
	}

	tables := []struct {
		name string
		link string
	}{
		{"direct", "template=https%3A%2F%2Fi.imgur.com%2Fabc123.png&tw=120&ox=-15&oy=340"},
		{"direct unescaped", "template=https://i.imgur.com/abc123.png&tw=120&ox=-15&oy=340"},
		{"direct reordered", "oy=340&ox=-15&tw=120&template=https%3A%2F%2Fi.imgur.com%2Fabc123.png&title=Foo"},
		{"legacy", "https://pxls.space/#template=https%3A%2F%2Fi.imgur.com%2Fabc123.png&tw=120&ox=-15&oy=340"},
		{"legacy with extras", "https://pxls.space/#template=https%3A%2F%2Fi.imgur.com%2Fabc123.png&tw=120&oo=1&ox=-15&oy=340&x=10&y=10&scale=4"},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			got, err := ParseDescriptor(table.link)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseDescriptorRepeatedKeys(t *testing.T) {
	got, err := ParseDescriptor("template=a.png&template=b.png&tw=1&tw=2&ox=3&oy=4")
	require.NoError(t, err)
	assert.Equal(t, Descriptor{Template: "a.png", Width: 1, X: 3, Y: 4}, got)
}

func TestParseDescriptorBlankValues(t *testing.T) {
	// Blank values are skipped, not taken as the first value
	got, err := ParseDescriptor("template=&template=a.png&tw=&tw=3&ox=1&oy=2")
	require.NoError(t, err)
	assert.Equal(t, Descriptor{Template: "a.png", Width: 3, X: 1, Y: 2}, got)

	// A blank direct key falls through to the legacy key
	got, err = ParseDescriptor("template=&https://pxls.space/#template=b.png&tw=1&ox=1&oy=2")
	require.NoError(t, err)
	assert.Equal(t, "b.png", got.Template)
}

func TestParseDescriptorIgnoresUnneededPairs(t *testing.T) {
	got, err := ParseDescriptor("template=a.png&tw=1&ox=2&oy=3&title=a;b")
	require.NoError(t, err)
	assert.Equal(t, Descriptor{Template: "a.png", Width: 1, X: 2, Y: 3}, got)

	got, err = ParseDescriptor("https://pxls.space/#template=a.png&tw=1&ox=2&oy=3&title=%zz")
	require.NoError(t, err)
	assert.Equal(t, Descriptor{Template: "a.png", Width: 1, X: 2, Y: 3}, got)
}

func TestParseDescriptorErrors(t *testing.T) {
	tables := []struct {
		name string
		link string
		err  error
	}{
		{"no template", "tw=120&ox=1&oy=2", ErrMissingField},
		{"no tw", "template=a.png&ox=1&oy=2", ErrMissingField},
		{"no ox legacy", "https://pxls.space/#template=a.png&tw=1&oy=2", ErrMissingField},
		{"no oy", "template=a.png&tw=1&ox=2", ErrMissingField},
		{"bad tw", "template=a.png&tw=wide&ox=1&oy=2", ErrParse},
		{"bad ox", "template=a.png&tw=1&ox=1.5&oy=2", ErrParse},
		{"blank oy legacy", "https://pxls.space/#template=a.png&tw=1&ox=1&oy=", ErrMissingField},
		{"blank template", "template=&tw=1&ox=1&oy=2", ErrMissingField},
		{"blank legacy template", "https://pxls.space/#template=&tw=1&ox=1&oy=2", ErrMissingField},
		{"bad escape in tw", "template=a.png&tw=%zz&ox=1&oy=2", ErrParse},
		{"bad escape", "template=%zz&tw=1&ox=1&oy=2", ErrParse},
		{"empty", "", ErrMissingField},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			got, err := ParseDescriptor(table.link)
			assert.ErrorIs(t, err, table.err)
			assert.Equal(t, Descriptor{}, got)
		})
	}
}
