package json

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
}

func TestMarshalKeepsHTML(t *testing.T) {
	b, err := New().Marshal(doc{Title: "<b>Shapes</b> & colors"})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"<b>Shapes</b> & colors"}`, string(b))
}

func TestDecode(t *testing.T) {
	var d doc
	err := New().Decode(strings.NewReader(`{"title":"Numbers","tags":["math"]}`), &d)
	require.NoError(t, err)
	assert.Equal(t, doc{Title: "Numbers", Tags: []string{"math"}}, d)
}
