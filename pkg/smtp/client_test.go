package smtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		client, err := NewClient(&Config{Host: "localhost", Port: 1025})

		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("nil config", func(t *testing.T) {
		client, err := NewClient(nil)

		assert.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("missing host", func(t *testing.T) {
		client, err := NewClient(&Config{Port: 1025})

		assert.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("invalid port", func(t *testing.T) {
		client, err := NewClient(&Config{Host: "localhost", Port: 0})

		assert.Error(t, err)
		assert.Nil(t, client)
	})
}

func TestStripTags(t *testing.T) {
	t.Run("drops tags and keeps text", func(t *testing.T) {
		assert.Equal(t, "Hello world", StripTags("<p>Hello <b>world</b></p>"))
	})

	t.Run("removes script and style blocks entirely", func(t *testing.T) {
		in := "<style>body { color: red; }</style><p>Hi</p><script>alert(1)</script>"
		assert.Equal(t, "Hi", StripTags(in))
	})

	t.Run("unescapes entities", func(t *testing.T) {
		assert.Equal(t, "Fish & chips", StripTags("<p>Fish &amp; chips</p>"))
	})

	t.Run("collapses whitespace runs", func(t *testing.T) {
		in := "<div>\n  one\n\n   \n  two\n</div>"
		assert.Equal(t, "one\ntwo", StripTags(in))
	})
}
