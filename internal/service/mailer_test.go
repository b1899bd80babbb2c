package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Hello world", StripTags("<p>Hello <b>world</b></p>"))
	assert.Equal(t, "no markup", StripTags("no markup"))
	assert.Equal(t, "link", StripTags(`<a href="http://x/y?a=1&b=2">link</a>`))
}

func TestMemoryMailerRecordsAndFails(t *testing.T) {
	t.Parallel()

	m := &MemoryMailer{}
	assert.NoError(t, m.Send(&Mail{To: "a@example.com"}))
	assert.Len(t, m.Sent(), 1)

	m.FailWith = errors.New("boom")
	assert.Error(t, m.Send(&Mail{To: "b@example.com"}))
	assert.Len(t, m.Sent(), 1)
}
