package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type emptyErr struct{}

func (emptyErr) Error() string { return "" }

type ptrErr struct{ msg string }

func (p *ptrErr) Error() string { return p.msg }

func TestMessage(t *testing.T) {
	var typedNil *ptrErr

	assert.Equal(t, UnknownMessage, Message(nil))
	assert.Equal(t, UnknownMessage, Message(emptyErr{}))
	assert.Equal(t, UnknownMessage, Message(typedNil))
	assert.Equal(t, "boom", Message(errors.New("boom")))
}

func TestError_MessageFallback(t *testing.T) {
	e := &Error{Kind: Read}
	assert.Equal(t, UnknownMessage, e.Error())

	e = Readf(nil, "read 87/16")
	assert.Equal(t, "read 87/16: "+UnknownMessage, e.Error())
}

func TestKindOf(t *testing.T) {
	base := Connectionf(errors.New("refused"), "dial %s", "h:502")
	wrapped := fmt.Errorf("cycle: %w", base)

	assert.Equal(t, Connection, KindOf(wrapped))
	assert.Equal(t, Unknown, KindOf(errors.New("plain")))
	assert.Equal(t, Unknown, KindOf(nil))
	assert.Equal(t, Decode, KindOf(Decodef("short: %d", 3)))
}

func TestWithStep(t *testing.T) {
	assert.NoError(t, WithStep(nil, "x"))

	err := WithStep(Readf(errors.New("exception 2"), "read"), "sim")
	assert.Equal(t, Read, KindOf(err))
	assert.Equal(t, "sim", StepOf(err))

	err = WithStep(errors.New("odd"), "usage")
	assert.Equal(t, Unknown, KindOf(err))
	assert.Equal(t, "usage", StepOf(err))
	assert.Equal(t, "odd", Message(err))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "connection", Connection.String())
	assert.Equal(t, "read", Read.String())
	assert.Equal(t, "decode", Decode.String())
	assert.Equal(t, "unknown", Unknown.String())
}
