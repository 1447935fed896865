package framework

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapturingLoggerKeepsMessagesInOrder(t *testing.T) {
	var l CapturingLogger
	l.Printf("first %d", 1)
	l.Printf("second %s", "two")

	out := l.Output()
	require.Len(t, out, 2)
	assert.Equal(t, "first 1", out[0].Message)
	assert.Equal(t, "second two", out[1].Message)
	assert.False(t, out[1].Time.Before(out[0].Time))
}

func TestCapturingLoggerOutputIsACopy(t *testing.T) {
	var l CapturingLogger
	l.Printf("a")
	out := l.Output()
	l.Printf("b")
	assert.Len(t, out, 1)
	assert.Len(t, l.Output(), 2)
}

func TestDumpIndentsContinuationLines(t *testing.T) {
	var l CapturingLogger
	l.Printf("response body:\n{\"a\":1}\n")

	var buf bytes.Buffer
	l.Output().Dump(&buf, "  DEBUG ")
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "  DEBUG ["))
	assert.True(t, strings.HasSuffix(lines[0], "] response body:"))
	assert.Equal(t, "  DEBUG     {\"a\":1}", lines[1])
}

func TestPrefixedLogger(t *testing.T) {
	var l CapturingLogger
	PrefixedLogger(&l, "[session] ").Printf("hello %s", "there")
	require.Len(t, l.Output(), 1)
	assert.Equal(t, "[session] hello there", l.Output()[0].Message)

	PrefixedLogger(nil, "x").Printf("discarded")
}
