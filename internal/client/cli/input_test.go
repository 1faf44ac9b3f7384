package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetMultiline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "double enter", input: "a\nb\n\n\n", want: "a\nb"},
		{name: "CRLF", input: "a\r\nb\r\n\r\n", want: "a\nb"},
		{name: "EOF without blank line", input: "a\nb", want: "a\nb"},
		{name: "immediate blank line", input: "\n", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetMultiline(rdr(tc.input), "Enter text", &out)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }
	var out bytes.Buffer
	pw, err := GetPassword(&out, "Password")
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), pw)
	assert.Equal(t, "Password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword(&out, "Password")
	require.Error(t, err)
}

func TestGetConfirmation(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, GetConfirmation(rdr("y\n"), "Sure?", &out))
	assert.True(t, GetConfirmation(rdr("YES\n"), "Sure?", &out))
	assert.False(t, GetConfirmation(rdr("no\n"), "Sure?", &out))
	assert.False(t, GetConfirmation(rdr(""), "Sure?", &out))
}
