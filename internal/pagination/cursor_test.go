package pagination

import (
	"encoding/base64"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	cases := []struct{ offset, size int }{
		{0, 1},
		{0, 50},
		{20, 20},
		{199, 200},
		{123456, 500},
	}
	for _, tc := range cases {
		token := EncodeCursor(tc.offset, tc.size)
		require.NotEmpty(t, token)
		got := DecodeCursor(token)
		assert.Equal(t, Cursor{Offset: tc.offset, PageSize: tc.size}, got)
	}
}

func TestCursorTokenIsPrintable(t *testing.T) {
	token := EncodeCursor(40, 20)
	for _, r := range token {
		assert.True(t, r > 0x20 && r < 0x7f, "unexpected rune %q in %q", r, token)
	}
}

func TestDecodeCursorLargestOffset(t *testing.T) {
	assert.Equal(t, Cursor{Offset: math.MaxInt - 5, PageSize: 5}, DecodeCursor(EncodeCursor(math.MaxInt-5, 5)))
}

func TestDecodeCursorGarbage(t *testing.T) {
	b64 := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }
	inputs := map[string]string{
		"empty":           "",
		"not base64":      "%%%not-a-cursor%%%",
		"not json":        b64("offset=10"),
		"json array":      b64("[1,2]"),
		"missing size":    b64(`{"offset":10}`),
		"missing offset":  b64(`{"page_size":10}`),
		"string values":   b64(`{"offset":"10","page_size":"5"}`),
		"float values":    b64(`{"offset":1.5,"page_size":5}`),
		"negative offset": b64(`{"offset":-1,"page_size":5}`),
		"zero size":       b64(`{"offset":0,"page_size":0}`),
		"offset overflow": b64(`{"offset":9223372036854775807,"page_size":1}`),
		"sum overflow":    EncodeCursor(math.MaxInt-10, 11),
	}
	for name, token := range inputs {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, Cursor{Offset: 0, PageSize: DefaultPageSize}, DecodeCursor(token))
		})
	}
}
