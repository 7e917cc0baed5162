package lookup

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusText(t *testing.T) {
	tests := []struct {
		code   int
		want   string
		wantOK bool
	}{
		{200, "Ok", true},
		{204, "No Content", true},
		{404, "Not Found", true},
		{418, "I'm a teapot", true},
		{504, "Gateway Timeout", true},
		{599, "", false},
		{302, "", false},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.code), func(t *testing.T) {
			got, ok := StatusText(tt.code)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusCodes(t *testing.T) {
	codes := StatusCodes()
	assert.Len(t, codes, 22)
	assert.Equal(t, 200, codes[0])
	assert.Equal(t, 504, codes[len(codes)-1])
	assert.IsIncreasing(t, codes)
}

func TestMIME(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
		known bool
	}{
		{"json", "json", "application/json", true},
		{"trimmed", "  xml ", "application/xml", true},
		{"js alias", "js", "application/javascript", true},
		{"javascript", "javascript", "application/javascript", true},
		{"svg", "svg", "image/svg+xml", true},
		{"case sensitive", "JSON", "JSON", false},
		{"passthrough", "custom/type", "custom/type", false},
		{"passthrough trimmed", " custom/type ", "custom/type", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandMIME(tt.token))
			_, ok := MIMEType(tt.token)
			assert.Equal(t, tt.known, ok)
		})
	}
}

func TestExpandMIMEList(t *testing.T) {
	got := ExpandMIMEList([]string{"json", " ", "text", "application/pdf"})
	assert.Equal(t, []string{"application/json", "text/plain", "application/pdf"}, got)
}
