package sagepay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResponse(t *testing.T) {
	resp, err := decodeResponse([]byte(`{"status":"Ok","retrievalReference":8212376,"3DSecure":{"status":"NotChecked"}}`))
	require.NoError(t, err)

	assert.Equal(t, "Ok", resp.String("status"))
	assert.Equal(t, "8212376", resp.String("retrievalReference"))
	assert.Equal(t, json.Number("8212376"), resp["retrievalReference"])
	assert.Equal(t, "", resp.String("transactionId"))
}

func TestDecodeResponse_Failures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "html", body: "<html>Bad Gateway</html>"},
		{name: "array", body: `[{"status":"Ok"}]`},
		{name: "string", body: `"Ok"`},
		{name: "null", body: "null"},
		{name: "trailing html", body: `{"status":"Ok"}<html>502 Bad Gateway</html>`},
		{name: "two objects", body: `{"status":"Ok"}{"status":"Ok"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := decodeResponse([]byte(tt.body))
			assert.Error(t, err)
			assert.NotNil(t, resp)
			assert.Empty(t, resp)
		})
	}
}

func TestResponse_StringOfOtherTypes(t *testing.T) {
	resp := Response{"flag": true, "nothing": nil}

	assert.Equal(t, "true", resp.String("flag"))
	assert.Equal(t, "", resp.String("nothing"))
}

func TestDecodeResponse_TrailingWhitespace(t *testing.T) {
	resp, err := decodeResponse([]byte("{\"status\":\"Ok\"}\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "Ok", resp.String("status"))
}
