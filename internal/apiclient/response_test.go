package apiclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseOK(t *testing.T) {
	var nilResp *Response
	assert.False(t, nilResp.OK())
	assert.True(t, (&Response{StatusCode: 204}).OK())
	assert.False(t, (&Response{StatusCode: 403}).OK())
}

func TestResponseErrorMessage(t *testing.T) {
	cases := []struct{ body, want string }{
		{`{"error":"Invalid credentials"}`, "Invalid credentials"},
		{`{"error":{"code":"NOT_FOUND","message":"no such user"}}`, "no such user"},
		{`{"message":"slow down"}`, "slow down"},
		{`not json`, ""},
		{``, ""},
	}
	for _, tc := range cases {
		r := &Response{StatusCode: 400, Body: []byte(tc.body)}
		assert.Equal(t, tc.want, r.ErrorMessage(), tc.body)
	}
	var nilResp *Response
	assert.Empty(t, nilResp.ErrorMessage())
}

func TestResponseDecode(t *testing.T) {
	r := &Response{StatusCode: 200, Body: []byte(`{"stats":{"total_users":3}}`)}
	var out struct {
		Stats struct {
			TotalUsers int `json:"total_users"`
		} `json:"stats"`
	}
	require.NoError(t, r.Decode(&out))
	assert.Equal(t, 3, out.Stats.TotalUsers)
}
