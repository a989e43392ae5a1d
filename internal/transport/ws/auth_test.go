package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/obeidat/hrdesk/internal/config"
)

func TestResolveAuth_ConfigWins(t *testing.T) {
	t.Setenv("HRDESK_GATEWAY_TOKEN", "env-token")
	auth := ResolveAuth(config.GatewayAuth{Token: "cfg-token"})
	assert.Equal(t, "cfg-token", auth.Token)
}

func TestResolveAuth_EnvFallback(t *testing.T) {
	t.Setenv("HRDESK_GATEWAY_TOKEN", "env-token")
	auth := ResolveAuth(config.GatewayAuth{})
	assert.Equal(t, "env-token", auth.Token)
}

func TestAuthorize(t *testing.T) {
	server := ResolvedAuth{Token: "secret"}

	tests := []struct {
		name   string
		auth   ResolvedAuth
		token  string
		ok     bool
		reason string
	}{
		{"valid token", server, "secret", true, ""},
		{"wrong token", server, "nope", false, "token_mismatch"},
		{"empty token", server, "", false, "token required"},
		{"unconfigured server", ResolvedAuth{}, "secret", false, "server token not configured"},
		{"prefix is not enough", server, "secre", false, "token_mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Authorize(tt.auth, tt.token)
			assert.Equal(t, tt.ok, res.OK)
			if !tt.ok {
				assert.Equal(t, tt.reason, res.Reason)
			}
		})
	}
}

func TestSafeEqual(t *testing.T) {
	assert.True(t, safeEqual("abc", "abc"))
	assert.False(t, safeEqual("abc", "abd"))
	assert.False(t, safeEqual("abc", "abcd"))
	assert.False(t, safeEqual("", "abc"))
	assert.True(t, safeEqual("", ""))
}
