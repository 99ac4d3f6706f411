package clientip_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flaggly/flaggly/pkg/clientip"
)

func TestGetIPPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "cdn header wins",
			headers:    map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"},
			remoteAddr: "10.0.0.1:443",
			want:       "203.0.113.7",
		},
		{
			name:       "forwarded-for first valid entry",
			headers:    map[string]string{"X-Forwarded-For": "garbage, 198.51.100.1, 10.0.0.2"},
			remoteAddr: "10.0.0.1:443",
			want:       "198.51.100.1",
		},
		{
			name:       "real-ip fallback",
			headers:    map[string]string{"X-Real-IP": "192.0.2.44"},
			remoteAddr: "10.0.0.1:443",
			want:       "192.0.2.44",
		},
		{
			name:       "remote addr fallback",
			remoteAddr: "192.0.2.10:51234",
			want:       "192.0.2.10",
		},
		{
			name:       "spoofed garbage ignored",
			headers:    map[string]string{"CF-Connecting-IP": "not-an-ip"},
			remoteAddr: "192.0.2.10:51234",
			want:       "192.0.2.10",
		},
		{
			name:       "ipv6 normalized",
			headers:    map[string]string{"CF-Connecting-IP": "2001:DB8::1"},
			remoteAddr: "10.0.0.1:443",
			want:       "2001:db8::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.GetIP(r))
		})
	}
}
