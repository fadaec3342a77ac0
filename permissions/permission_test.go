package permissions_test

import (
	"kumbam/permissions"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		name   string
		path   string
		method string
		want   permissions.Permission
	}{
		{
			name:   "public venue listing",
			path:   "/v1/venues/{id}/availability",
			method: http.MethodGet,
			want:   permissions.Permission{Path: "/v1/venues/{id}/availability", Method: http.MethodGet, Skip: true},
		},
		{
			name:   "guest booking",
			path:   "/v1/bookings/",
			method: http.MethodPost,
			want:   permissions.Permission{Path: "/v1/bookings/", Method: http.MethodPost, Optional: true},
		},
		{
			name:   "payment confirmation is internal",
			path:   "/v1/payments/confirm",
			method: http.MethodPost,
			want:   permissions.Permission{Path: "/v1/payments/confirm", Method: http.MethodPost, Internal: true},
		},
		{
			name:   "unknown route requires a token",
			path:   "/v1/unknown",
			method: http.MethodGet,
			want:   permissions.Permission{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, data.FindPermissions(tt.path, tt.method))
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := permissions.Parse([]byte(`{"endpoints": [`))

	assert.Error(t, err)
}
