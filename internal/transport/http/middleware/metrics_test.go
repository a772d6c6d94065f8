package middleware

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			"UUID replacement",
			"/api/urls/550e8400-e29b-41d4-a716-446655440000",
			"/api/urls/:id",
		},
		{
			"ObjectID replacement",
			"/api/urls/507f1f77bcf86cd799439011",
			"/api/urls/:id",
		},
		{
			"numeric ID replacement",
			"/api/urls/12345",
			"/api/urls/:id",
		},
		{
			"no change for short code path",
			"/abcXYZ",
			"/abcXYZ",
		},
		{
			"multiple IDs",
			"/api/urls/550e8400-e29b-41d4-a716-446655440000/clicks/660e8400-e29b-41d4-a716-446655440001",
			"/api/urls/:id/clicks/:id",
		},
		{
			"root path unchanged",
			"/",
			"/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.want {
				t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
