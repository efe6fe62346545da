package flagx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value is kept",
			args:    []string{"-a", "https://api.example.com", "-x", "ignored"},
			allowed: []string{"-a"},
			want:    []string{"-a", "https://api.example.com"},
		},
		{
			name:    "equals form is kept whole",
			args:    []string{"--config=portal.json", "-v"},
			allowed: []string{"--config"},
			want:    []string{"--config=portal.json"},
		},
		{
			name:    "unknown flags dropped",
			args:    []string{"-z", "1", "-q=2"},
			allowed: []string{"-a"},
			want:    []string{},
		},
		{
			name:    "flag followed by another flag keeps no value",
			args:    []string{"-a", "-b"},
			allowed: []string{"-a"},
			want:    []string{"-a"},
		},
		{
			name:    "empty input",
			args:    nil,
			allowed: []string{"-a"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FilterArgs(tt.args, tt.allowed)
			require.Equal(t, tt.want, got)
		})
	}
}
