package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-d", "memory://", "-x", "1"},
			allowed: []string{"-d"},
			want:    []string{"-d", "memory://"},
		},
		{
			name:    "equals form",
			args:    []string{"-a=:8080", "-v"},
			allowed: []string{"-a"},
			want:    []string{"-a=:8080"},
		},
		{
			name:    "unknown flags and positionals dropped",
			args:    []string{"serve", "--verbose", "-q=1"},
			allowed: []string{"-a", "-d"},
			want:    []string{},
		},
		{
			name:    "next dash token is not a value",
			args:    []string{"-s", "-t", "30"},
			allowed: []string{"-s", "-t"},
			want:    []string{"-s", "-t", "30"},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-l"},
			allowed: []string{"-l"},
			want:    []string{"-l"},
		},
		{
			name:    "repeated flag keeps order",
			args:    []string{"-o", "http://a", "-o", "http://b"},
			allowed: []string{"-o"},
			want:    []string{"-o", "http://a", "-o", "http://b"},
		},
		{
			name:    "empty args",
			args:    []string{},
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		t.Setenv("CONFIG", "")
		os.Args = []string{"testbin", "-c", "/path/short.json"}
		assert.Equal(t, "/path/short.json", ConfigFile())
	})

	t.Run("long -config with value", func(t *testing.T) {
		t.Setenv("CONFIG", "")
		os.Args = []string{"testbin", "-config", "/path/long.json"}
		assert.Equal(t, "/path/long.json", ConfigFile())
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		t.Setenv("CONFIG", "")
		os.Args = []string{"testbin", "-x", "1", "-y", "2"}
		assert.Empty(t, ConfigFile())
	})

	t.Run("multiple flags, last wins", func(t *testing.T) {
		t.Setenv("CONFIG", "")
		os.Args = []string{"testbin", "-c", "/path/1.json", "-config", "/path/2.json"}
		assert.Equal(t, "/path/2.json", ConfigFile())
	})

	t.Run("falls back to CONFIG env", func(t *testing.T) {
		t.Setenv("CONFIG", "/etc/socialfeed.json")
		os.Args = []string{"testbin"}
		assert.Equal(t, "/etc/socialfeed.json", ConfigFile())
	})

	t.Run("flag wins over env", func(t *testing.T) {
		t.Setenv("CONFIG", "/etc/socialfeed.json")
		os.Args = []string{"testbin", "-c", "local.json"}
		assert.Equal(t, "local.json", ConfigFile())
	})
}
