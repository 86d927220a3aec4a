package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setBuild(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = v, c, d })
	Version, Commit, BuildDate = version, commit, date
}

func TestFull(t *testing.T) {
	tests := []struct {
		name   string
		commit string
		date   string
		want   string
	}{
		{"release only", "", "", "nga version 1.2.3"},
		{"abbreviated commit", "abcdef123456", "", "nga version 1.2.3\ncommit: abcdef1"},
		{"short commit kept", "abc", "2026-01-15", "nga version 1.2.3\ncommit: abc\nbuilt: 2026-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBuild(t, "1.2.3", tt.commit, tt.date)
			assert.Equal(t, tt.want, Full())
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "nga", Name)
	assert.NotEmpty(t, Version)
}
