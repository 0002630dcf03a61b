package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		want    string
	}{
		{name: "local build", version: "dev", want: "dev"},
		{name: "release", version: "v1.2.0", want: "v1.2.0"},
		{name: "release with commit", version: "v1.2.0", commit: "abc1234", want: "v1.2.0 (abc1234)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldVersion, oldCommit := version, commit
			t.Cleanup(func() { version, commit = oldVersion, oldCommit })

			version, commit = tt.version, tt.commit
			assert.Equal(t, tt.want, GetVersion())
		})
	}
}
