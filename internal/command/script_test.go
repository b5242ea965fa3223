package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestScript_UnmarshalYAML(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		src  string
		want int
	}{
		{"single string", "run: set $a 1", 1},
		{"block string", "run: |\n  set $a 1\n  inc $a\n", 2},
		{"sequence", "run:\n  - set $a 1\n  - toggle $b\n  - inc $c 2\n", 3},
	}

	for _, tc := range testCases {

		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var doc struct {
				Run Script `yaml:"run"`
			}
			require.NoError(t, yaml.Unmarshal([]byte(tc.src), &doc))

			cmds, err := doc.Run.Parse()
			require.NoError(t, err)
			assert.Len(t, cmds, tc.want)
		})
	}
}

func TestScript_RejectsMappings(t *testing.T) {
	t.Parallel()
	var doc struct {
		Run Script `yaml:"run"`
	}
	err := yaml.Unmarshal([]byte("run:\n  set: $a\n"), &doc)
	assert.Error(t, err)
}
