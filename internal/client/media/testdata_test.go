package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

// answers returns a PromptFunc replaying replies and recording prompts.
func answers(prompts *[]string, replies ...string) PromptFunc {
	return func(prompt string) (string, error) {
		*prompts = append(*prompts, prompt)
		if len(replies) == 0 {
			return "", nil
		}
		r := replies[0]
		replies = replies[1:]
		return r, nil
	}
}
