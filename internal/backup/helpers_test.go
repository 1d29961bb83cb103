package backup

import (
	"os"
	"strings"
	"sync"
	"testing"
)

func newGuard() *sync.Mutex {
	return &sync.Mutex{}
}

func assertFileContains(t *testing.T, path, want string) {
	t.Helper()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !strings.Contains(string(raw), want) {
		t.Fatalf("%s does not contain %q", path, want)
	}
}
