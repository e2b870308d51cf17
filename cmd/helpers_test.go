package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// executeCommand runs a fresh command tree with args and returns stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func answers(section string, count, value int, overrides map[int]int) string {
	var b strings.Builder
	b.WriteString(section + ":\n")
	for i := 1; i <= count; i++ {
		v := value
		if o, ok := overrides[i]; ok {
			v = o
		}
		fmt.Fprintf(&b, "  %d: %d\n", i, v)
	}
	return b.String()
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// seedSheets writes a first-year sheet with two critical grade alerts and an
// indicators-only sheet with a critical attendance alert.
func seedSheets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, dir, "turma-a/ana.sheet.yaml", "subject: Ana Souza\ngrade: FIRST_YEAR\n"+
		answers("via", 71, 3, map[int]int{3: 4, 30: 4, 48: 4})+
		answers("srss", 12, 0, map[int]int{4: 2, 12: 3})+
		"indicators:\n  attendanceRate: 95\n  currentAverage: 7.5\n  previousAverage: 7.0\n")
	writeFixture(t, dir, "turma-b/caio.sheet.json",
		`{"subject": "Caio", "indicators": {"attendanceRate": 80, "currentAverage": 6}}`)
	return dir
}
