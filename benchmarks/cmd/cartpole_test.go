package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBalanceCommand(t *testing.T) {
	dir := t.TempDir()
	root := RootCommand()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetArgs([]string{"balance", "--steps", "300", "--failures", "5", "--seed", "3", "--save-path", dir})

	if err := root.Execute(); err != nil {
		t.Fatalf("balance: %s", err)
	}
	printed := out.String()
	if !strings.Contains(printed, "Pole balanced successfully") && !strings.Contains(printed, "Pole not balanced") {
		t.Fatalf("no outcome in\n%s", printed)
	}
	if strings.Contains(printed, "Pole not balanced") && strings.Count(printed, "Failure ") != 5 {
		t.Errorf("expected one line per failure in\n%s", printed)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.json")); err != nil {
		t.Errorf("configuration not recorded: %s", err)
	}
}

func TestBalanceRejectsBudgets(t *testing.T) {
	root := RootCommand()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"balance", "--steps", "0", "--save-path", t.TempDir()})

	if err := root.Execute(); err == nil {
		t.Fatalf("a zero step budget was accepted")
	}
}
