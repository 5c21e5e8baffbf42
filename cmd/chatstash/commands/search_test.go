// ABOUTME: Tests for search command
// ABOUTME: Verifies search command structure and flag validation

package commands

import (
	"testing"
)

func TestNewSearchCmd(t *testing.T) {
	cmd := NewSearchCmd()

	if cmd.Use != "search <query>" {
		t.Errorf("Use = %q, want %q", cmd.Use, "search <query>")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.Long == "" {
		t.Error("Long description should not be empty")
	}
}

func TestSearchCmd_ChatFlag(t *testing.T) {
	cmd := NewSearchCmd()

	chatFlag := cmd.Flags().Lookup("chat")
	if chatFlag == nil {
		t.Fatal("--chat flag not found")
	}

	if chatFlag.DefValue != "" {
		t.Errorf("--chat default = %q, want empty", chatFlag.DefValue)
	}
}

func TestSearchCmd_ArgsValidation(t *testing.T) {
	cmd := NewSearchCmd()

	// Should require exactly 1 argument
	if cmd.Args == nil {
		t.Error("Args validator should be set")
	}
}

func TestSearchCmd_Examples(t *testing.T) {
	cmd := NewSearchCmd()

	expectedParts := []string{
		"--chat",
		"--format json",
	}

	for _, part := range expectedParts {
		if !findSubstring(cmd.Long, part) {
			t.Errorf("Long description should contain %q", part)
		}
	}
}

func TestSearchCmd_Description(t *testing.T) {
	cmd := NewSearchCmd()

	// Should name all three searched entities
	for _, entity := range []string{"titles", "contents", "project"} {
		if !findSubstring(cmd.Long, entity) {
			t.Errorf("Long description should mention %q", entity)
		}
	}
}
