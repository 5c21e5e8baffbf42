// ABOUTME: Tests for add command
// ABOUTME: Verifies chat creation and message append flag structure

package commands

import (
	"testing"
)

func TestNewAddCmd(t *testing.T) {
	cmd := NewAddCmd()

	if cmd.Use != "add [title]" {
		t.Errorf("Use = %q, want %q", cmd.Use, "add [title]")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if cmd.Long == "" {
		t.Error("Long description should not be empty")
	}
}

func TestAddCmd_Flags(t *testing.T) {
	cmd := NewAddCmd()

	tests := []struct {
		flagName string
		defValue string
	}{
		{"model", ""},
		{"to", ""},
		{"star", "false"},
		{"role", "user"},
		{"message", ""},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.flagName)
			if flag == nil {
				t.Fatalf("--%s flag not found", tt.flagName)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("--%s default = %q, want %q", tt.flagName, flag.DefValue, tt.defValue)
			}
		})
	}
}

func TestAddCmd_ArgsValidation(t *testing.T) {
	cmd := NewAddCmd()

	// Args should allow 0 or 1 arguments
	if cmd.Args == nil {
		t.Error("Args validator should be set")
	}
}

func TestAddCmd_Examples(t *testing.T) {
	cmd := NewAddCmd()

	if cmd.Long == "" {
		t.Fatal("Long description should not be empty")
	}

	// Should mention message and append flags
	if !findSubstring(cmd.Long, "--message") {
		t.Error("Long description should mention --message flag")
	}

	if !findSubstring(cmd.Long, "--to") {
		t.Error("Long description should mention --to flag")
	}
}
