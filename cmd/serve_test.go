package cmd

import (
	"testing"
)

func TestServeCommandFlags(t *testing.T) {
	cmd := NewRootCmd()
	sub, _, err := cmd.Find([]string{"serve"})
	if err != nil {
		t.Fatalf("Failed to find serve command: %v", err)
	}

	for _, flag := range []string{"host", "port"} {
		if sub.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag on serve command", flag)
		}
	}
}
