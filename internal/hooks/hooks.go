// Package hooks runs user shell commands around record saves.
package hooks

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/msalah0e/towergraph/internal/config"
)

// Save phases.
const (
	PreSave  = "pre_save"
	PostSave = "post_save"
)

// Run executes the hook script for the given phase, if configured. The
// script runs in dir with the names of the written towers in
// TOWERGRAPH_CHANGED, one per line.
func Run(h config.HooksConfig, phase, dir string, changed []string, out io.Writer) error {
	script := getHook(h, phase)
	if script == "" {
		return nil
	}

	cmd := exec.Command("sh", "-c", script)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"TOWERGRAPH_PHASE="+phase,
		"TOWERGRAPH_DIR="+dir,
		"TOWERGRAPH_CHANGED="+strings.Join(changed, "\n"),
	)
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s hook: %w", phase, err)
	}
	return nil
}

func getHook(h config.HooksConfig, phase string) string {
	switch phase {
	case PreSave:
		return h.PreSave
	case PostSave:
		return h.PostSave
	default:
		return ""
	}
}
