package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/msalah0e/towergraph/internal/record"
	"github.com/msalah0e/towergraph/internal/ui"
	"github.com/spf13/cobra"
)

var samplesFS fs.FS

// SetSamplesFS sets the embedded sample records used by init.
func SetSamplesFS(fsys fs.FS) {
	samplesFS = fsys
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Seed the tower folder with a small sample upgrade tree",
		Run: func(cmd *cobra.Command, args []string) {
			s, err := openStore(cfg)
			if err != nil {
				fail("%v", err)
			}
			created, skipped, err := seed(s, samplesFS)
			if err != nil {
				fail("Failed to seed %s: %v", cfg.Store.Dir, err)
			}

			ui.Banner(fmt.Sprintf("seeded %s", cfg.Store.Dir))
			for _, name := range created {
				fmt.Fprintf(ui.Out, "  %s %s\n", ui.StatusIcon(true), name)
			}
			for _, name := range skipped {
				fmt.Fprintf(ui.Out, "  %s %s %s\n", ui.Subtle.Sprint("-"), name, ui.Subtle.Sprint("(exists)"))
			}
			if len(created) > 0 {
				postSave(created...)
			}
		},
	}
}

// seed writes every sample record into s, leaving existing names alone.
func seed(s record.Store, fsys fs.FS) (created, skipped []string, err error) {
	if fsys == nil {
		return nil, nil, errors.New("no sample records built in")
	}
	entries, err := fs.Glob(fsys, "samples/*.toml")
	if err != nil {
		return nil, nil, err
	}
	for _, p := range entries {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return created, skipped, err
		}
		var r record.Record
		if err := (record.TOML{}).Unmarshal(data, &r); err != nil {
			return created, skipped, fmt.Errorf("parsing %s: %w", path.Base(p), err)
		}
		err = s.Create(&r, s.PathFor(r.Name))
		switch {
		case errors.Is(err, record.ErrExists):
			skipped = append(skipped, r.Name)
		case err != nil:
			return created, skipped, err
		default:
			created = append(created, r.Name)
		}
	}
	return created, skipped, nil
}
