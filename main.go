package main

import (
	"embed"
	"os"

	"github.com/msalah0e/towergraph/cmd"
)

//go:embed samples/*.toml
var samplesFS embed.FS

func main() {
	cmd.SetSamplesFS(samplesFS)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
