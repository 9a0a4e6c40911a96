// repomapper generates MAP.txt: a symbol map of a source tree for LLM
// coding assistants, built from universal-ctags output.
package main

import (
	"os"

	"github.com/vphantom/repomapper/cmd/repomapper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
