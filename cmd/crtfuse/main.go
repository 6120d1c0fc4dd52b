// SPDX-License-Identifier: MIT

// Command crtfuse exposes the CRT fusion engine on the command line.
//
//	crtfuse presets
//	crtfuse reconstruct --moduli 3,5,7 2 3 2
//	crtfuse project --input matrix.json
//	crtfuse analyze --input batch.json
//	crtfuse attend --input qkv.json
//	crtfuse plot --input matrix.json --out trace.html
//
// Every command reads the engine configuration from --config (YAML) and
// writes JSON to stdout.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "crtfuse:", err)
		os.Exit(1)
	}
}
