package main

import (
	"io"
	"log"
	"os"
)

// diagLog is the destination for one-line diagnostics (page reads, schema
// fallbacks). Command output always goes to stdout separately; diagnostics
// never do, so they can't corrupt a piped SELECT result.
var diagLog = log.New(os.Stderr, "", 0)

// setDiagOutput redirects diagnostics, used by tests to silence noise.
func setDiagOutput(w io.Writer) {
	diagLog.SetOutput(w)
}
