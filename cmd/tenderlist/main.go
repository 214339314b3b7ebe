// Command tenderlist is the tender checklist and reference table editor.
package main

import (
	"context"
	"os"

	"github.com/mesh-intelligence/tenderlist/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
