// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"os"

	"github.com/juju/boaclient/cmd/boa/commands"
)

func main() {
	os.Exit(commands.Main(os.Args))
}
