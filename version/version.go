// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package version holds the version of the client.
package version

import (
	semversion "github.com/juju/version/v2"
)

const version = "0.1.0"

// Current gives the current version of the client.
var Current = semversion.MustParse(version)

// UserAgent is sent with every request the client makes.
func UserAgent() string {
	return "boaclient-go/" + Current.String()
}
