// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package osenv holds the names of the environment variables the client
// reads, and the locations it keeps its files in.
package osenv

const (
	// EndpointEnvKey names the endpoint, by name or URL, to use
	// instead of the current one.
	EndpointEnvKey = "BOA_ENDPOINT"

	// UserEnvKey and PasswordEnvKey hold the credentials to log in
	// with.
	UserEnvKey     = "BOA_USER"
	PasswordEnvKey = "BOA_PASSWORD"

	// LoggingConfigEnvKey holds a loggo configuration string such as
	// "<root>=INFO;boa.rpc=DEBUG".
	LoggingConfigEnvKey = "BOA_LOGGING_CONFIG"

	// DataHomeEnvKey overrides the directory the client keeps its
	// files in.
	DataHomeEnvKey = "BOA_DATA_HOME"

	// XDGDataHomeEnvKey is the XDG base directory for user data files.
	XDGDataHomeEnvKey = "XDG_DATA_HOME"
)
