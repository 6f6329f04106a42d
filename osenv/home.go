// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package osenv

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/juju/utils/v4"
)

var (
	dataHomeMu sync.Mutex
	dataHome   string
)

// SetDataHome sets the directory the client keeps its files in,
// returning the previous value. An empty dir restores the default.
func SetDataHome(dir string) string {
	dataHomeMu.Lock()
	defer dataHomeMu.Unlock()
	old := dataHome
	dataHome = dir
	return old
}

// DataHome returns the directory the client keeps its files in: the one
// set by SetDataHome, else $BOA_DATA_HOME, else $XDG_DATA_HOME/boa,
// else ~/.local/share/boa.
func DataHome() string {
	dataHomeMu.Lock()
	dir := dataHome
	dataHomeMu.Unlock()
	if dir != "" {
		return dir
	}
	return DataHomeDir()
}

// DataHomeDir returns the directory named by the environment, ignoring
// any directory set with SetDataHome.
func DataHomeDir() string {
	if dir := os.Getenv(DataHomeEnvKey); dir != "" {
		if normalized, err := utils.NormalizePath(dir); err == nil {
			return normalized
		}
		return dir
	}
	if dir := os.Getenv(XDGDataHomeEnvKey); dir != "" {
		return filepath.Join(dir, "boa")
	}
	return filepath.Join(utils.Home(), ".local", "share", "boa")
}

// DataHomePath returns the path of a file under DataHome.
func DataHomePath(names ...string) string {
	return filepath.Join(append([]string{DataHome()}, names...)...)
}
