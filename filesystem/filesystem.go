// Package filesystem is the single afero handle every clipview package reads and
// writes through: the viper config file, the log file, resolver scripts, and the
// gache-backed link history and mpv version cache. Tests swap it for memory.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active backend.
func API() afero.Afero {
	return backend
}

// SetOsFs switches back to the real disk.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a fresh in-memory filesystem, so a test starts with
// no config, no link history and no resolver scripts.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}
