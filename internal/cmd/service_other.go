//go:build !linux

package cmd

import (
	"errors"
	"log/slog"
)

// Run reports that service installation is unsupported outside linux.
func (s *ServiceInstall) Run(logger *slog.Logger) error {
	return errors.New("service install is only supported on linux")
}

// Run reports that service removal is unsupported outside linux.
func (s *ServiceUninstall) Run(logger *slog.Logger) error {
	return errors.New("service uninstall is only supported on linux")
}
