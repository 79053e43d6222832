package cmd

// Service groups subcommands for running fakemote as a background service.
type Service struct {
	Install   ServiceInstall   `cmd:"" help:"Install fakemote as a systemd service"`
	Uninstall ServiceUninstall `cmd:"" help:"Remove the fakemote systemd service"`
}

// ServiceInstall installs the platform service unit.
type ServiceInstall struct{}

// ServiceUninstall removes the platform service unit.
type ServiceUninstall struct{}
