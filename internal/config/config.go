// Package config defines the root Kong CLI structure.
package config

import "github.com/Alia5/fakemote/internal/cmd"

// CLI is fakemote's root command set.
type CLI struct {
	Log LogConfig `embed:"" prefix:"log."`

	Run     cmd.Run           `cmd:"" help:"Attach recognised USB gamepads and present them as fake Wiimotes over Bluetooth"`
	Config  cmd.ConfigCommand `cmd:"" help:"Configuration file utilities"`
	Service cmd.Service       `cmd:"" help:"Install or remove the background service"`
}

// LogConfig groups the logging flags shared by every subcommand.
type LogConfig struct {
	Level   string `help:"Log level (trace,debug,info,warn,error)" enum:"trace,debug,info,warn,error" default:"info" env:"FAKEMOTE_LOG_LEVEL"`
	File    string `help:"Write logs to this file instead of stdout/stderr" env:"FAKEMOTE_LOG_FILE"`
	RawFile string `help:"Raw packet trace file, created or truncated at startup; no command writes HCI/L2CAP frames to it" env:"FAKEMOTE_RAW_LOG_FILE"`
}
