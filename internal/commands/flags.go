// Package commands implements the backoffice CLI subcommands.
package commands

import (
	"github.com/goliatone/go-backoffice-cache/config"
	"github.com/goliatone/go-backoffice-cache/pkg/di"
)

// Flags holds global flag values shared by all commands.
type Flags struct {
	ConfigPath string
	LogLevel   string
	BaseURL    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Container is built in the Before hook from Config
	Container *di.Container
}
