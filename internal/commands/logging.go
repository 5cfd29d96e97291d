package commands

import (
	"strings"

	"github.com/reflectoring/reflectoring.github.io-sub011/internal/logging"
	"github.com/reflectoring/reflectoring.github.io-sub011/pkg/interfaces"
)

const commandModuleRoot = "corpus.commands"

// CommandLogger returns a module-scoped logger for command handlers, enriched
// with structured fields so every command execution carries consistent
// identification.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ComponentLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
