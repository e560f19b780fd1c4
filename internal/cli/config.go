// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation for threadline.
//
// CLI: Comprehensive help and examples for all commands
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display current configuration (secrets masked)
//   set <key> <value>   Set a configuration value by dot path
//   path                Print the config file location
//
// Examples:
//   threadline config show
//   threadline config set poll.interval_ms 1000
//   threadline config set assistant.id asst_abc123
//   threadline config path
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/threadline/internal/config"
)

// configSubcommands lists the valid config subcommands for usage errors.
var configSubcommands = []string{"show", "set", "path"}

// HandleConfig dispatches the config subcommands.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "show", "":
		return configShow()
	case "set":
		return configSet(args)
	case "path":
		return configPath()
	default:
		return ErrUnknownSubcommand("config", args.Subcommand, configSubcommands)
	}
}

// =============================================================================
// SHOW
// =============================================================================

// configShow prints every key with its current value. The API key is
// masked; everything else prints as stored.
func configShow() error {
	cfg := config.Global()

	fmt.Println(TitleStyle.Render("threadline config"))

	for _, key := range config.GetAllKeys() {
		if key == "api.key" {
			printKV(key, cfg.MaskedKey())
			continue
		}

		val, err := cfg.Get(key)
		if err != nil {
			continue
		}
		printKV(key, fmt.Sprintf("%v", val))
	}

	if path, err := config.ConfigPath(); err == nil {
		fmt.Println()
		fmt.Println(DimStyle.Render("File: " + path))
	}
	return nil
}

// =============================================================================
// SET
// =============================================================================

// configSet updates one key and writes the file back. Connection keys
// only take effect on restart; the rest hot-reload into running
// sessions through the config watcher.
func configSet(args Args) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "threadline config set poll.interval_ms 1000")
	}
	// Raw holds everything after "config": subcommand, key, value.
	if len(args.Raw) < 3 {
		return ErrMissingArgument("value", "threadline config set poll.interval_ms 1000")
	}

	cfg := config.Global()

	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return &ConfigError{Reason: "set " + args.ConfigKey, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Reason: "invalid value for " + args.ConfigKey, Err: err}
	}

	var err error
	if args.ConfigPath != "" {
		err = config.SaveTOML(cfg, args.ConfigPath)
	} else {
		err = config.Save(cfg)
	}
	if err != nil {
		return &ConfigError{Reason: "save config", Err: err}
	}

	shown := args.ConfigVal
	if args.ConfigKey == "api.key" {
		shown = cfg.MaskedKey()
	}
	fmt.Printf("%s %s = %s\n", RenderStatus("ok"), args.ConfigKey, ValueStyle.Render(shown))

	if strings.HasPrefix(args.ConfigKey, "api.") || strings.HasPrefix(args.ConfigKey, "assistant.") {
		fmt.Println(DimStyle.Render("Connection settings take effect when sessions restart."))
	}
	return nil
}

// =============================================================================
// PATH
// =============================================================================

// configPath prints the config file location.
func configPath() error {
	path, err := config.ConfigPath()
	if err != nil {
		return &ConfigError{Reason: "locate config file", Err: err}
	}

	fmt.Println(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println(DimStyle.Render("(not created yet; defaults are in effect)"))
	}
	return nil
}
