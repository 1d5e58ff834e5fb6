package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/ZebulonRouseFrantzich/zline/internal/config"
)

// runInit handles the `zline init` subcommand
func runInit(args []string) error {
	showHelp := false
	force := false
	configPath := ""

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--help", "-h":
			showHelp = true
		case "--force", "-f":
			force = true
		case "--config", "-c":
			v, err := flagValue(args, &i, arg)
			if err != nil {
				return err
			}
			configPath = v
		default:
			return fmt.Errorf("unknown option: %s\nRun 'zline init --help' for usage", arg)
		}
	}

	if showHelp {
		printInitHelp()
		return nil
	}

	if configPath == "" {
		var err error
		configPath, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := config.WriteDefault(configPath, force); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s already exists; use --force to overwrite (a backup is kept)", configPath)
		}
		return err
	}

	fmt.Printf("Wrote default configuration to %s\n", configPath)
	fmt.Println("Run 'zline check' after editing it.")
	return nil
}

func printInitHelp() {
	fmt.Println("Usage: zline init [options]")
	fmt.Println()
	fmt.Println("Write a default configuration file. With --force an existing")
	fmt.Println("file is snapshotted to <name>.bak.<timestamp> before being")
	fmt.Println("replaced; the three most recent snapshots are kept.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -c, --config <path>   Where to write the file")
	fmt.Println("  -f, --force           Overwrite an existing file")
	fmt.Println("  -h, --help            Show this help")
}
