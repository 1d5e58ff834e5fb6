package main

import (
	"fmt"

	"github.com/ZebulonRouseFrantzich/zline/internal/field"
)

// runFields handles the `zline fields` subcommand
func runFields(args []string) error {
	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			printFieldsHelp()
			return nil
		default:
			return fmt.Errorf("unknown option: %s\nRun 'zline fields --help' for usage", arg)
		}
	}

	fmt.Println("Built-in fields:")
	fmt.Println()
	for _, name := range field.Order {
		mark := "✓"
		if !field.Available(name) {
			mark = "✗"
		}
		fmt.Printf("  %s %-12s %s\n", mark, name, field.Doc(name))
	}
	fmt.Println()
	fmt.Println("✓ available on this machine, ✗ not available")
	fmt.Println("Custom fields are defined in the config with a command or constant.")
	return nil
}

func printFieldsHelp() {
	fmt.Println("Usage: zline fields")
	fmt.Println()
	fmt.Println("List the built-in fields and whether each one can run on this")
	fmt.Println("machine (battery and temperature fields need hardware support).")
}
