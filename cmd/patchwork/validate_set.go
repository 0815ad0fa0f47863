package main

import (
	"fmt"
	"os"

	"github.com/kingrea/patchwork/plugins"
)

func handleValidateSetCommand() bool {
	if len(os.Args) < 2 || os.Args[1] != "validate-set" {
		return false
	}
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "Usage: patchwork validate-set /path/to/set.yaml")
		os.Exit(2)
	}
	file, err := plugins.LoadDefinitionFile(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}
	set, err := file.Definition.Build()
	if err != nil {
		fmt.Printf("Invalid: %s (%s)\n", file.Path, file.Definition.ID)
		fmt.Printf("- %v\n", err)
		os.Exit(1)
	}
	area := 0
	for _, p := range set.Patches {
		area += p.Area()
	}
	fmt.Printf("OK: %s (%s, %d patches, %d squares)\n", file.Path, set.ID, len(set.Patches), area)
	return true
}
