package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/OpenWRLD/mixer/internal"
)

func runValidateModel(args []string) error {
	flags := flag.NewFlagSet("validate-model", flag.ContinueOnError)
	flags.SetOutput(os.Stdout)
	flags.Usage = func() {
		fmt.Println("Usage: mixer-tools validate-model [options]")
		fmt.Println("")
		fmt.Println("Options:")
		flags.PrintDefaults()
	}

	var modelPath string
	flags.StringVar(&modelPath, "model", "", "path to the object-model JSON file (required)")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if modelPath == "" {
		flags.Usage()
		return fmt.Errorf("-model is required")
	}

	model, err := internal.LoadModel(modelPath)
	if err != nil {
		return err
	}

	fmt.Printf("Model %q is valid.\n", model.Name())
	fmt.Printf("  root type:             %s\n", model.Root().Name())
	fmt.Printf("  declared types:        %d\n", len(model.TypeNames()))
	fmt.Printf("  top-level collections: %d\n", len(model.TopLevelCollectionNames()))
	return nil
}
