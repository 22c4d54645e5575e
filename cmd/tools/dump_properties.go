package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/OpenWRLD/mixer"
	"github.com/OpenWRLD/mixer/internal"
)

func runDumpProperties(args []string) error {
	flags := flag.NewFlagSet("dump-properties", flag.ContinueOnError)
	flags.SetOutput(os.Stdout)
	flags.Usage = func() {
		fmt.Println("Usage: mixer-tools dump-properties [options]")
		fmt.Println("")
		fmt.Println("Options:")
		flags.PrintDefaults()
	}

	var modelPath, mode, typeName string
	flags.StringVar(&modelPath, "model", "", "path to the object-model JSON file (required)")
	flags.StringVar(&mode, "mode", "test", "filter configuration, test or safe")
	flags.StringVar(&typeName, "type", "", "dump a single type instead of all types")

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

	var props *mixer.SynchronizedProperties
	switch mode {
	case "test":
		props = mixer.TestProperties(model)
	case "safe":
		props = mixer.SafeProperties(model)
	default:
		return fmt.Errorf("unknown mode %q, want test or safe", mode)
	}

	typeNames := model.TypeNames()
	if typeName != "" {
		if _, ok := model.TypeByName(typeName); !ok {
			return fmt.Errorf("type %q is not declared by the model", typeName)
		}
		typeNames = []string{typeName}
	}

	for _, name := range typeNames {
		t, _ := model.TypeByName(name)
		resolved, err := props.PropertiesOf(t)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%d):\n", name, resolved.Len())
		if resolved.Len() > 0 {
			fmt.Printf("  %s\n", strings.Join(resolved.Names(), " "))
		}
	}

	if unhandled := props.UnhandledCollectionNames(); len(unhandled) > 0 {
		fmt.Printf("unhandled collections: %s\n", strings.Join(unhandled, " "))
	}
	return nil
}
