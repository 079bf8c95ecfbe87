package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/annotator/internal/config"
)

type configCmd struct {
	*root
	fs *flag.FlagSet
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{root: r.subcommand("config"), fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) < 1 {
		return &UsageError{of: c}
	}

	switch args[0] {
	case "print":
		fmt.Print(c.root.config.String())
		return nil
	case "save":
		return c.runSave(args[1:])
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

func (c *configCmd) runSave(args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		path = config.NewLoader(version, configPathOverride).GetConfigPath()
	}
	if path == "" {
		path = config.DefaultPath()
	}
	if err := config.Save(c.root.config, path); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Configuration saved to %s\n", path)
	return nil
}
