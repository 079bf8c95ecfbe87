package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/example/annotator/internal/categories"
	"github.com/example/annotator/internal/render"
)

type categoriesCmd struct {
	name string
	out  io.Writer
	*root
	fs *flag.FlagSet
}

func (c *categoriesCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseCategoriesCmd(args []string, r *root) (*categoriesCmd, error) {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	c := &categoriesCmd{root: r.subcommand("categories"), fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		return nil, &UsageError{of: c}
	}
	c.name = fs.Arg(0)
	return c, nil
}

func (c *categoriesCmd) Run() error {
	loader := categories.NewLoader()
	if c.name == "" {
		for _, n := range loader.Names() {
			fmt.Fprintln(c.out, n)
		}
		return nil
	}
	tbl, err := loader.Load(c.name)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s (%s)\n", tbl.Title, tbl.Name)
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for i, cat := range tbl.Categories() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, cat.Key, cat.Name, render.Hex(cat.Color), cat.Description)
	}
	return tw.Flush()
}
