package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
)

type anomaliesCmd struct {
	set   string
	limit int
	out   io.Writer
	*root
	fs *flag.FlagSet
}

func (a *anomaliesCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func parseAnomaliesCmd(args []string, r *root) (*anomaliesCmd, error) {
	fs := flag.NewFlagSet("anomalies", flag.ExitOnError)
	a := &anomaliesCmd{root: r.subcommand("anomalies"), fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(a)
	fs.StringVar(&a.set, "set", "", "only list anomalies in this set")
	fs.IntVar(&a.limit, "limit", 20, "maximum number of rows")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if a.limit <= 0 {
		return nil, fmt.Errorf("-limit must be positive, got %d", a.limit)
	}
	return a, nil
}

func (a *anomaliesCmd) Run() error {
	c, err := a.root.client()
	if err != nil {
		return err
	}
	rows, err := c.Anomalies(context.Background(), a.set, a.limit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tSET\tIMAGE")
	for _, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", row.ID, row.AnomalyType, row.AnomalySet, row.AvatarURL)
	}
	return tw.Flush()
}
