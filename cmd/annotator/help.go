package main

import (
	"embed"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var helpFS embed.FS

var helpPages = sync.OnceValue(func() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{"flags": flagRows}).ParseFS(helpFS, "templates/*.txt"))
})

// flagRow is one line of a command's flag listing.
type flagRow struct {
	Name     string
	DefValue string
	Usage    string
}

func flagRows(fs *flag.FlagSet) []flagRow {
	rows := []flagRow{}
	if fs != nil {
		fs.VisitAll(func(f *flag.Flag) {
			rows = append(rows, flagRow{f.Name, f.DefValue, f.Usage})
		})
	}
	return rows
}

// HelpData is what a help page renders from.
type HelpData interface {
	Program() string
	FlagSet() *flag.FlagSet
}

// helpPage names the template documenting h.
func helpPage(h HelpData) string {
	switch h.(type) {
	case *annotateCmd:
		return "annotate.txt"
	case *drawCmd:
		return "draw.txt"
	case *categoriesCmd:
		return "categories.txt"
	case *anomaliesCmd:
		return "anomalies.txt"
	case *configCmd:
		return "config.txt"
	case *versionCmd:
		return "version.txt"
	}
	return "root.txt"
}

func writeHelp(w io.Writer, h HelpData) error {
	if err := helpPages().ExecuteTemplate(w, helpPage(h), h); err != nil {
		return fmt.Errorf("render help %s: %w", helpPage(h), err)
	}
	return nil
}

// UsageError reports bad command-line usage. Its message is the help page of
// the command that rejected the arguments.
type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	var b strings.Builder
	if err := writeHelp(&b, e.of); err != nil {
		return err.Error()
	}
	return b.String()
}

// usageFunc prints the help page for h; it is installed as flag.Usage.
func usageFunc(h HelpData) func() {
	return func() {
		if err := writeHelp(os.Stderr, h); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
