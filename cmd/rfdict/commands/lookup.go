package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rfdict/pkg/dict"
)

// LookupCommand holds flags and dependencies for the lookup command.
type LookupCommand struct {
	configPath string
	wordlist   string
	sensitive  bool
	translate  bool
	noColor    bool
	defaultVal int64
}

// NewLookupCommand creates the lookup command.
func NewLookupCommand() *cobra.Command {
	lc := &LookupCommand{}

	cmd := &cobra.Command{
		Use:   "lookup [keys...]",
		Short: "Load a word list and look up keys",
		Long: `Load a word list (one key per line, value = line number) and print
the stored value for each queried key.

Examples:
  rfdict lookup -w words.txt apple banana
  cat words.txt | rfdict lookup Apple`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return lc.run(cmd, args)
		},
	}

	cmd.Flags().StringVar(&lc.configPath, "config", "", "path to config file")
	cmd.Flags().StringVarP(&lc.wordlist, "wordlist", "w", stdinPath, "word list file, - for stdin")
	cmd.Flags().BoolVar(&lc.sensitive, "sensitive", false, "compare keys case-sensitively")
	cmd.Flags().BoolVar(&lc.translate, "translate", false, "translate keys to US-ASCII on insert")
	cmd.Flags().BoolVar(&lc.noColor, "no-color", false, "disable colored output")
	cmd.Flags().Int64Var(&lc.defaultVal, "default", -1, "value reported for missing keys")

	return cmd
}

func (lc *LookupCommand) run(cmd *cobra.Command, keys []string) error {
	ctx := cmd.Context()

	application, err := newApp(lc.configPath)
	if err != nil {
		return err
	}
	defer application.close(ctx)

	// Flags the user left untouched fall back to the config file.
	if !cmd.Flags().Changed("sensitive") {
		lc.sensitive = application.cfg.Dict.Sensitive
	}

	if !cmd.Flags().Changed("translate") {
		lc.translate = application.cfg.Dict.Translate
	}

	if !cmd.Flags().Changed("default") {
		lc.defaultVal = application.cfg.Dict.DefaultValue
	}

	if lc.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	ctx, span := application.providers.Tracer.Start(ctx, "lookup")
	defer span.End()

	reader, closeList, err := openWordList(lc.wordlist)
	if err != nil {
		return err
	}
	defer closeList() //nolint:errcheck // read-only file

	d := application.newDict(lc.sensitive)
	defer d.Free()

	result, err := LoadWordList(ctx, d, reader, lc.translate, application.metrics)
	if err != nil {
		return err
	}

	application.providers.Logger.InfoContext(ctx, "word list loaded",
		"keys", result.Inserted,
		"duplicates", result.Duplicates,
		"sensitive", lc.sensitive,
	)

	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s keys (%s duplicates)\n",
		humanize.Comma(int64(result.Inserted)),
		humanize.Comma(int64(result.Duplicates)),
	)

	for _, key := range keys {
		lc.printOne(ctx, cmd.OutOrStdout(), application, d, key)
	}

	return nil
}

func (lc *LookupCommand) printOne(ctx context.Context, out io.Writer, application *app, d *dict.Dict, key string) {
	value, found := d.Lookup(key)
	application.metrics.RecordLookup(ctx, found)

	if found {
		color.New(color.FgGreen).Fprintf(out, "%s = %d\n", key, value)
	} else {
		color.New(color.FgRed).Fprintf(out, "%s = %d (not found)\n", key, lc.defaultVal)
	}
}
