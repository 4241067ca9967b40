package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/rfdict/pkg/dict"
	"github.com/Sumatoshi-tech/rfdict/pkg/rbtree"
)

// Output formats for the verify command.
const (
	formatTable = "table"
	formatYAML  = "yaml"
)

// ErrUnknownFormat indicates a format flag value outside table|yaml.
var ErrUnknownFormat = errors.New("unknown format, expected table or yaml")

// VerifyCommand holds flags for the verify command.
type VerifyCommand struct {
	configPath string
	wordlist   string
	sensitive  bool
	translate  bool
	hibernate  bool
	every      int
	format     string
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand() *cobra.Command {
	vc := &VerifyCommand{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Load a word list and check tree structure invariants",
		Long: `Load a word list, re-checking the red-black structure as keys are
inserted, then print shape statistics.

Examples:
  rfdict verify -w words.txt
  rfdict verify -w words.txt --every 100 --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return vc.run(cmd)
		},
	}

	cmd.Flags().StringVar(&vc.configPath, "config", "", "path to config file")
	cmd.Flags().StringVarP(&vc.wordlist, "wordlist", "w", stdinPath, "word list file, - for stdin")
	cmd.Flags().BoolVar(&vc.sensitive, "sensitive", false, "compare keys case-sensitively")
	cmd.Flags().BoolVar(&vc.translate, "translate", false, "translate keys to US-ASCII on insert")
	cmd.Flags().BoolVar(&vc.hibernate, "hibernate", false, "report the compressed arena size after loading")
	cmd.Flags().IntVar(&vc.every, "every", 1, "verify after every N insertions")
	cmd.Flags().StringVar(&vc.format, "format", formatTable, "output format: table or yaml")

	return cmd
}

func (vc *VerifyCommand) run(cmd *cobra.Command) error {
	if vc.format != formatTable && vc.format != formatYAML {
		return fmt.Errorf("%w: got %q", ErrUnknownFormat, vc.format)
	}

	if vc.every < 1 {
		vc.every = 1
	}

	ctx := cmd.Context()

	application, err := newApp(vc.configPath)
	if err != nil {
		return err
	}
	defer application.close(ctx)

	if !cmd.Flags().Changed("sensitive") {
		vc.sensitive = application.cfg.Dict.Sensitive
	}

	if !cmd.Flags().Changed("translate") {
		vc.translate = application.cfg.Dict.Translate
	}

	ctx, span := application.providers.Tracer.Start(ctx, "verify")
	defer span.End()

	reader, closeList, err := openWordList(vc.wordlist)
	if err != nil {
		return err
	}
	defer closeList() //nolint:errcheck // read-only file

	d := application.newDict(vc.sensitive)
	defer d.Free()

	result, err := vc.loadChecked(ctx, application, d, reader)
	if err != nil {
		return err
	}

	application.providers.Logger.InfoContext(ctx, "word list verified",
		"keys", result.Inserted,
		"duplicates", result.Duplicates,
	)

	if vc.hibernate {
		hibernateErr := reportHibernation(cmd.OutOrStdout(), d)
		if hibernateErr != nil {
			return hibernateErr
		}
	}

	return renderStats(cmd.OutOrStdout(), vc.format, result, d.Stats())
}

// loadChecked mirrors LoadWordList but re-verifies the tree as it grows.
// Loading stops at the first structural violation.
func (vc *VerifyCommand) loadChecked(
	ctx context.Context,
	application *app,
	d *dict.Dict,
	reader io.Reader,
) (LoadResult, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, scanBufferSize), maxLineSize)

	var result LoadResult

	for scanner.Scan() {
		result.Lines++

		key := trimLine(scanner.Text())
		if key == "" {
			continue
		}

		inserted, err := insertKey(d, key, int64(result.Lines), vc.translate)
		if err != nil {
			return result, fmt.Errorf("line %d: %w", result.Lines, err)
		}

		if inserted {
			result.Inserted++
		} else {
			result.Duplicates++
		}

		application.metrics.RecordInsert(ctx, d.Sensitive(), !inserted)

		if result.Inserted%vc.every == 0 {
			verifyErr := d.Verify()
			if verifyErr != nil {
				return result, fmt.Errorf("after line %d: %w", result.Lines, verifyErr)
			}
		}
	}

	scanErr := scanner.Err()
	if scanErr != nil {
		if errors.Is(scanErr, bufio.ErrTooLong) {
			return result, fmt.Errorf("line %d: %w: line exceeds %d bytes", result.Lines+1, ErrBadKey, maxLineSize)
		}

		return result, fmt.Errorf("read word list: %w", scanErr)
	}

	finalErr := d.Verify()
	if finalErr != nil {
		return result, finalErr
	}

	return result, nil
}

// reportHibernation round-trips the arena through its compressed form and
// prints the compressed footprint. The tree is re-verified after booting.
func reportHibernation(out io.Writer, d *dict.Dict) error {
	allocator := d.Allocator()

	allocator.Hibernate()
	if !allocator.Hibernated() {
		fmt.Fprintln(out, "Hibernation skipped: arena below threshold")

		return nil
	}

	size := allocator.HibernatedSize()

	allocator.Boot()

	err := d.Verify()
	if err != nil {
		return fmt.Errorf("after hibernation round trip: %w", err)
	}

	fmt.Fprintf(out, "Hibernated arena size: %s\n", humanize.IBytes(uint64(size))) //nolint:gosec // size is non-negative

	return nil
}

// renderStats prints the load summary and tree shape in the chosen format.
func renderStats(out io.Writer, format string, result LoadResult, stats rbtree.Stats) error {
	if format == formatYAML {
		report := struct {
			Keys       int          `yaml:"keys"`
			Duplicates int          `yaml:"duplicates"`
			Tree       rbtree.Stats `yaml:"tree"`
		}{
			Keys:       result.Inserted,
			Duplicates: result.Duplicates,
			Tree:       stats,
		}

		encoded, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("encode stats: %w", err)
		}

		_, err = out.Write(encoded)
		if err != nil {
			return fmt.Errorf("write stats: %w", err)
		}

		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(table.Row{"Metric", "Value"})
	tw.AppendRows([]table.Row{
		{"Keys", humanize.Comma(int64(result.Inserted))},
		{"Duplicates", humanize.Comma(int64(result.Duplicates))},
		{"Height", stats.Height},
		{"Black height", stats.BlackHeight},
	})
	tw.Render()

	return nil
}
