package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/xpubkit/internal/discovery"
	xpuberr "github.com/mrz1836/xpubkit/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// scanUsedFile is a file listing known-used addresses, one per line.
	scanUsedFile string
	// scanGapLimit overrides the configured gap limit.
	scanGapLimit int
	// scanNoChange skips the change branch.
	scanNoChange bool
)

// scanCmd runs gap-limit discovery against a local list of used addresses.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var scanCmd = &cobra.Command{
	Use:   "scan <extended-key>",
	Short: "Find used addresses with a gap-limit scan",
	Long: `Scan an extended public key's receive and change branches for used
addresses, stopping after the gap limit of consecutive unused addresses.

Activity is answered from a local file of known-used addresses (one per
line, comments with '#'), typically an export from a block explorer or
indexer. No network requests are made.

Examples:
  xpubkit scan zpub6r... --used-file used.txt
  xpubkit scan xpub661... --used-file used.txt --gap 50 --no-change`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanUsedFile, "used-file", "", "file of known-used addresses, one per line (required)")
	scanCmd.Flags().IntVar(&scanGapLimit, "gap", 0, "gap limit (default from config)")
	scanCmd.Flags().BoolVar(&scanNoChange, "no-change", false, "skip the change branch")
	_ = scanCmd.MarkFlagRequired("used-file")
}

func runScan(cmd *cobra.Command, args []string) error {
	key := args[0]
	logKeyUse("scan", key)

	source, err := loadUsedFile(scanUsedFile)
	if err != nil {
		return err
	}

	session, err := newSessionFromFlags(key)
	if err != nil {
		return err
	}

	opts := discovery.DefaultOptions()
	opts.GapLimit = cfg.GetGapLimit()
	if scanGapLimit > 0 {
		opts.GapLimit = scanGapLimit
	}
	if cfg.Discovery.BatchSize > 0 {
		opts.BatchSize = cfg.Discovery.BatchSize
	}
	opts.IncludeChange = cfg.Discovery.IncludeChange && !scanNoChange
	if cfg.IsVerbose() {
		opts.ProgressCallback = func(update discovery.ProgressUpdate) {
			logger.Debug("scan branch=%d scanned=%d used=%d", update.Branch, update.AddressesScanned, update.UsedFound)
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), discovery.DefaultTimeout)
	defer cancel()

	scanner := discovery.NewScanner(session, source, opts)
	result, err := scanner.Scan(ctx)
	if err != nil {
		return err
	}

	if formatter.IsJSON() {
		return formatter.Print(result)
	}

	w := cmd.OutOrStdout()
	out(w, "Scanned %d addresses in %s\n", result.AddressesScanned, result.Duration.Round(time.Millisecond))
	if !result.HasActivity() {
		outln(w, "No used addresses found within the gap limit")
		return nil
	}
	for _, branch := range []uint32{0, 1} {
		br, ok := result.Branches[branch]
		if !ok || len(br.Used) == 0 {
			continue
		}
		name := "receive"
		if branch == 1 {
			name = "change"
		}
		out(w, "\n%s branch (%d used, next unused index %d):\n", name, len(br.Used), br.NextUnused)
		for _, used := range br.Used {
			out(w, "  %s  %s\n", used.Path, used.Address)
		}
	}
	for _, msg := range result.Errors {
		out(w, "\nwarning: %s\n", msg)
	}
	return nil
}

// fileActivitySource answers activity checks from an in-memory address set.
type fileActivitySource struct {
	used map[string]bool
}

// HasActivity implements discovery.ActivitySource.
func (s *fileActivitySource) HasActivity(_ context.Context, addresses []string) ([]bool, error) {
	results := make([]bool, len(addresses))
	for i, addr := range addresses {
		results[i] = s.used[addr]
	}
	return results, nil
}

// loadUsedFile reads a used-address list: one address per line, blank lines
// and '#' comments ignored.
func loadUsedFile(path string) (*fileActivitySource, error) {
	// #nosec G304 -- path comes from an explicit user flag
	f, err := os.Open(path)
	if err != nil {
		return nil, xpuberr.WithSuggestion(
			xpuberr.Wrap(xpuberr.ErrActivitySource, fmt.Sprintf("opening %s", path)),
			"export used addresses from your indexer, one per line",
		)
	}
	defer func() { _ = f.Close() }()

	used := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		used[line] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, xpuberr.Wrap(xpuberr.ErrActivitySource, fmt.Sprintf("reading %s", path))
	}

	return &fileActivitySource{used: used}, nil
}
