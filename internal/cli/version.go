package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

// Build information, set at link time via -ldflags.
//
//nolint:gochecknoglobals // Populated by the build, read-only at runtime
var (
	buildVersion = "dev"
	buildCommit  = ""
	buildDate    = ""
)

// CurrentVersion returns the version of this binary.
func CurrentVersion() string {
	if buildVersion == "" {
		return devVersionString
	}
	return buildVersion
}

// versionInfo is the JSON shape of the version command output.
type versionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
	Go      string `json:"go"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

// versionCmd prints version and build information.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	info := versionInfo{
		Version: CurrentVersion(),
		Commit:  buildCommit,
		Date:    buildDate,
		Go:      runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}

	if formatter.IsJSON() {
		return formatter.Print(info)
	}

	w := cmd.OutOrStdout()
	out(w, "xpubkit %s\n", formatVersionTag(info.Version))
	if info.Commit != "" {
		out(w, "  commit: %s\n", info.Commit)
	}
	if info.Date != "" {
		out(w, "  built:  %s\n", info.Date)
	}
	out(w, "  %s %s/%s\n", info.Go, info.OS, info.Arch)
	return nil
}
