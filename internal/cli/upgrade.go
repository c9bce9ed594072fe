package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	versionpkg "github.com/mrz1836/xpubkit/internal/version"
)

const (
	// devVersionString is the string used for development versions.
	devVersionString = "dev"
	// upgradeOwner is the GitHub repository owner.
	upgradeOwner = "mrz1836"
	// upgradeRepo is the GitHub repository name.
	upgradeRepo = "xpubkit"
)

// ErrDevVersionNoForce is returned when trying to upgrade a dev version
// without --force.
var ErrDevVersionNoForce = errors.New("cannot upgrade development build without --force")

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	upgradeForce bool
	upgradeCheck bool
)

// upgradeCmd upgrades xpubkit via go install.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade xpubkit to the latest version",
	Long: `Upgrade xpubkit to the latest version available on GitHub.

This command checks the latest release, compares it with the installed
version, and runs go install to upgrade.`,
	Example: `  # Check for available updates
  xpubkit upgrade --check

  # Upgrade to latest version
  xpubkit upgrade

  # Force upgrade even from a dev/commit build
  xpubkit upgrade --force`,
	RunE: runUpgrade,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(upgradeCmd)

	upgradeCmd.Flags().BoolVarP(&upgradeForce, "force", "f", false, "force upgrade even from a dev/commit build")
	upgradeCmd.Flags().BoolVar(&upgradeCheck, "check", false, "check for updates without upgrading")
}

func runUpgrade(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	currentVersion := CurrentVersion()

	if versionpkg.IsDevBuild(currentVersion) && !upgradeForce && !upgradeCheck {
		out(w, "Current version appears to be a development build (%s)\n", currentVersion)
		outln(w, "Use --force to upgrade anyway")
		return ErrDevVersionNoForce
	}

	out(w, "Current version: %s\n", formatVersionTag(currentVersion))

	outln(w, "Checking for updates...")
	release, err := versionpkg.GetLatestRelease(cmd.Context(), upgradeOwner, upgradeRepo)
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}

	latestVersion := strings.TrimPrefix(release.TagName, "v")
	out(w, "Latest version: %s\n", formatVersionTag(latestVersion))

	isNewer := versionpkg.IsNewerVersion(currentVersion, latestVersion)

	if upgradeCheck {
		if isNewer {
			out(w, "A newer version is available: %s -> %s\n",
				formatVersionTag(currentVersion), formatVersionTag(latestVersion))
			outln(w, "Run 'xpubkit upgrade' to upgrade")
		} else {
			outln(w, "You are on the latest version")
		}
		return nil
	}

	if !isNewer && !upgradeForce {
		out(w, "You are already on the latest version (%s)\n", formatVersionTag(currentVersion))
		return nil
	}

	installPkg := fmt.Sprintf("github.com/%s/%s/cmd/%s@v%s", upgradeOwner, upgradeRepo, upgradeRepo, latestVersion)
	out(w, "Running: go install %s\n", installPkg)

	execCmd := exec.CommandContext(context.Background(), "go", "install", installPkg) //nolint:gosec // Package path is built from the trusted release tag
	execCmd.Stdout = os.Stdout
	execCmd.Stderr = os.Stderr
	if err := execCmd.Run(); err != nil {
		return fmt.Errorf("go install failed: %w", err)
	}

	out(w, "Successfully upgraded to version %s\n", formatVersionTag(latestVersion))
	return nil
}

// formatVersionTag formats a version string for display.
func formatVersionTag(v string) string {
	if v == devVersionString || v == "" {
		return devVersionString
	}
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
