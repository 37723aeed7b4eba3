package main

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/spf13/cobra"
)

// Build stamps set with -ldflags "-X main.version=...". They win over
// what the toolchain records.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildInfo describes the running binary.
type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
}

// shortRevision is the length commits are printed with.
const shortRevision = 7

// newBuildInfo merges the ldflags stamps over the toolchain's record.
// info may be nil when the binary carries no build information.
func newBuildInfo(info *debug.BuildInfo, stampVersion, stampCommit, stampDate string) buildInfo {
	b := buildInfo{Version: "(devel)", Commit: "unknown", Date: "unknown"}
	if info != nil {
		b.GoVersion = info.GoVersion
		if info.Main.Version != "" {
			b.Version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				b.Commit = s.Value
			case "vcs.time":
				b.Date = s.Value
			case "vcs.modified":
				b.Modified = s.Value == "true"
			}
		}
	}
	if len(b.Commit) > shortRevision {
		b.Commit = b.Commit[:shortRevision]
	}

	if stampVersion != "" {
		b.Version = stampVersion
	}
	if stampCommit != "" {
		b.Commit = stampCommit
	}
	if stampDate != "" {
		b.Date = stampDate
	}
	return b
}

var currentBuild = sync.OnceValue(func() buildInfo {
	info, _ := debug.ReadBuildInfo()
	return newBuildInfo(info, version, commit, date)
})

func getVersion() string { return currentBuild().Version }

// String is the text printed by the version command.
func (b buildInfo) String() string {
	rev := b.Commit
	if b.Modified {
		rev += " (modified)"
	}
	s := fmt.Sprintf("stopverifage version %s\n  commit: %s\n  built:  %s\n", b.Version, rev, b.Date)
	if b.GoVersion != "" {
		s += fmt.Sprintf("  go:     %s\n", b.GoVersion)
	}
	return s
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, build date and Go version of stopverifage.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(currentBuild())
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), currentBuild())
			return err
		},
	}
	cmd.Flags().BoolP("json", "j", false, "Output JSON")
	return cmd
}
