package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/karyoview/pkg/genome"
	"github.com/matzehuels/karyoview/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for karyoview.

Besides commands and flags, completions cover chromosome names for 'bands',
genome builds for --build and output formats for --format.

Bash:
  $ source <(karyoview completion bash)

Zsh:
  $ karyoview completion zsh > "${fpath[1]}/_karyoview"

Fish:
  $ karyoview completion fish > ~/.config/fish/completions/karyoview.fish

PowerShell:
  PS> karyoview completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// registerCompletions attaches value completions to the commands and flags
// of root.
func registerCompletions(root *cobra.Command) {
	_ = root.RegisterFlagCompletionFunc("build", completeBuilds)

	for _, sub := range root.Commands() {
		switch sub.Name() {
		case "bands":
			sub.ValidArgsFunction = completeChromosomes
		case "render":
			_ = sub.RegisterFlagCompletionFunc("format", completeFormats)
		}
	}
}

func completeBuilds(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{
		genome.Build37 + "\tGRCh37 / hg19",
		genome.Build38 + "\tGRCh38 / hg38",
	}, cobra.ShellCompDirectiveNoFileComp
}

func completeChromosomes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	out := make([]string, 0, len(genome.ReferenceOrder))
	for _, c := range genome.ReferenceOrder {
		if strings.HasPrefix(strings.ToLower(string(c)), strings.ToLower(toComplete)) {
			out = append(out, string(c))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completeFormats completes the last element of a comma-separated list.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	done, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done, last = toComplete[:i+1], toComplete[i+1:]
	}
	taken := make(map[string]bool)
	for _, f := range strings.Split(done, ",") {
		taken[strings.TrimSpace(f)] = true
	}

	var out []string
	for _, f := range pipeline.Formats {
		if !taken[f] && strings.HasPrefix(f, last) {
			out = append(out, done+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
