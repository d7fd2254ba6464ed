// Copyright (C) crane-migration-wizard contributors.
// SPDX-License-Identifier: MIT

// Command crane-wizard walks through setting up a cluster-to-cluster
// migration: source credentials, namespace, persistent-volume-claim
// selection, pipeline naming and a review of the generated Tekton
// manifests.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/JaydipGabani/crane-migration-wizard/internal/clierr"
	"github.com/JaydipGabani/crane-migration-wizard/internal/sessionlog"
	"github.com/JaydipGabani/crane-migration-wizard/pkg/cluster"
)

var (
	// BuildTag is set during build
	BuildTag = "dev"
	// BuildDate is set during build
	BuildDate = "unknown"
)

// hostNamespaceFlag overrides the host namespace pipelines are created in.
var hostNamespaceFlag string

var rootCmd = &cobra.Command{
	Use:   "crane-wizard",
	Short: "Set up a cluster-to-cluster migration",
	Long: `crane-wizard - set up a cluster-to-cluster migration

crane-wizard connects to a source cluster with typed-in credentials,
inspects a source namespace, and assembles the Tekton pipelines that
migrate it into the current cluster:

  - Enter the source API URL, token and namespace
  - Pick persistent-volume claims to move, with per-claim target
    name, storage class and capacity overrides
  - Name the migration pipelines
  - Review (and save) the generated Pipeline/PipelineRun manifests

The current kubeconfig context is the migration target.

Environment Variables:
  KUBECONFIG              Path to kubeconfig file (default: ~/.kube/config)
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWizard()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, clierr.Pretty(err))
		os.Exit(1)
	}
}

func runWizard() error {
	log, err := sessionlog.New("wizard", "")
	if err != nil {
		return err
	}
	defer func() {
		if path := log.Close(); path != "" {
			fmt.Printf("Session log: %s\n", path)
		}
	}()

	host, hostNamespace, err := cluster.ConnectFromKubeconfig()
	if err != nil {
		return clierr.WrapWithHint(err, "crane-wizard needs a reachable target cluster in your kubeconfig")
	}
	if hostNamespaceFlag != "" {
		hostNamespace = hostNamespaceFlag
	}
	log.WithField("namespace", hostNamespace).Info("connected to host cluster")

	m := NewWizardModel(host, hostNamespace, log)
	program := tea.NewProgram(m, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("run wizard: %w", err)
	}

	if fm, ok := final.(WizardModel); ok && fm.savedDir != "" {
		fmt.Printf("Manifests written to %s\n", fm.savedDir)
	}
	return nil
}

func init() {
	rootCmd.Flags().StringVarP(&hostNamespaceFlag, "namespace", "n", "",
		"host namespace to create pipelines in (default: kubeconfig context namespace)")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("crane-wizard version %s (built %s)\n", BuildTag, BuildDate)
		},
	})

	// Add completion command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for crane-wizard.

Bash:
  $ source <(crane-wizard completion bash)

Zsh:
  $ crane-wizard completion zsh > "${fpath[1]}/_crane-wizard"

Fish:
  $ crane-wizard completion fish | source

PowerShell:
  PS> crane-wizard completion powershell | Out-String | Invoke-Expression
`,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	})
}
