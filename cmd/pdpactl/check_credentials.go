package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"containerbase/internal/pdpa"
	"containerbase/internal/platform/logger"
)

// envManifest is the subset of a deployment manifest pdpactl reads.
//
//	env:
//	  SUPABASE_ANON_KEY: anon-xyz
//	  OCR_TIMEOUT_MS: "30000"
type envManifest struct {
	Env map[string]string `yaml:"env"`
}

func (c *cli) newCheckCredentialsCmd() *cobra.Command {
	var (
		envFile string
		fromEnv bool
	)

	cmd := &cobra.Command{
		Use:   "check-credentials",
		Short: "Validate an OCR worker environment against the credential isolation rule",
		Long: `Validate an environment the way the OCR worker does at startup.
Reads the env map of a YAML manifest (--env-file) or the current process
environment (--from-env). Prints the permitted key names on success; secret
values are never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (envFile == "") == !fromEnv {
				return fmt.Errorf("exactly one of --env-file or --from-env is required")
			}

			var env map[string]string
			if fromEnv {
				env = pdpa.EnvironFromOS(os.Environ())
			} else {
				loaded, err := loadManifest(envFile)
				if err != nil {
					return err
				}
				env = loaded
			}

			creds, err := pdpa.ValidateCredentials(env)
			if err != nil {
				logger.LogEvent(cmd.Context(), c.log, logger.Event{
					OpID:    "check-credentials",
					Code:    logger.CodePDPADeny,
					Message: err.Error(),
				})
				return err
			}

			for _, key := range creds.Keys() {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", "", "YAML manifest with a top-level env map")
	cmd.Flags().BoolVar(&fromEnv, "from-env", false, "Validate the current process environment")
	return cmd
}

func loadManifest(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m envManifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.Env == nil {
		m.Env = map[string]string{}
	}
	return m.Env, nil
}
