package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lottie2video/internal/encoding"
	"lottie2video/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, the lottie-web script and directory access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var format encoding.Format
			if strings.TrimSpace(formatFlag) != "" {
				if format, err = encoding.ParseFormat(formatFlag); err != nil {
					return err
				}
			}

			report := newStatusReport(cmd.OutOrStdout())
			report.section("Dependencies")
			for _, status := range preflight.CheckSystemDeps(cfg, format) {
				report.dependency(status)
			}
			report.section("Directories")
			for _, result := range preflight.RunAll(cfg) {
				report.check(result)
			}
			report.section("Settings")
			report.line("Keep frames", statusInfo, yesNo(cfg.Batch.KeepFrames))
			if ctx.configPath != "" {
				report.line("Config", statusInfo, ctx.configPath)
			}

			if report.failures > 0 {
				return fmt.Errorf("doctor found %d problem(s)", report.failures)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&formatFlag, "format", "", "Only require the tools this output format needs ("+encoding.FormatNames()+")")
	return cmd
}
