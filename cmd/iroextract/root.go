// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/woozymasta/iro"
	"github.com/woozymasta/iro/internal/config"
	"github.com/woozymasta/iro/internal/logging"
	"github.com/woozymasta/iro/modinfo"
)

// newRootCmd builds the iroextract command with its own viper instance
func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "iroextract [flags] INPUT",
		Short:         "Extract IRO mod archives",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile, cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := &config.Config{}
			if err := v.Unmarshal(cfg); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			cfg.InputFile = args[0]

			return run(cmd, cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")

	// i/o
	cmd.Flags().StringP("output", "o", ".", "directory to extract entries into")
	cmd.Flags().String("backend", string(iro.BackendBuffered), "archive I/O backend (buffered, mmap)")
	cmd.Flags().IntP("workers", "w", 1, "parallel extraction workers (1 keeps catalog order)")
	cmd.Flags().StringSlice("include", nil, "extract only entries matching these patterns")
	cmd.Flags().StringSlice("exclude", nil, "skip entries matching these patterns")
	cmd.Flags().Bool("raw-names", false, "keep entry names exactly as stored")
	cmd.Flags().Bool("sanitize", false, "rewrite unsafe entry names to filesystem-safe paths instead of failing")
	cmd.Flags().String("mod-info", "", "path to mod.xml descriptor to report before extraction")

	// listing
	cmd.Flags().BoolP("list", "l", false, "list entries instead of extracting")
	cmd.Flags().String("format", config.FormatText, "list output format (text, json, yaml)")

	// other opts
	cmd.Flags().String("log-level", "info", "log level (trace, debug, info, warn, error, fatal)")
	cmd.Flags().String("log-output-dir", "", "directory to write log files (if set, logs are written to both stderr and file)")

	_ = v.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = v.BindPFlag("backend", cmd.Flags().Lookup("backend"))
	_ = v.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	_ = v.BindPFlag("include", cmd.Flags().Lookup("include"))
	_ = v.BindPFlag("exclude", cmd.Flags().Lookup("exclude"))
	_ = v.BindPFlag("raw_names", cmd.Flags().Lookup("raw-names"))
	_ = v.BindPFlag("sanitize", cmd.Flags().Lookup("sanitize"))
	_ = v.BindPFlag("mod_info", cmd.Flags().Lookup("mod-info"))
	_ = v.BindPFlag("list", cmd.Flags().Lookup("list"))
	_ = v.BindPFlag("format", cmd.Flags().Lookup("format"))
	_ = v.BindPFlag("log_level", cmd.Flags().Lookup("log-level"))
	_ = v.BindPFlag("log_output_dir", cmd.Flags().Lookup("log-output-dir"))

	return cmd
}

// initConfig reads in config file and environment variables if set
func initConfig(v *viper.Viper, cfgFile string, stderr io.Writer) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "iroextract"))
		}
		v.AddConfigPath("/etc/iroextract")
		v.SetConfigName("config")
		v.SetConfigType("toml")
	}

	v.SetEnvPrefix("IROEXTRACT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound && cfgFile == "" {
			return nil
		}

		return fmt.Errorf("read config: %w", err)
	}

	fmt.Fprintf(stderr, "Using config file: %s\n", v.ConfigFileUsed())
	return nil
}

// run opens the archive and either lists or extracts it
func run(cmd *cobra.Command, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	closeLog, err := logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogOutputDir)
	if err != nil {
		return fmt.Errorf("could not set up logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	if cfg.ModInfo != "" {
		info, err := modinfo.Open(cfg.ModInfo)
		if err != nil {
			return err
		}

		slog.Info("mod descriptor",
			"name", info.Name,
			"id", info.ID,
			"version", info.Version,
			"author", info.Author,
			"folders", len(info.ModFolders),
			"options", len(info.ConfigOptions),
		)
	}

	archive, err := iro.OpenWithOptions(cfg.InputFile, cfg.ReaderOptions())
	if err != nil {
		return err
	}
	defer func() { _ = archive.Close() }()

	slog.Info("opened archive",
		"input", cfg.InputFile,
		"version", archive.Version().String(),
		"entries", archive.Len(),
		"backend", string(archive.Backend()),
	)

	if cfg.List {
		return listEntries(cmd.OutOrStdout(), archive.Entries(), cfg.Format)
	}

	opts := cfg.ExtractOptions()
	var extracted atomic.Int64
	opts.OnEntryDone = func(index int, entry iro.Entry, written int64, outputPath string) {
		extracted.Add(1)
		slog.Debug("extracted entry",
			"index", index,
			"name", entry.Name,
			"compression", entry.Compression.String(),
			"written", written,
			"path", outputPath,
		)
	}

	if err := archive.ExtractAll(cmd.Context(), cfg.OutputDir, opts); err != nil {
		slog.Error("extraction failed", "input", cfg.InputFile, "extracted", extracted.Load(), "error", err)
		return err
	}

	slog.Info("extraction complete", "output", cfg.OutputDir, "extracted", extracted.Load())
	return nil
}

// listEntries prints the catalog in the requested format
func listEntries(w io.Writer, entries []iro.Entry, format string) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "INDEX\tCOMPRESSION\tOFFSET\tLENGTH\tNAME")
		for i, e := range entries {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", i, e.Compression, e.Offset, e.Length, iro.DisplayName(e.Name))
		}
		return tw.Flush()
	}
}
