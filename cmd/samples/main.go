package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"promptart/internal/app"
	"promptart/internal/infra"
	"promptart/internal/samplecache"
	"promptart/internal/storage"
	"promptart/pkg/zip"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("backend/.env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dir string

	root := &cobra.Command{
		Use:           "samples",
		Short:         "Manage the pre-generated sample images",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dir, "dir", "", "sample image directory (defaults to SAMPLE_IMAGES_DIR)")

	build := func(cmd *cobra.Command) (*app.Services, error) {
		cfg, err := infra.LoadConfig()
		if err != nil {
			return nil, err
		}
		if dir != "" {
			cfg.SampleImagesDir = dir
		}
		logger := infra.NewLogger(cfg.Development(), cfg.LogFile)
		return app.Build(cmd.Context(), cfg, logger)
	}

	root.AddCommand(
		newWarmCmd(build),
		newListCmd(build),
		newPathCmd(build),
		newExportCmd(build),
	)
	return root
}

type buildFunc func(cmd *cobra.Command) (*app.Services, error)

func newWarmCmd(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "warm",
		Short: "Generate every missing sample image",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := build(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			out := cmd.OutOrStdout()
			failed := 0
			for _, rec := range svc.Catalog.List() {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				img, err := svc.Samples.Get(cmd.Context(), rec.ID)
				switch {
				case err != nil:
					failed++
					fmt.Fprintf(out, "%3d  failed  %v\n", rec.ID, err)
				case img == "":
					failed++
					fmt.Fprintf(out, "%3d  failed\n", rec.ID)
				default:
					fmt.Fprintf(out, "%3d  ok      %s\n", rec.ID, rec.Category)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d samples failed", failed, svc.Catalog.Len())
			}
			return nil
		},
	}
}

func newListCmd(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog prompts and whether their sample exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := build(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			out := cmd.OutOrStdout()
			for _, rec := range svc.Catalog.List() {
				status := "missing"
				if svc.Samples.OnDisk(rec.ID) {
					status = "cached"
				}
				fmt.Fprintf(out, "%3d  %-8s %-12s %s\n", rec.ID, status, rec.Category, rec.Text)
			}
			return nil
		},
	}
}

func newPathCmd(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "path <id>",
		Short: "Print the file path of a sample image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid prompt id %q", args[0])
			}
			svc, err := build(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			p, err := svc.Samples.Path(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func newExportCmd(build buildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.zip>",
		Short: "Bundle every cached sample into a zip archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := build(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			var files []zip.File
			for _, rec := range svc.Catalog.List() {
				key := samplecache.Key(rec.ID)
				data, err := svc.Store.Read(cmd.Context(), key)
				if errors.Is(err, storage.ErrNotExist) {
					continue
				}
				if err != nil {
					return err
				}
				files = append(files, zip.File{Name: key, Data: data})
			}
			if len(files) == 0 {
				return errors.New("no cached samples to export, run `samples warm` first")
			}

			var buf bytes.Buffer
			if err := zip.Write(&buf, files); err != nil {
				return err
			}
			if err := atomic.WriteFile(args[0], &buf); err != nil {
				return fmt.Errorf("write %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d samples to %s\n", len(files), args[0])
			return nil
		},
	}
}
