package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/genui-dev/genui/pkg/manifest"
	"github.com/genui-dev/genui/pkg/registry"
	"github.com/genui-dev/genui/pkg/renderer"
	"github.com/genui-dev/genui/pkg/widget"
	"github.com/genui-dev/genui/pkg/widgets"
)

func renderCmd() *cobra.Command {
	var (
		manifestRef   string
		maxComponents int
		verbose       bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a manifest once and print the result",
		Long: `Render loads a manifest from a file, an http(s) URL, or an
s3://bucket/key reference, renders it with the built-in widgets on a
headless host, and prints the rendered output and pass statistics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			src, err := sourceFor(ctx, manifestRef)
			if err != nil {
				return err
			}
			m, err := src.Load(ctx)
			if err != nil {
				return err
			}

			reg := registry.New(registry.WithLogger(logger))
			if err := widgets.RegisterBuiltins(reg); err != nil {
				return err
			}

			host := widget.NewHeadlessHost()
			r := renderer.New(reg, host,
				renderer.WithLogger(logger),
				renderer.WithMaxComponents(maxComponents),
				renderer.WithRenderComplete(func(s renderer.Stats) {
					fmt.Printf("rendered %d components in %s (%d fallbacks)\n",
						s.TotalComponents, s.RenderTime, s.FallbacksUsed)
				}),
			)
			defer r.Close()

			if err := r.RenderAll(ctx, m); err != nil {
				return err
			}

			for _, inst := range host.Instances() {
				type rendered interface{ Rendered() string }
				if rw, ok := inst.(rendered); ok {
					fmt.Println("---")
					fmt.Print(rw.Rendered())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestRef, "manifest", "m", "", "manifest file path, URL, or s3://bucket/key (required)")
	cmd.Flags().IntVar(&maxComponents, "max", renderer.DefaultMaxComponents, "maximum entries rendered per pass")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.MarkFlagRequired("manifest")
	return cmd
}

// sourceFor picks the manifest source for a reference string.
func sourceFor(ctx context.Context, ref string) (manifest.Source, error) {
	switch {
	case strings.HasPrefix(ref, "s3://"):
		bucket, key, ok := strings.Cut(strings.TrimPrefix(ref, "s3://"), "/")
		if !ok || bucket == "" || key == "" {
			return nil, fmt.Errorf("invalid s3 reference %q, want s3://bucket/key", ref)
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return &manifest.S3Source{Client: s3.NewFromConfig(cfg), Bucket: bucket, Key: key}, nil
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return &manifest.HTTPSource{URL: ref}, nil
	default:
		return &manifest.FileSource{Path: ref}, nil
	}
}
