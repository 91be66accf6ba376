package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/quake-map/internal/adapter/usgs"
	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/couchcryptid/quake-map/internal/pipeline"
	"github.com/spf13/cobra"
)

type styleOptions struct {
	feedURL string
	file    string
	timeout time.Duration
	asJSON  bool
}

func newStyleCmd() *cobra.Command {
	opts := styleOptions{}

	cmd := &cobra.Command{
		Use:   "style",
		Short: "Style every earthquake in a GeoJSON feed",
		Long: `Fetch a USGS GeoJSON summary feed (or read a saved copy with --file) and
print each earthquake's fill color, radius, and depth band.

Features without a magnitude or without [lon, lat, depth] coordinates are
skipped and reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("feed") && opts.file != "" {
				return errors.New("--feed and --file are mutually exclusive")
			}
			return runStyle(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.feedURL, "feed", config.DefaultFeedURL, "GeoJSON feed URL")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read a saved GeoJSON feed instead of fetching")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "feed request timeout")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print styled markers as JSON")
	return cmd
}

// fileExtractor reads features from a saved feed document.
type fileExtractor struct {
	path string
}

func (f fileExtractor) Extract(_ context.Context) ([]domain.RawFeature, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open feed file: %w", err)
	}
	defer fh.Close()

	fc, err := usgs.ReadFeatureCollection(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	return fc.Features, nil
}

// countingExtractor remembers how many features the last Extract returned.
type countingExtractor struct {
	pipeline.Extractor
	fetched int
}

func (c *countingExtractor) Extract(ctx context.Context) ([]domain.RawFeature, error) {
	raws, err := c.Extractor.Extract(ctx)
	c.fetched = len(raws)
	return raws, err
}

// collector keeps the styled batch for printing.
type collector struct {
	markers []domain.Marker
}

func (c *collector) LoadBatch(_ context.Context, markers []domain.Marker) error {
	c.markers = markers
	return nil
}

func runStyle(ctx context.Context, out io.Writer, opts styleOptions) error {
	logger := loggerFromContext(ctx)
	slogger := slogFromContext(ctx)
	// Metrics are collected but never exported from the CLI.
	metrics := observability.NewMetricsForTesting()

	src := &countingExtractor{Extractor: fileExtractor{path: opts.file}}
	if opts.file == "" {
		src.Extractor = usgs.NewClient(opts.feedURL, "", opts.timeout, metrics, slogger)
	}

	sink := &collector{}
	p := pipeline.New(src, pipeline.NewTransformer(nil, slogger), sink, slogger, metrics)
	if err := p.Refresh(ctx); err != nil {
		return err
	}
	markers := sink.markers

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(markers); err != nil {
			return err
		}
	} else {
		printMarkerTable(out, markers)
	}

	logger.Info(fmt.Sprintf("Styled %d features", len(markers)), "rejected", src.fetched-len(markers))
	return nil
}

func printMarkerTable(out io.Writer, markers []domain.Marker) {
	fmt.Fprintf(out, "   %s %s %s %s %s\n",
		styleHeader.Render(pad("ID", 14)),
		styleHeader.Render(pad("MAG", 5)),
		styleHeader.Render(pad("DEPTH", 7)),
		styleHeader.Render(pad("RADIUS", 7)),
		styleHeader.Render("PLACE"),
	)
	for _, m := range markers {
		radius := strconv.FormatFloat(m.Style.Radius, 'f', -1, 64)
		if domain.NonPositiveRadius(domain.StyleResult{Radius: m.Style.Radius}) {
			radius = styleWarn.Render(radius)
		}
		fmt.Fprintf(out, "%s %s %s %s %s %s\n",
			swatch(m.Style.FillColor),
			pad(m.Quake.ID, 14),
			pad(strconv.FormatFloat(m.Quake.Magnitude, 'f', -1, 64), 5),
			pad(strconv.FormatFloat(m.Quake.Depth, 'f', -1, 64), 7),
			pad(radius, 7),
			m.Quake.Place,
		)
	}
}
