package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"geosleuth/config"
	"geosleuth/exif"
	"geosleuth/geocode"
	"geosleuth/httputils"
	"geosleuth/nlp"
	"geosleuth/types"
)

// agents holds the three backends shared by the server and the one-shot commands.
type agents struct {
	ner      nlp.Extractor
	exif     *exif.Extractor
	geocoder geocode.Geocoder
	// probe bypasses the cache so health checks reach the provider
	probe geocode.Geocoder

	closers []io.Closer
}

func buildAgents(ctx context.Context, cfg *config.Config) (*agents, error) {
	var debug io.Writer
	if cfg.HTTPDebug {
		debug = os.Stderr
	}

	ner, err := nlp.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing NER: %w", err)
	}
	a := &agents{ner: ner}
	if c, ok := ner.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	imageClient := httputils.NewClient(httputils.Options{
		Timeout:   cfg.ImageFetchTimeout,
		UserAgent: cfg.NominatimUserAgent,
		Debug:     debug,
	})
	a.exif = exif.NewExtractor(imageClient, cfg.ImageMaxBytes)

	geoClient := httputils.NewClient(httputils.Options{
		Timeout:   cfg.GeocodeTimeout,
		UserAgent: cfg.NominatimUserAgent,
		Debug:     debug,
	})
	a.geocoder, err = geocode.New(cfg, geoClient)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("initializing geocoder: %w", err)
	}
	a.probe = a.geocoder
	if c, ok := a.geocoder.(*geocode.Cached); ok {
		a.probe = c.Unwrap()
	}

	return a, nil
}

func (a *agents) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// runAgent builds the agents, calls fn and prints its result as JSON.
func runAgent(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, a *agents) (any, error)) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := buildAgents(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("closing agents", slog.Any("error", err))
		}
	}()

	out, err := fn(ctx, cfg, a)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

var nerCmd = &cobra.Command{
	Use:   "ner <text>",
	Short: "Print the locations mentioned in a text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgent(cmd, func(ctx context.Context, _ *config.Config, a *agents) (any, error) {
			locations, err := a.ner.ExtractLocations(ctx, args[0])
			if err != nil {
				return nil, err
			}
			return types.NERResponse{Locations: locations}, nil
		})
	},
}

var exifCmd = &cobra.Command{
	Use:   "exif <image-url>",
	Short: "Print the GPS position stored in an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgent(cmd, func(ctx context.Context, _ *config.Config, a *agents) (any, error) {
			gps, err := a.exif.ExtractGPS(ctx, args[0])
			if errors.Is(err, exif.ErrInvalidDMS) {
				return types.ExifResponse{Error: "Failed to parse DMS GPS data"}, nil
			}
			if err != nil {
				return nil, err
			}
			return types.ExifResponse{GPS: gps}, nil
		})
	},
}

var gisLimit int

var gisCmd = &cobra.Command{
	Use:   "gis <location-name>",
	Short: "Print candidate coordinates for a place name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAgent(cmd, func(ctx context.Context, cfg *config.Config, a *agents) (any, error) {
			limit := cfg.GeocodeLimit
			if gisLimit > 0 {
				limit = gisLimit
			}
			results, err := geocode.Lookup(ctx, a.geocoder, args[0], limit)
			if err != nil {
				return nil, err
			}
			return types.GISResponse{Results: results}, nil
		})
	},
}

func init() {
	gisCmd.Flags().IntVarP(&gisLimit, "limit", "n", 0, "maximum number of results (default GEOCODE_LIMIT)")

	rootCmd.AddCommand(nerCmd)
	rootCmd.AddCommand(exifCmd)
	rootCmd.AddCommand(gisCmd)
}
