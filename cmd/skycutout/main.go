// Command skycutout runs the whole flow once from the command line:
// resolve an object name (or take literal coordinates), print the
// position in every representation, fetch a survey cutout centered on
// it, and write the image to a local file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"skycutout/internal/astro"
	"skycutout/internal/config"
	"skycutout/internal/cutout"
	"skycutout/internal/models"
	"skycutout/internal/resolver"
)

func main() {
	var (
		name    = flag.String("name", "", "object name to resolve, e.g. \"HCG 7\"")
		raStr   = flag.String("ra", "", "right ascension, decimal degrees or \"00h39m15.90s\" (bypasses resolution)")
		decStr  = flag.String("dec", "", "declination, decimal degrees or \"+00d53m17.0s\" (bypasses resolution)")
		fov     = flag.Float64("fov", models.DefaultFieldOfView, "field of view in arcminutes")
		width   = flag.Int("width", models.DefaultWidth, "image width in pixels")
		height  = flag.Int("height", models.DefaultHeight, "image height in pixels")
		out     = flag.String("out", "sdss_cutout.jpg", "output image file")
		timeout = flag.Duration("timeout", 30*time.Second, "HTTP timeout per request")
	)
	flag.Parse()

	if err := run(*name, *raStr, *decStr, *fov, *width, *height, *out, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "skycutout: %v\n", err)
		os.Exit(1)
	}
}

func run(name, raStr, decStr string, fov float64, width, height int, out string, timeout time.Duration) error {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	obj, err := target(ctx, cfg, name, raStr, decStr, timeout)
	if err != nil {
		return err
	}

	pos, err := obj.Position()
	if err != nil {
		return err
	}

	fmt.Printf("Object:          %s", obj.Name)
	if obj.ObjectType != "" {
		fmt.Printf(" (%s)", obj.ObjectType)
	}
	fmt.Printf("\nFrame:           %s\n", pos.Frame())
	fmt.Printf("Decimal degrees: %s\n", pos.DecimalString())
	fmt.Printf("Hour angle:      %s\n", pos.HourString())
	fmt.Printf("Sexagesimal:     %s\n", pos.SexagesimalString())

	req, err := models.NewCutoutRequest(fov, width, height)
	if err != nil {
		return err
	}
	fmt.Printf("Cutout:          %.1f arcmin, %dx%d px, %.6f arcsec/px\n",
		req.FieldOfView, req.Width, req.Height, req.Scale())

	client := cutout.New(cfg.CutoutURL, timeout)
	image, err := client.Fetch(ctx, pos, req)
	if err != nil {
		// The documented recovery is reusing a previously saved image
		if _, statErr := os.Stat(out); statErr == nil {
			return fmt.Errorf("%w\na previously saved image exists at %s, you can keep using it", err, out)
		}
		return err
	}

	if err := os.WriteFile(out, image, 0644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}

	fmt.Printf("Saved:           %s (%d bytes)\n", out, len(image))
	return nil
}

// target picks the pointing center: literal coordinates when both are
// given, otherwise a name resolved against the configured endpoints.
// Literal coordinates are also the manual fallback when the resolution
// service is unreachable.
func target(ctx context.Context, cfg *config.Config, name, raStr, decStr string, timeout time.Duration) (models.ResolvedObject, error) {
	if raStr != "" || decStr != "" {
		if raStr == "" || decStr == "" {
			return models.ResolvedObject{}, fmt.Errorf("-ra and -dec must be supplied together")
		}
		ra, err := astro.ParseRA(raStr)
		if err != nil {
			return models.ResolvedObject{}, err
		}
		dec, err := astro.ParseDec(decStr)
		if err != nil {
			return models.ResolvedObject{}, err
		}
		pos, err := astro.NewPosition(ra, dec)
		if err != nil {
			return models.ResolvedObject{}, err
		}
		if name == "" {
			name = pos.SexagesimalString()
		}
		return models.NewResolvedObject(name, "", pos), nil
	}

	if name == "" {
		return models.ResolvedObject{}, fmt.Errorf("either -name or -ra/-dec is required")
	}

	obj, err := resolver.New(cfg.ResolverURLs(), timeout).Resolve(ctx, name)
	if err != nil {
		return models.ResolvedObject{}, fmt.Errorf("%w\nif the service is unreachable, supply -ra and -dec instead", err)
	}
	return obj, nil
}
