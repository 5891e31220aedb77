// Command seed adds the sample catalog entry, reassigns product images
// from a JSON file, or lists what the configured store holds.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"storefront/catalog"
	"storefront/config"
	"storefront/models"
	"storefront/store"
)

func main() {
	add := flag.Bool("add", false, "insert the sample product")
	list := flag.Bool("list", false, "print every product")
	images := flag.String("images", "", `JSON file of [{"id": "...", "images": ["..."]}] to reassign`)
	flag.Parse()

	if !*add && !*list && *images == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(options{add: *add, list: *list, images: *images}, os.Stdout); err != nil {
		color.Red("seed: %v", err)
		os.Exit(1)
	}
}

type options struct {
	add    bool
	list   bool
	images string
}

func run(opts options, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := cfg.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	backend, err := store.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backend.Close()

	svc := catalog.NewService(backend.Products, nil, nil, nil, log)
	if opts.add {
		if err := addSample(ctx, svc, out); err != nil {
			return err
		}
	}
	if opts.images != "" {
		f, err := os.Open(opts.images)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := reassignImages(ctx, svc, f, out); err != nil {
			return err
		}
	}
	if opts.list {
		return listAll(ctx, svc, out)
	}
	return nil
}

func sampleProduct() models.ProductInput {
	price, compare, weight := 799.0, 999.0, 0.12
	published := true
	return models.ProductInput{
		Title:          "ComfortFit Everyday Bra",
		Slug:           "comfortfit-everyday-bra",
		Description:    "Soft, wire-free everyday bra with breathable cotton lining.",
		Price:          &price,
		CompareAtPrice: &compare,
		SKU:            "CF-BRA-001",
		Images:         []string{"/uploads/women/comfortfit-everyday-bra.jpg"},
		Categories:     []string{"bras", "innerwear"},
		Tags:           []string{"everyday", "cotton", "wire-free"},
		Brand:          "ComfortFit",
		Material:       "Cotton blend",
		Care:           "Hand wash cold",
		Fabric:         "95% cotton, 5% elastane",
		Fit:            "Regular",
		Sizes:          []string{"32B", "34B", "36B", "38B"},
		Colors:         []string{"Nude", "Black"},
		Gender:         models.GenderWomen,
		ProductType:    "bra",
		SupportLevel:   "medium",
		Padding:        "non-padded",
		WireType:       "wire-free",
		Stock:          100,
		Weight:         &weight,
		SEO: &models.SEO{
			Title:       "ComfortFit Everyday Bra",
			Description: "Wire-free cotton bra for all-day comfort.",
		},
		Published: &published,
	}
}

func addSample(ctx context.Context, svc *catalog.Service, out io.Writer) error {
	p, err := svc.Create(ctx, sampleProduct())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s (%s)\n", color.GreenString("added"), p.Title, p.ID)
	return nil
}

func listAll(ctx context.Context, svc *catalog.Service, out io.Writer) error {
	products, err := svc.AdminList(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		color.New(color.FgYellow).Fprintln(out, "no products")
		return nil
	}

	for _, p := range products {
		state := color.GreenString("published")
		if !p.Published {
			state = color.YellowString("draft")
		}
		fmt.Fprintf(out, "%s  %-40s  %-7s  %s\n", color.CyanString(p.ID), p.Title, p.Gender, state)
	}
	fmt.Fprintf(out, "%d product(s)\n", len(products))
	return nil
}

type imageUpdate struct {
	ID     string   `json:"id"`
	Images []string `json:"images"`
}

// reassignImages replaces the image list of each listed product. Unknown
// ids and per-row failures are reported and skipped.
func reassignImages(ctx context.Context, svc *catalog.Service, in io.Reader, out io.Writer) error {
	var updates []imageUpdate
	if err := json.NewDecoder(in).Decode(&updates); err != nil {
		return fmt.Errorf("decode image updates: %w", err)
	}

	var updated int
	for _, u := range updates {
		images := u.Images
		if images == nil {
			images = []string{}
		}
		p, err := svc.Update(ctx, u.ID, models.ProductPatch{Images: &images})
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			fmt.Fprintf(out, "%s not found: %s\n", color.RedString("✗"), u.ID)
		case err != nil:
			fmt.Fprintf(out, "%s %s: %v\n", color.RedString("✗"), u.ID, err)
		default:
			updated++
			fmt.Fprintf(out, "%s %s -> %v\n", color.GreenString("✓"), p.Title, p.Images)
		}
	}
	fmt.Fprintf(out, "%d of %d product(s) updated\n", updated, len(updates))
	return nil
}
