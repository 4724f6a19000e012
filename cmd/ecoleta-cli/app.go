package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/vbonduro/ecoleta/internal/client"
	"github.com/vbonduro/ecoleta/internal/config"
	"github.com/vbonduro/ecoleta/internal/geo"
	"github.com/vbonduro/ecoleta/internal/validate"
)

func newApp(cfg *config.Config, logger *slog.Logger) *cli.App {
	return &cli.App{
		Name:  "ecoleta-cli",
		Usage: "register and browse waste collection points",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Value: cfg.APIURL, Usage: "Ecoleta API base URL"},
			&cli.StringFlag{Name: "ibge", Value: cfg.IBGEURL, Usage: "IBGE localidades API base URL"},
			&cli.StringFlag{Name: "nominatim", Value: cfg.NominatimURL, Usage: "Nominatim API base URL"},
		},
		Commands: []*cli.Command{
			{
				Name:   "items",
				Usage:  "list collectable items",
				Action: listItems,
			},
			{
				Name:   "states",
				Usage:  "list state abbreviations",
				Action: func(c *cli.Context) error { return listStates(c, logger) },
			},
			{
				Name:  "cities",
				Usage: "list the cities of a state",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "uf", Required: true},
				},
				Action: listCities,
			},
			{
				Name:  "register",
				Usage: "register a collection point",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "whatsapp", Required: true},
					&cli.StringFlag{Name: "uf", Required: true},
					&cli.StringFlag{Name: "city", Required: true},
					&cli.StringFlag{Name: "items", Required: true, Usage: "comma-separated item ids"},
					&cli.StringFlag{Name: "image", Required: true, Usage: "path to a png or jpg image"},
					&cli.Float64Flag{Name: "lat", Usage: "latitude of the point"},
					&cli.Float64Flag{Name: "lng", Usage: "longitude of the point"},
					&cli.BoolFlag{Name: "use-center", Usage: "submit the geocoded city centre when --lat/--lng are not given"},
					&cli.Float64Flag{Name: "device-lat", Usage: "device latitude used as the initial map centre"},
					&cli.Float64Flag{Name: "device-lng", Usage: "device longitude used as the initial map centre"},
				},
				Action: func(c *cli.Context) error { return register(c, logger) },
			},
			{
				Name:  "browse",
				Usage: "list the points of a city, optionally showing one in detail",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "uf", Required: true},
					&cli.StringFlag{Name: "city", Required: true},
					&cli.StringFlag{Name: "items", Usage: "comma-separated item ids"},
					&cli.Int64Flag{Name: "detail", Usage: "id of a point to show in detail"},
				},
				Action: browse,
			},
		},
	}
}

func listItems(c *cli.Context) error {
	items, err := client.NewAPI(c.String("api")).ListItems(c.Context)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tIMAGE")
	for _, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", it.ID, it.Title, it.ImageURL)
	}
	return tw.Flush()
}

func listStates(c *cli.Context, logger *slog.Logger) error {
	draft := client.NewDraft(geo.NewIBGE(c.String("ibge")), geo.NewNominatim(c.String("nominatim")), logger)
	if err := draft.LoadStates(c.Context); err != nil {
		return err
	}
	for _, uf := range draft.UFs {
		fmt.Fprintln(c.App.Writer, uf)
	}
	return nil
}

func listCities(c *cli.Context) error {
	cities, err := geo.NewIBGE(c.String("ibge")).Cities(c.Context, strings.ToUpper(c.String("uf")))
	if err != nil {
		return err
	}
	for _, name := range cities {
		fmt.Fprintln(c.App.Writer, name)
	}
	return nil
}

func register(c *cli.Context, logger *slog.Logger) error {
	itemIDs, err := validate.ParseItemIDs(c.String("items"))
	if err != nil {
		return err
	}

	draft := client.NewDraft(geo.NewIBGE(c.String("ibge")), geo.NewNominatim(c.String("nominatim")), logger)
	if c.IsSet("device-lat") && c.IsSet("device-lng") {
		draft.LocateDevice(c.Context, client.StaticLocator{Lat: c.Float64("device-lat"), Lng: c.Float64("device-lng")})
	}

	draft.Name = c.String("name")
	draft.Email = c.String("email")
	draft.WhatsApp = c.String("whatsapp")
	if err := draft.LoadStates(c.Context); err != nil {
		logger.Warn("loading states", "error", err)
	}
	draft.SelectUF(c.Context, c.String("uf"))
	if len(draft.UFs) > 0 && !containsFold(draft.UFs, draft.UF) {
		return fmt.Errorf("unknown state %q", draft.UF)
	}
	if len(draft.Cities) > 0 && !containsFold(draft.Cities, c.String("city")) {
		logger.Warn("city not listed for state", "uf", draft.UF, "city", c.String("city"))
	}
	draft.SelectCity(c.Context, c.String("city"))
	fmt.Fprintf(c.App.Writer, "map centre: %.6f, %.6f\n", draft.Center.Lat, draft.Center.Lng)

	switch {
	case c.IsSet("lat") && c.IsSet("lng"):
		draft.SetPosition(c.Float64("lat"), c.Float64("lng"))
	case c.Bool("use-center"):
		draft.SetPosition(draft.Center.Lat, draft.Center.Lng)
	}
	for _, id := range itemIDs {
		draft.ToggleItem(id)
	}
	draft.ImagePath = c.String("image")

	created, err := draft.Submit(c.Context, client.NewAPI(c.String("api")))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "registered point %d (%s)\n", created.ID, created.Name)
	return nil
}

func browse(c *cli.Context) error {
	b := client.NewBrowser(client.NewAPI(c.String("api")), c.String("city"), strings.ToUpper(c.String("uf")))
	if s := c.String("items"); s != "" {
		ids, err := validate.ParseItemIDs(s)
		if err != nil {
			return err
		}
		for _, id := range ids {
			b.ToggleItem(id)
		}
	}

	if err := b.Refresh(c.Context); err != nil {
		return err
	}
	printPoints(c.App.Writer, b.Points)

	if !c.IsSet("detail") {
		return nil
	}
	detail, err := b.Detail(c.Context, c.Int64("detail"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "\n%s\n%s, %s\nitems: %s\nimage: %s\nmail: %s\nchat: %s\n",
		detail.Point.Name, detail.Point.City, detail.Point.UF,
		strings.Join(detail.ItemTitles(), ", "), detail.Point.ImageURL,
		b.MailtoURL(), b.WhatsAppURL())
	return nil
}

func printPoints(w io.Writer, points []client.Point) {
	if len(points) == 0 {
		fmt.Fprintln(w, "no collection points found")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCITY\tLAT\tLNG")
	for _, p := range points {
		fmt.Fprintf(tw, "%d\t%s\t%s/%s\t%.6f\t%.6f\n", p.ID, p.Name, p.City, p.UF, p.Latitude, p.Longitude)
	}
	_ = tw.Flush()
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
