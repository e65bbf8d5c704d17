package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"
	"trip-planner/internal/adapters/routeapi"
	"trip-planner/internal/api/dto"
	"trip-planner/internal/domain"
	"trip-planner/internal/filters"
	"trip-planner/internal/model"
	"trip-planner/internal/ports"
	"trip-planner/internal/sorting"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "tripctl",
		Usage:  "Inspect and edit a trip route",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Value:   "http://localhost:8080",
				Usage:   "base URL of the trip API",
				EnvVars: []string{"TRIP_API_URL"},
			},
			&cli.StringFlag{
				Name:    "auth",
				Usage:   "Authorization header sent to the trip API",
				EnvVars: []string{"TRIP_API_AUTH"},
			},
			&cli.StringFlag{
				Name:  "offline",
				Usage: "load the route from a JSON seed file into memory instead of calling the API; changes are not persisted",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 15 * time.Second,
				Usage: "deadline for each command",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log model notifications and request timings",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				log.Logger = log.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			listCommand(),
			infoCommand(),
			countsCommand(),
			addCommand(),
			updateCommand(),
			favoriteCommand(),
			deleteCommand(),
		},
	}
}

type modelAction func(ctx context.Context, c *cli.Context, m *model.RouteModel) error

// withModel builds and initializes a RouteModel before running fn.
func withModel(fn modelAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
		defer cancel()

		api, err := newRouteAPI(c)
		if err != nil {
			return err
		}

		m := model.NewRouteModel(api)
		unsubscribe := m.Subscribe(func(action model.Action, p *domain.RoutePoint) {
			ev := log.Debug().Str("action", string(action))
			if p != nil {
				ev = ev.Str("id", p.ID)
			}
			ev.Msg("Route changed")
		})
		defer unsubscribe()

		if err := m.Init(ctx); err != nil {
			return err
		}

		return fn(ctx, c, m)
	}
}

func newRouteAPI(c *cli.Context) (ports.RouteAPI, error) {
	if path := c.String("offline"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read offline route %q: %w", path, err)
		}

		var seed []dto.RoutePoint
		if err := json.Unmarshal(b, &seed); err != nil {
			return nil, fmt.Errorf("parse offline route %q: %w", path, err)
		}
		return routeapi.NewMockRouteAPI(seed), nil
	}

	return routeapi.NewHTTPRouteAPI(c.String("api-url"), c.String("auth"))
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "print the route points",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "sort",
				Value: string(sorting.Default),
				Usage: "day, event, time, price or offers",
			},
		},
		Action: withModel(func(_ context.Context, c *cli.Context, m *model.RouteModel) error {
			sortType, ok := sorting.Parse(c.String("sort"))
			if !ok {
				return fmt.Errorf("unknown sort %q", c.String("sort"))
			}

			return printPoints(c.App.Writer, sorting.ByType[sortType](m.RoutePoints()))
		}),
	}
}

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "print the trip summary",
		Action: withModel(func(_ context.Context, c *cli.Context, m *model.RouteModel) error {
			info := m.FullRouteInfo()
			if info == nil {
				_, err := fmt.Fprintln(c.App.Writer, "route is empty")
				return err
			}

			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "from\t%s\n", info.RouteDateFrom.Format(time.RFC3339))
			fmt.Fprintf(w, "to\t%s\n", info.RouteDateTo.Format(time.RFC3339))
			fmt.Fprintf(w, "total base price\t%d\n", info.TotalBasePrice)
			fmt.Fprintf(w, "destinations\t%s\n", strings.Join(info.DestinationIDs, ", "))
			fmt.Fprintf(w, "offers\t%s\n", strings.Join(info.Offers, ", "))
			return w.Flush()
		}),
	}
}

func countsCommand() *cli.Command {
	return &cli.Command{
		Name:  "counts",
		Usage: "count the points selected by each filter",
		Flags: []cli.Flag{
			&cli.TimestampFlag{
				Name:   "at",
				Layout: time.RFC3339,
				Usage:  "reference time, defaults to now",
			},
			&cli.StringSliceFlag{
				Name:  "where",
				Usage: "extra filter as name=expression, e.g. cheap='BasePrice < 100'",
			},
		},
		Action: withModel(func(_ context.Context, c *cli.Context, m *model.RouteModel) error {
			ref := time.Now()
			if at := c.Timestamp("at"); at != nil {
				ref = *at
			}

			preds := filters.Builtin()
			for _, def := range c.StringSlice("where") {
				name, pred, err := filters.ParseNamed(def)
				if err != nil {
					return err
				}
				preds[name] = pred
			}

			counts := m.RoutesCountByFilters(preds, ref)

			names := make([]string, 0, len(counts))
			for name := range counts {
				names = append(names, string(name))
			}
			slices.Sort(names)

			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			for _, name := range names {
				fmt.Fprintf(w, "%s\t%d\n", name, counts[filters.Type(name)])
			}
			return w.Flush()
		}),
	}
}

func pointFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "type", Usage: strings.Join(pointTypeNames(), ", ")},
		&cli.StringFlag{Name: "destination"},
		&cli.TimestampFlag{Name: "from", Layout: time.RFC3339},
		&cli.TimestampFlag{Name: "to", Layout: time.RFC3339},
		&cli.IntFlag{Name: "price"},
		&cli.StringSliceFlag{Name: "offer"},
		&cli.BoolFlag{Name: "favorite"},
	}
}

// applyPointFlags overwrites the fields whose flags were given.
func applyPointFlags(c *cli.Context, p *domain.RoutePoint) {
	if c.IsSet("type") {
		p.Type = domain.PointType(c.String("type"))
	}
	if c.IsSet("destination") {
		p.Destination = c.String("destination")
	}
	if at := c.Timestamp("from"); at != nil {
		p.DateFrom = at.UTC()
	}
	if at := c.Timestamp("to"); at != nil {
		p.DateTo = at.UTC()
	}
	if c.IsSet("price") {
		p.BasePrice = c.Int("price")
	}
	if c.IsSet("offer") {
		p.Offers = slices.Clone(c.StringSlice("offer"))
	}
	if c.IsSet("favorite") {
		p.IsFavorite = c.Bool("favorite")
	}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "create a route point",
		Flags: pointFlags(),
		Action: withModel(func(ctx context.Context, c *cli.Context, m *model.RouteModel) error {
			point := domain.RoutePoint{Offers: []string{}}
			applyPointFlags(c, &point)
			if err := point.Validate(); err != nil {
				return err
			}

			added, err := m.AddNewRoutePoint(ctx, model.ActionMajorUpdate, point)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(c.App.Writer, "created %s\n", added.ID)
			return err
		}),
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "change fields of a route point",
		ArgsUsage: "<id>",
		Flags:     pointFlags(),
		Action: withModel(func(ctx context.Context, c *cli.Context, m *model.RouteModel) error {
			point, err := lookup(c, m)
			if err != nil {
				return err
			}

			applyPointFlags(c, &point)
			if err := point.Validate(); err != nil {
				return err
			}

			updated, err := m.UpdateRoutePoint(ctx, model.ActionMinorUpdate, point)
			if err != nil {
				return err
			}

			return printPoints(c.App.Writer, []*domain.RoutePoint{updated})
		}),
	}
}

func favoriteCommand() *cli.Command {
	return &cli.Command{
		Name:      "favorite",
		Usage:     "toggle the favorite mark of a route point",
		ArgsUsage: "<id>",
		Action: withModel(func(ctx context.Context, c *cli.Context, m *model.RouteModel) error {
			point, err := lookup(c, m)
			if err != nil {
				return err
			}

			point.IsFavorite = !point.IsFavorite
			updated, err := m.UpdateRoutePoint(ctx, model.ActionPatch, point)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(c.App.Writer, "%s favorite=%t\n", updated.ID, updated.IsFavorite)
			return err
		}),
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "remove a route point",
		ArgsUsage: "<id>",
		Action: withModel(func(ctx context.Context, c *cli.Context, m *model.RouteModel) error {
			point, err := lookup(c, m)
			if err != nil {
				return err
			}

			if err := m.DeleteRoutePoint(ctx, model.ActionMinorUpdate, point); err != nil {
				return err
			}

			_, err = fmt.Fprintf(c.App.Writer, "deleted %s\n", point.ID)
			return err
		}),
	}
}

// lookup returns a detached copy of the point named by the first argument.
func lookup(c *cli.Context, m *model.RouteModel) (domain.RoutePoint, error) {
	id := c.Args().First()
	if id == "" {
		return domain.RoutePoint{}, errors.New("route point id is required")
	}

	existing, ok := m.RoutePointByID(id)
	if !ok {
		return domain.RoutePoint{}, fmt.Errorf("route point %q not found", id)
	}

	point := *existing
	point.Offers = slices.Clone(existing.Offers)
	return point, nil
}

func printPoints(out io.Writer, points []*domain.RoutePoint) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tDESTINATION\tFROM\tTO\tPRICE\tOFFERS\tFAVORITE")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%t\n",
			p.ID, p.Type, p.Destination,
			p.DateFrom.Format(time.RFC3339), p.DateTo.Format(time.RFC3339),
			p.BasePrice, len(p.Offers), p.IsFavorite)
	}
	return w.Flush()
}

func pointTypeNames() []string {
	types := domain.PointTypes()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return names
}
