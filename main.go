package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/carlmjohnson/versioninfo"
	"github.com/cheggaaa/pb/v3"
	"github.com/iancoleman/strcase"
	"github.com/pdok/vtiler/config"
	"github.com/pdok/vtiler/geometry"
	"github.com/pdok/vtiler/processing"
	"github.com/pdok/vtiler/processing/geojson"
	"github.com/pdok/vtiler/processing/gpkg"
	"github.com/pdok/vtiler/tile"
	"github.com/pdok/vtiler/tilecache"
	"github.com/pdok/vtiler/tilestore"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const SOURCE string = `source`
const TABLE string = `table`
const SHAPE string = `shape`
const CONFIG string = `config`
const PROJECTION string = `projection`
const MINZOOM string = `minzoom`
const MAXZOOM string = `maxzoom`
const INDEXMAXZOOM string = `index-maxzoom`
const INDEXMAXPOINTS string = `index-maxpoints`
const TOLERANCE string = `tolerance`
const BUFFER string = `buffer`
const EXTENT string = `extent`
const BBOX string = `bbox`
const LAYER string = `layer`
const VERBOSE string = `verbose`
const CACHESIZE string = `cache-size`
const DEPTH string = `depth`

func envVars(name string) []string {
	return []string{strcase.ToScreamingSnake("vtiler_" + name)}
}

//nolint:funlen
func main() {
	log.SetFormatter(&nested.Formatter{
		HideKeys:        true,
		ShowFullLevel:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	log.SetOutput(os.Stderr)

	app := cli.NewApp()
	app.Name = "vtiler"
	app.Usage = "Cut point, line and polygon features into vector tiles on demand"
	app.Version = versioninfo.Short()

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:     SOURCE,
			Aliases:  []string{"s"},
			Usage:    "Source GeoJSON (.json, .geojson) or GeoPackage (.gpkg)",
			Required: true,
			EnvVars:  envVars(SOURCE),
		},
		&cli.StringFlag{
			Name:    TABLE,
			Usage:   "GeoPackage feature table, the first one when left out",
			EnvVars: envVars(TABLE),
		},
		&cli.StringFlag{
			Name:    SHAPE,
			Usage:   "Coordinates of the source: WG (longitude/latitude) or S2 (face and ST)",
			Value:   string(geometry.WG),
			EnvVars: envVars(SHAPE),
		},
		&cli.StringFlag{
			Name:    CONFIG,
			Aliases: []string{"c"},
			Usage:   "Tile store options file (YAML, TOML or JSON), flags take precedence",
			EnvVars: envVars(CONFIG),
		},
		&cli.StringFlag{
			Name:    PROJECTION,
			Aliases: []string{"p"},
			Usage:   "Tiling scheme: WG (Web Mercator) or S2",
			EnvVars: envVars(PROJECTION),
		},
		&cli.IntFlag{Name: MINZOOM, Usage: "Lowest zoom served", EnvVars: envVars(MINZOOM)},
		&cli.IntFlag{Name: MAXZOOM, Aliases: []string{"z"}, Usage: "Deepest zoom served", EnvVars: envVars(MAXZOOM)},
		&cli.IntFlag{Name: INDEXMAXZOOM, Usage: "Deepest zoom split up front", EnvVars: envVars(INDEXMAXZOOM)},
		&cli.IntFlag{Name: INDEXMAXPOINTS, Usage: "Tiles with at most this many vertices are not split up front", EnvVars: envVars(INDEXMAXPOINTS)},
		&cli.Float64Flag{Name: TOLERANCE, Usage: "Simplification tolerance in 1/4096 of a tile", EnvVars: envVars(TOLERANCE)},
		&cli.Float64Flag{Name: BUFFER, Usage: "Buffer around a tile as a fraction of its width", EnvVars: envVars(BUFFER)},
		&cli.IntFlag{Name: EXTENT, Usage: "Tile-local coordinate extent", EnvVars: envVars(EXTENT)},
		&cli.BoolFlag{Name: BBOX, Usage: "Attach tile-local bounds to every feature", EnvVars: envVars(BBOX)},
		&cli.StringFlag{Name: LAYER, Usage: "Name of the layer the features go in", EnvVars: envVars(LAYER)},
		&cli.BoolFlag{Name: VERBOSE, Aliases: []string{"v"}, Usage: "Debug logging", EnvVars: envVars(VERBOSE)},
	}

	app.Before = func(c *cli.Context) error {
		if c.Bool(VERBOSE) {
			log.SetLevel(log.DebugLevel)
		}
		return nil
	}

	app.Commands = []*cli.Command{
		{
			Name:      "tile",
			Usage:     "Print one tile as JSON",
			ArgsUsage: "<z/x/y | face/z/i/j | id:N | S2 token>",
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return cli.Exit("tile needs exactly one address", 1)
				}
				store, err := buildStore(c)
				if err != nil {
					return err
				}
				id, err := parseAddress(c.Args().First(), store.Options().Projection)
				if err != nil {
					return err
				}
				t, ok := store.GetTile(id)
				if !ok {
					return cli.Exit(fmt.Sprintf("no tile at %s", c.Args().First()), 2)
				}
				return writeJSON(os.Stdout, t)
			},
		},
		{
			Name:  "tiles",
			Usage: "Read tile addresses from stdin, write one JSON tile per line",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    CACHESIZE,
					Usage:   "Number of encoded tiles kept in memory",
					Value:   256,
					EnvVars: envVars(CACHESIZE),
				},
			},
			Action: func(c *cli.Context) error {
				store, err := buildStore(c)
				if err != nil {
					return err
				}
				cache := tilecache.New(store, c.Int(CACHESIZE))
				if err := serveTiles(os.Stdin, os.Stdout, cache, store.Options().Projection); err != nil {
					return err
				}
				log.Infof("tile cache %v", cache.Stats())
				return nil
			},
		},
		{
			Name:      "export",
			Usage:     "Write every tile down to a zoom as <dir>/<face>/<z>/<i>/<j>.json",
			ArgsUsage: "<dir>",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    DEPTH,
					Usage:   "Deepest zoom written, maxzoom when left out",
					Value:   -1,
					EnvVars: envVars(DEPTH),
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return cli.Exit("export needs a target directory", 1)
				}
				store, err := buildStore(c)
				if err != nil {
					return err
				}
				depth := c.Int(DEPTH)
				if depth < 0 || depth > store.Options().MaxZoom {
					depth = store.Options().MaxZoom
				}
				log.Println("=== start export ===")
				n, err := export(store, c.Args().First(), depth)
				if err != nil {
					return err
				}
				log.Printf("=== done export, %d tiles ===", n)
				return nil
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

// options merges the config file with the flags that are set.
func options(c *cli.Context) (tilestore.Options, error) {
	o, err := config.Load(c.String(CONFIG))
	if err != nil {
		return o, err
	}
	if c.IsSet(PROJECTION) {
		if o.Projection, err = geometry.ParseShape(c.String(PROJECTION)); err != nil {
			return o, err
		}
	}
	if c.IsSet(MINZOOM) {
		o.MinZoom = c.Int(MINZOOM)
	}
	if c.IsSet(MAXZOOM) {
		o.MaxZoom = c.Int(MAXZOOM)
	}
	if c.IsSet(INDEXMAXZOOM) {
		o.IndexMaxZoom = c.Int(INDEXMAXZOOM)
	}
	if c.IsSet(INDEXMAXPOINTS) {
		o.IndexMaxPoints = c.Int(INDEXMAXPOINTS)
	}
	if c.IsSet(TOLERANCE) {
		o.Tolerance = c.Float64(TOLERANCE)
	}
	if c.IsSet(BUFFER) {
		o.Buffer = c.Float64(BUFFER)
	}
	if c.IsSet(EXTENT) {
		o.Extent = c.Int(EXTENT)
	}
	if c.IsSet(BBOX) {
		o.BuildBBox = c.Bool(BBOX)
	}
	if c.IsSet(LAYER) {
		o.Layer = c.String(LAYER)
	}
	return o, nil
}

func buildStore(c *cli.Context) (*tilestore.Store, error) {
	o, err := options(c)
	if err != nil {
		return nil, err
	}
	shape, err := geometry.ParseShape(c.String(SHAPE))
	if err != nil {
		return nil, err
	}

	source, closeSource, err := openSource(c.String(SOURCE), c.String(TABLE))
	if err != nil {
		return nil, err
	}
	defer closeSource()

	log.Printf("=== reading %s ===", c.String(SOURCE))
	data, _, err := processing.Collect(source, shape)
	if err != nil {
		return nil, err
	}
	log.Println("=== indexing ===")
	return tilestore.New(data, o)
}

func openSource(path string, table string) (processing.Source, func(), error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil, errors.Wrap(err, "could not open source")
	}
	switch filepath.Ext(path) {
	case ".gpkg":
		source, err := gpkg.Open(path, table)
		if err != nil {
			return nil, nil, err
		}
		return source, func() { _ = source.Close() }, nil
	case ".json", ".geojson":
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, errors.Wrap(err, "could not open source")
		}
		return geojson.NewSource(f), func() { _ = f.Close() }, nil
	default:
		return nil, nil, errors.Errorf("unknown source type %s", path)
	}
}

func writeJSON(w io.Writer, t *tile.Tile) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

// serveTiles answers every address read from r with one line on w. Addresses
// without a tile, or that do not parse, are logged and skipped.
func serveTiles(r io.Reader, w io.Writer, cache *tilecache.Cache, projection geometry.Shape) error {
	out := bufio.NewWriter(w)
	defer out.Flush()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		id, err := parseAddress(line, projection)
		if err != nil {
			log.Warn(err)
			continue
		}
		b, ok, err := cache.Get(id)
		if err != nil {
			return err
		}
		if !ok {
			log.Warnf("no tile at %s", line)
			continue
		}
		if _, err := fmt.Fprintf(out, "%s\n", b); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// export writes the tiles of every face, breadth first, down to depth.
// Below the minimum zoom nothing is written but the walk goes on.
func export(store *tilestore.Store, dir string, depth int) (int, error) {
	type entry struct {
		id   uint64
		zoom int
	}
	var queue []entry
	for _, face := range store.Faces() {
		queue = append(queue, entry{id: store.Root(face)})
	}
	bar := pb.StartNew(len(queue))
	defer bar.Finish()

	written := 0
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		bar.Increment()

		if e.zoom >= store.Options().MinZoom {
			t, ok := store.GetTile(e.id)
			if !ok {
				continue
			}
			if err := writeTile(dir, t); err != nil {
				return written, err
			}
			written++
		}
		if e.zoom < depth {
			for _, child := range store.ChildIDs(e.id) {
				queue = append(queue, entry{id: child, zoom: e.zoom + 1})
			}
			bar.SetTotal(bar.Total() + 4)
		}
	}
	return written, nil
}

func writeTile(dir string, t *tile.Tile) error {
	path := filepath.Join(dir,
		strconv.Itoa(int(t.Face)), strconv.Itoa(t.Zoom), strconv.FormatUint(uint64(t.I), 10), strconv.FormatUint(uint64(t.J), 10)+".json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "could not create directory for %v", t)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create %s", path)
	}
	if err := writeJSON(f, t); err != nil {
		f.Close()
		return errors.Wrapf(err, "could not write %s", path)
	}
	return f.Close()
}
