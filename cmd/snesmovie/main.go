package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"text/tabwriter"

	"github.com/bodgit/snesmovie"
	"github.com/bodgit/snesmovie/geom"
	"github.com/bodgit/snesmovie/render"
	"github.com/urfave/cli/v2"
)

const defaultDB = "snesmovie.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func importAction(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
	dir := c.Args().First()

	rate, err := snesmovie.ParseFrameRate(c.String("rate"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	name := c.String("name")
	if name == "" {
		name = filepath.Base(filepath.Clean(dir))
	}

	a := snesmovie.New(newLogger(c))
	a.SkipInvalid = c.Bool("skip-invalid")
	if err := a.LoadDir(dir, c.Int("workers")); err != nil {
		return cli.NewExitError(err, 1)
	}

	db, err := snesmovie.NewMovieDB(c.String("db"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	m := a.Movie(geom.Sz[geom.Screen](uint32(c.Uint("width")), uint32(c.Uint("height"))), rate)
	if _, err := db.Save(name, m); err != nil {
		return cli.NewExitError(err, 1)
	}

	newLogger(c).Printf("Imported %q with %d frames, %d tiles and %d palettes", name, len(m.Frames()), len(m.Tiles()), len(m.Palettes()))

	return nil
}

func listAction(c *cli.Context) error {
	db, err := snesmovie.NewMovieDB(c.String("db"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	movies, err := db.List()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSCREEN\tRATE\tFRAMES\tTILES\tPALETTES")
	for _, m := range movies {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n", m.Name, m.ScreenSize, m.FrameRate, m.Frames, m.Tiles, m.Palettes)
	}
	return w.Flush()
}

func gifAction(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	db, err := snesmovie.NewMovieDB(c.String("db"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	id, err := db.FindByName(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	m, err := db.Load(id)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	f, err := os.Create(c.Args().Get(1))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	if err := render.EncodeGIF(f, m, c.Int("scale")); err != nil {
		return cli.NewExitError(err, 1)
	}

	return f.Close()
}

func main() {
	app := cli.NewApp()

	app.Name = "snesmovie"
	app.Usage = "SNES sprite movie builder"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"SNESMOVIE_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "import",
			Usage:       "Assemble a directory of captures into a movie",
			Description: "Every .cap file in the directory is decoded, in name order, as one frame.",
			ArgsUsage:   "DIRECTORY",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "name",
					Usage: "name to store the movie as, defaults to the directory name",
				},
				&cli.UintFlag{
					Name:  "width",
					Value: 256,
					Usage: "visible screen width",
				},
				&cli.UintFlag{
					Name:  "height",
					Value: 224,
					Usage: "visible screen height",
				},
				&cli.StringFlag{
					Name:    "rate",
					EnvVars: []string{"SNESMOVIE_RATE"},
					Value:   snesmovie.NTSC.String(),
					Usage:   "frame rate, ntsc or pal",
				},
				&cli.IntFlag{
					Name:  "workers",
					Value: runtime.NumCPU(),
					Usage: "number of captures to decode concurrently",
				},
				&cli.BoolFlag{
					Name:  "skip-invalid",
					Usage: "leave out captures that fail to decode",
				},
			},
			Action: importAction,
		},
		{
			Name:   "list",
			Usage:  "List stored movies",
			Action: listAction,
		},
		{
			Name:      "gif",
			Usage:     "Render a stored movie as an animated GIF",
			ArgsUsage: "NAME FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "scale",
					Value: 2,
					Usage: "integer scale factor",
				},
			},
			Action: gifAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
