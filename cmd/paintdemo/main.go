package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rmcsoft/painting"
	"github.com/sirupsen/logrus"
)

type options struct {
	ConfigFile  string  `short:"c" long:"config" description:"YAML configuration file"`
	Input       string  `short:"i" long:"input" description:"Initial image (.png or .ppixmap)"`
	Output      string  `short:"o" long:"output" description:"Result image (.png or .ppixmap)" default:"painting.png"`
	PDF         string  `long:"pdf" description:"Also export the result as a PDF page"`
	Strokes     int     `short:"s" long:"strokes" description:"Number of scripted strokes" default:"8"`
	Undo        int     `short:"u" long:"undo" description:"Number of strokes to undo"`
	Redo        int     `short:"r" long:"redo" description:"Number of undone strokes to redo"`
	BrushSize   float64 `long:"brush-size" description:"Brush diameter in pixels" default:"24"`
	Mosaic      bool    `long:"mosaic" description:"Use the mosaic brush"`
	Light       bool    `long:"light" description:"Use the light brush"`
	LogLevel    string  `long:"log-level" description:"Overrides log_level of the configuration"`
	MetricsAddr string  `long:"metrics-addr" description:"Serve Prometheus metrics on this address"`
	Hold        bool    `long:"hold" description:"Keep serving metrics until interrupted"`
}

func parseCmd() options {
	var opts options
	var cmdParser = flags.NewParser(&opts, flags.Default)

	if _, err := cmdParser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		} else {
			os.Exit(1)
		}
	}
	return opts
}

func loadConfig(opts options) (painting.Config, error) {
	config := painting.DefaultConfig()
	if opts.ConfigFile != "" {
		var err error
		if config, err = painting.LoadConfig(opts.ConfigFile); err != nil {
			return config, err
		}
	}
	if opts.LogLevel != "" {
		config.LogLevel = opts.LogLevel
	}
	if opts.MetricsAddr != "" {
		config.MetricsAddr = opts.MetricsAddr
	}
	return config, config.Validate()
}

func newLogger(config painting.Config) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		log.WithError(err).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func loadBitmap(fileName string, config painting.Config) (*painting.Pixmap, error) {
	if fileName == "" {
		background, err := config.BackgroundColor()
		if err != nil {
			return nil, err
		}
		bitmap := painting.NewPixmap(config.Width, config.Height)
		bitmap.Fill(background)
		return bitmap, nil
	}

	if strings.EqualFold(filepath.Ext(fileName), ".ppixmap") {
		packedPixmap, err := painting.LoadPackedPixmap(fileName)
		if err != nil {
			return nil, err
		}
		return packedPixmap.Unpack()
	}
	return readPNG(fileName)
}

var palette = []color.NRGBA{
	{R: 0xE5, G: 0x39, B: 0x35, A: 0xFF},
	{R: 0x1E, G: 0x88, B: 0xE5, A: 0xFF},
	{R: 0x43, G: 0xA0, B: 0x47, A: 0xFF},
	{R: 0xFB, G: 0xC0, B: 0x2D, A: 0xFF},
	{R: 0x8E, G: 0x24, B: 0xAA, A: 0xC0},
}

// scriptedStroke returns a deterministic wave across the canvas
func scriptedStroke(num int, size image.Point) *painting.Path {
	path := &painting.Path{Color: palette[num%len(palette)]}
	y0 := float64(size.Y) * float64(num+1) / float64(num+2)
	amplitude := float64(size.Y) / 10
	for x := 0; x <= size.X; x += 8 {
		path.Points = append(path.Points, painting.Point{
			X:     float64(x),
			Y:     y0 + amplitude*math.Sin(float64(x)/40+float64(num)),
			Size:  0.75 + 0.25*math.Cos(float64(x)/60),
			Alpha: 1,
		})
	}
	return path
}

func serveMetrics(addr string, reg *prometheus.Registry, log logrus.FieldLogger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.WithError(err).Error("metrics server stopped")
		}
	}()
	log.WithField("addr", addr).Info("serving metrics")
}

func run(opts options) error {
	config, err := loadConfig(opts)
	if err != nil {
		return err
	}

	log := newLogger(config)
	painting.SetLogger(log)

	reg := prometheus.NewRegistry()
	metrics := painting.NewMetrics(reg)
	if config.MetricsAddr != "" {
		serveMetrics(config.MetricsAddr, reg, log)
	}

	bitmap, err := loadBitmap(opts.Input, config)
	if err != nil {
		return err
	}

	owner, err := newCanvasOwner(config, metrics, log)
	if err != nil {
		return err
	}
	defer owner.Close()

	canvas := painting.NewPainting(painting.NewSoftwareDevice(), bitmap, painting.WithMetrics(metrics))
	defer canvas.Close()

	canvas.SetDelegate(owner)
	canvas.SetupShaders()
	canvas.SetBrush(&painting.Brush{
		Size:    opts.BrushSize,
		Spacing: 0.1,
		Mosaic:  opts.Mosaic,
		Light:   opts.Light,
	})

	for num := 0; num < opts.Strokes; num++ {
		path := scriptedStroke(num, canvas.Size())
		canvas.PaintStroke(path, true, nil)
		canvas.CommitStroke(path.Color)
	}
	canvas.Sync()

	for i := 0; i < opts.Undo && owner.history.CanUndo(); i++ {
		owner.history.Undo()
	}
	for i := 0; i < opts.Redo && owner.history.CanRedo(); i++ {
		owner.history.Redo()
	}

	result := make(chan *painting.Pixmap, 1)
	canvas.Snapshot(canvas.Bounds(), func(pixmap *painting.Pixmap) {
		result <- pixmap
	})
	pixmap := <-result
	if pixmap == nil {
		return errors.New("canvas could not be read back")
	}

	if err = savePixmap(opts.Output, pixmap); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"output":  opts.Output,
		"strokes": opts.Strokes,
		"history": owner.history.Len(),
	}).Info("painting saved")

	if opts.PDF != "" {
		if err = exportPDF(opts.PDF, pixmap); err != nil {
			return err
		}
		log.WithField("pdf", opts.PDF).Info("painting exported")
	}

	if opts.Hold && config.MetricsAddr != "" {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		<-interrupt
	}
	return nil
}

func main() {
	opts := parseCmd()
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "paintdemo: %v\n", err)
		os.Exit(1)
	}
}
