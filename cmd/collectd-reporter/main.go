package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	metrics "github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/signalfx/go-metrics-collectd/internal/core"
)

var (
	// Version of the reporter
	Version string

	// BuiltTime of the reporter
	BuiltTime string
)

const defaultConfigPath = "/etc/collectd-reporter/reporter.yaml"

func init() {
	log.SetFormatter(&prefixed.TextFormatter{})
	log.SetLevel(log.InfoLevel)
	log.SetOutput(os.Stdout)
}

// flags is used to store parsed flag values
type flags struct {
	// version is a bool flag for printing the version string
	version bool
	// configPath is the reporter config file
	configPath string
	// debug is a bool flag for printing debug level information
	debug bool
	// validate only checks the config file and exits
	validate bool
}

func getFlags() *flags {
	flags := &flags{}
	set := flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	set.BoolVar(&flags.version, "version", false, "print version")
	set.StringVar(&flags.configPath, "config", defaultConfigPath, "reporter config path")
	set.BoolVar(&flags.debug, "debug", false, "print debugging output")
	set.BoolVar(&flags.validate, "validate", false, "check the config file and exit")

	// The set is configured to exit on errors so we don't need to check the
	// return value here.
	_ = set.Parse(os.Args[1:])
	if len(set.Args()) > 0 {
		os.Stderr.WriteString("Non-flag parameters are not accepted\n")
		set.Usage()
		os.Exit(2)
	}
	return flags
}

func main() {
	flags := getFlags()

	if flags.version {
		fmt.Printf("collectd-reporter-version: %s, built-time: %s\n", Version, BuiltTime)
		os.Exit(0)
	}

	if flags.debug {
		log.SetLevel(log.DebugLevel)
	}

	if flags.validate {
		if err := core.ValidateConfig(flags.configPath); err != nil {
			log.WithFields(log.Fields{
				"error":      err,
				"configPath": flags.configPath,
			}).Error("Config is invalid")
			os.Exit(1)
		}
		log.Info("Config is valid")
		os.Exit(0)
	}

	reloads := make(chan struct{})
	shutdown, shutdownComplete, err := core.Startup(flags.configPath, metrics.DefaultRegistry, reloads, flags.debug)
	if err != nil {
		log.WithFields(log.Fields{
			"error":      err,
			"configPath": flags.configPath,
		}).Error("Error loading main config")
		os.Exit(1)
	}

	hupCh := make(chan os.Signal, 1)
	signal.Notify(hupCh, syscall.SIGHUP)
	go func() {
		for range hupCh {
			log.Info("Reloading config")
			reloads <- struct{}{}
		}
	}()

	interruptCh := make(chan os.Signal, 1)
	signal.Notify(interruptCh, os.Interrupt, syscall.SIGTERM)
	<-interruptCh

	log.Info("Interrupt signal received, stopping reporters")
	shutdown()
	select {
	case <-shutdownComplete:
	case <-time.After(10 * time.Second):
		log.Error("Shutdown timed out, forcing process down")
		os.Exit(1)
	}
}
