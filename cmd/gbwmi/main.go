/*
gbwmi reads and writes the firmware settings of Gigabyte laptops through the
WMI interface (e.g. fan duty, battery cycles, GPU power configuration).

On Linux the acpi_call kernel module is used to evaluate the WMI methods:

	modprobe acpi_call

Usage examples:

	gbwmi list
	gbwmi read fan_control/cpu_fan_duty
	gbwmi write fan_control/cpu_fan_duty 55
	gbwmi get 225
	gbwmi -serve -watch
	gbwmi -connect http://127.0.0.1:2130/RPC2 read sensors/gpu_temp1

The ACPI paths of the WMI methods are machine specific and must be specified
in the configuration file (interfaces.get.method, interfaces.set.method).
*/
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mdzio/go-logging"

	"github.com/mdzio/go-gbwmi/acpicall"
	"github.com/mdzio/go-gbwmi/attr"
	"github.com/mdzio/go-gbwmi/config"
	"github.com/mdzio/go-gbwmi/platform"
	"github.com/mdzio/go-gbwmi/service"
	"github.com/mdzio/go-gbwmi/wmi"
	"github.com/mdzio/go-gbwmi/xmlrpc"
)

const (
	// RPC path of the attribute service
	rpcPath = "/RPC2"
)

var (
	log = logging.Get("main")

	logLevel    = logging.InfoLevel
	configFile  = flag.String("config", "", "configuration `file` (YAML)")
	force       = flag.Bool("force", false, "skip the check of the computer model and the WMI interfaces")
	dryRun      = flag.Bool("dry-run", false, "log firmware calls instead of executing them")
	connect     = flag.String("connect", "", "`URL` of a running attribute service, e.g. http://127.0.0.1:2130/RPC2")
	serve       = flag.Bool("serve", false, "start the attribute service")
	addr        = flag.String("addr", "", "`address` of the attribute service (default from configuration: 127.0.0.1:2130)")
	watchGroup  = flag.Bool("watch", false, "log the values of the watched group periodically")
	interactive = flag.Bool("i", false, "start the interactive console")
	timeout     = flag.Duration("timeout", -1, "maximum `duration` of a firmware call, 0 waits forever (default from configuration)")
)

func init() {
	flag.Var(
		&logLevel,
		"log",
		"specifies the minimum `severity` of printed log messages: off, error, warning, info, debug or trace",
	)
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			return nil, err
		}
	}
	// command line overrides configuration
	if *addr != "" {
		cfg.Server.Address = *addr
	}
	if *timeout >= 0 {
		cfg.CallTimeout = *timeout
	}
	return cfg, nil
}

func openDevice(cfg *config.Config) (*wmi.Device, error) {
	get, set := cfg.Interfaces.Get, cfg.Interfaces.Set
	var tr wmi.Transport
	if *dryRun {
		log.Warningf("Dry run, the firmware is not called")
		tr = &wmi.DryTransport{}
	} else {
		if !*force {
			if _, err := platform.Check(cfg.SysRoot, cfg.Platforms); err != nil {
				return nil, fmt.Errorf("%w (use -force to skip the check)", err)
			}
			if err := platform.CheckInterfaces(cfg.SysRoot, get.GUID, set.GUID); err != nil {
				return nil, err
			}
		}
		tr = acpicall.New(cfg.ACPICall, map[uuid.UUID]string{
			get.GUID: get.Method,
			set.GUID: set.Method,
		})
	}
	return wmi.NewDevice(tr, wmi.WithInterfaces(get.GUID, set.GUID)), nil
}

func waitForSignal() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	sig := <-sigs
	log.Infof("Signal %v received, shutting down", sig)
}

func run() error {
	// parse command line
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage of gbwmi: gbwmi [flags] [command]")
		fmt.Fprint(os.Stderr, commandHelp)
		fmt.Fprintln(os.Stderr, "Flags:")
		flag.PrintDefaults()
	}
	// flag.Parse calls os.Exit(2) on error
	flag.Parse()
	// set log options
	logging.SetLevel(logLevel)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cmd := &commander{out: os.Stdout}
	var surface *attr.Surface
	if *connect != "" {
		if *serve {
			return fmt.Errorf("Options -connect and -serve can not be combined")
		}
		cmd.backend = &service.Client{
			Name:   *connect,
			Caller: &xmlrpc.Client{Addr: *connect},
		}
	} else {
		dev, err := openDevice(cfg)
		if err != nil {
			return err
		}
		surface = attr.Gigabyte(dev)
		cmd.device = dev
		cmd.backend = &localBackend{surface: surface, callTimeout: cfg.CallTimeout}
	}

	// execute command of the command line
	if flag.NArg() > 0 {
		if err := cmd.exec(flag.Args()); err != nil {
			return err
		}
	}

	if *watchGroup {
		if cfg.Watch.Interval <= 0 {
			return fmt.Errorf("Invalid watch interval: %v", cfg.Watch.Interval)
		}
		stop := watch(cmd.backend, cfg.Watch.Group, cfg.Watch.Interval)
		defer stop()
	}

	if *serve {
		dispatcher := service.NewDispatcher()
		dispatcher.AddSurface(surface, cfg.CallTimeout)
		mux := http.NewServeMux()
		mux.Handle(rpcPath, &xmlrpc.Handler{Dispatcher: dispatcher})
		srv := &http.Server{
			Addr:              cfg.Server.Address,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		log.Infof("Starting attribute service on %s%s", cfg.Server.Address, rpcPath)
		errs := make(chan error, 1)
		go func() {
			errs <- srv.ListenAndServe()
		}()
		defer srv.Close()
		if !*interactive {
			go func() {
				waitForSignal()
				errs <- nil
			}()
			if err := <-errs; err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("Attribute service failed: %w", err)
			}
			return nil
		}
	}

	if *interactive {
		return console(cmd)
	}

	if *watchGroup {
		waitForSignal()
		return nil
	}

	if flag.NArg() == 0 && !*serve {
		flag.Usage()
		return errUsage
	}
	return nil
}

func main() {
	err := run()
	// log fatal error
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
	os.Exit(0)
}
