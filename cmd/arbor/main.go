// Command arbor runs the Arbor shell against a loopback host bridge. It is
// the development entry point: real deployments embed the shell behind a
// native host that implements platform.HostBridge.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/arbor-app/arbor/pkg/app"
	"github.com/arbor-app/arbor/pkg/platform"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	apiURL := flag.String("api", "", "override api.baseUrl")
	flag.Parse()

	cfg := app.DefaultConfig()
	if *configPath != "" {
		loaded, err := app.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}
	if cfg.API.BaseURL == "" {
		log.Fatal("no API base URL: pass -config or -api")
	}

	stop := make(chan struct{})
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		<-signals
		log.Println("shutting down")
		close(stop)
	}()

	log.Printf("arbor %s starting, api=%s", app.Version, cfg.API.BaseURL)
	app.Run(cfg, loopbackBridge{}, stop)
}

// loopbackBridge is a host bridge with no native side: method calls succeed
// with a null result and event streams never emit.
type loopbackBridge struct{}

func (loopbackBridge) InvokeMethod(channel, method string, args []byte) ([]byte, error) {
	log.Printf("host call channel=%s method=%s", channel, method)
	return platform.DefaultCodec.Encode(nil)
}

func (loopbackBridge) StartEventStream(channel string) error {
	log.Printf("host stream start channel=%s", channel)
	return nil
}

func (loopbackBridge) StopEventStream(channel string) error {
	log.Printf("host stream stop channel=%s", channel)
	return nil
}
