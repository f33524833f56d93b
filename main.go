package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kerberos-io/media/src/components"
	"github.com/kerberos-io/media/src/config"
	"github.com/kerberos-io/media/src/log"
	"github.com/kerberos-io/media/src/models"
	"github.com/kerberos-io/media/src/routers"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

var VERSION = "1.0.0"

func main() {

	if len(os.Args) < 2 {
		fmt.Println("Usage: media version | media run <config directory> <port>")
		os.Exit(1)
	}
	action := os.Args[1]

	switch action {
	case "version":
		fmt.Println("You are currently running Kerberos Media " + VERSION)

	case "run":
		{
			if len(os.Args) < 4 {
				fmt.Println("Usage: media run <config directory> <port>")
				os.Exit(1)
			}
			configDirectory := os.Args[2]
			port := os.Args[3]

			// Environment files are loaded first, so they can point to the
			// configuration store (e.g. MongoDB in factory deployments).
			config.LoadEnvironment(".")

			configuration := models.Configuration{
				Name: "media",
				Port: port,
			}
			if err := config.OpenConfig(configDirectory, &configuration); err != nil {
				log.Log.Fatal("main.main(): could not open configuration: " + err.Error())
			}
			config.OverrideWithEnvironmentVariables(&configuration)
			config.ApplyDefaults(configDirectory, &configuration)

			timezone, err := time.LoadLocation(configuration.Config.Timezone)
			if err != nil {
				timezone = time.UTC
			}
			log.Log.Logger = configuration.Config.LogOutput
			log.Log.Init(configuration.Config.LogLevel, configDirectory, timezone)
			log.Log.Info("main.main(): starting Kerberos Media " + VERSION)

			// Tracing is enabled when a Datadog agent is configured.
			if os.Getenv("DD_AGENT_HOST") != "" {
				tracer.Start(tracer.WithService(configuration.Config.Name), tracer.WithServiceVersion(VERSION))
				defer tracer.Stop()
			}

			services, err := components.Bootstrap(context.Background(), &configuration)
			if err != nil {
				log.Log.Fatal("main.main(): could not bootstrap: " + err.Error())
			}

			// On SIGINT/SIGTERM the webserver stops accepting requests and
			// drains the ones in flight, only then are the services closed.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Start the REST API.
			if err := routers.StartWebserver(ctx, &configuration, services); err != nil {
				log.Log.Error("main.main(): webserver stopped: " + err.Error())
			}
			log.Log.Info("main.main(): shutting down")
			services.Close()
		}
	default:
		fmt.Println("Sorry I don't understand :(")
	}
}
