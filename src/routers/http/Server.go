package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/contrib/static"
	"github.com/gin-gonic/gin"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"

	//Swagger documentation
	_ "github.com/kerberos-io/media/docs"
	"github.com/kerberos-io/media/src/components"
	"github.com/kerberos-io/media/src/log"
	"github.com/kerberos-io/media/src/models"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Swagger Kerberos Media API
// @version 1.0
// @description This is the API for storing and retrieving the recordings and snapshots of building cameras.
// @termsOfService https://kerberos.io

// @contact.name API Support
// @contact.url https://www.kerberos.io
// @contact.email support@kerberos.io

// @license.name Apache 2.0 - Commons Clause
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization

const shutdownTimeout = 30 * time.Second

func NewRouter(configuration *models.Configuration, services *components.Services) *gin.Engine {

	// Initialize REST API
	r := gin.Default()

	// Tracing, only when a Datadog agent is around.
	if os.Getenv("DD_AGENT_HOST") != "" {
		r.Use(gintrace.Middleware(configuration.Name))
	}

	// Profiler
	pprof.Register(r)

	// Setup CORS
	r.Use(CORS())
	r.Use(Instrument(services.Metrics))

	// Add Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(services.Metrics.Handler()))

	// Add all routes
	AddRoutes(r, services)

	// Blobs of the filesystem store are served from here, the urls
	// handed out by the retrieval endpoints point to /file.
	storage := configuration.Config.Storage
	if storage.Provider == "filesystem" {
		r.Use(static.Serve("/file", static.LocalFile(storage.Directory, false)))
	}
	return r
}

// StartServer serves the api until ctx is cancelled, then waits for the
// requests in flight. Services must only be closed after it returns.
func StartServer(ctx context.Context, configuration *models.Configuration, services *components.Services) error {
	r := NewRouter(configuration, services)

	// Run the api on port
	listener, err := net.Listen("tcp", ":"+configuration.Port)
	if err != nil {
		return err
	}
	log.Log.Info("routers.http.Server.StartServer(): listening on :" + configuration.Port)
	return Serve(ctx, listener, r)
}

func Serve(ctx context.Context, listener net.Listener, handler http.Handler) error {
	server := &http.Server{Handler: handler}
	failed := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
		close(failed)
	}()

	select {
	case err := <-failed:
		return err
	case <-ctx.Done():
	}

	log.Log.Info("routers.http.Server.Serve(): shutting down, waiting for requests in flight")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
