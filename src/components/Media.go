package components

import (
	"context"
	"errors"
	"time"

	"github.com/kerberos-io/media/src/admission"
	"github.com/kerberos-io/media/src/auth"
	"github.com/kerberos-io/media/src/catalog"
	"github.com/kerberos-io/media/src/database"
	"github.com/kerberos-io/media/src/log"
	"github.com/kerberos-io/media/src/metrics"
	"github.com/kerberos-io/media/src/models"
	"github.com/kerberos-io/media/src/outputs"
	"github.com/kerberos-io/media/src/registry"
	"github.com/kerberos-io/media/src/retrieval"
	"github.com/kerberos-io/media/src/storage"
	"github.com/kerberos-io/media/src/timestamp"
	"github.com/tevino/abool"
)

// Services is everything the routers need, built once from the
// configuration.
type Services struct {
	Configuration *models.Configuration
	Authority     *auth.Authority
	Codec         *timestamp.Codec
	Store         storage.Store
	Catalog       catalog.Catalog
	Admission     *admission.Controller
	Retrieval     *retrieval.Service
	Outputs       *outputs.Dispatcher
	Metrics       *metrics.Prom
	Ready         *abool.AtomicBool
}

func Bootstrap(ctx context.Context, configuration *models.Configuration) (*Services, error) {
	log.Log.Debug("components.Media.Bootstrap(): started")
	config := configuration.Config

	authority, err := auth.NewAuthority(config.Tokens.ClientSecret, config.Tokens.GatewaySecret)
	if err != nil {
		return nil, err
	}

	location, err := time.LoadLocation(config.Timezone)
	if err != nil {
		log.Log.Warning("components.Media.Bootstrap(): unknown timezone " + config.Timezone + ", using UTC.")
		location = time.UTC
	}
	codec := timestamp.New(location)

	store, err := NewStore(ctx, config)
	if err != nil {
		return nil, err
	}
	index, err := NewCatalog(config)
	if err != nil {
		return nil, err
	}
	resolver, err := NewResolver(config)
	if err != nil {
		index.Close()
		return nil, err
	}
	dispatcher := outputs.NewDispatcher(NewOutputs(config)...)

	services := &Services{
		Configuration: configuration,
		Authority:     authority,
		Codec:         codec,
		Store:         store,
		Catalog:       index,
		Admission: &admission.Controller{
			Authority: authority,
			Resolver:  resolver,
			Codec:     codec,
			Store:     store,
			Catalog:   index,
			Limits: admission.Limits{
				MaxSnapshotSize:  config.Limits.MaxSnapshotSize,
				MaxRecordingSize: config.Limits.MaxRecordingSize,
			},
			SpoolDir: config.Storage.SpoolDir,
			Notifier: dispatcher,
		},
		Retrieval: &retrieval.Service{
			Authority: authority,
			Resolver:  resolver,
			Codec:     codec,
			Catalog:   index,
			Store:     store,
		},
		Outputs: dispatcher,
		Metrics: metrics.NewProm("media"),
		Ready:   abool.New(),
	}
	services.Ready.Set()
	log.Log.Info("components.Media.Bootstrap(): storage " + config.Storage.Provider +
		", catalog " + config.Catalog.Provider + ", registry " + config.Registry.Provider)
	return services, nil
}

func NewStore(ctx context.Context, config models.Config) (storage.Store, error) {
	switch config.Storage.Provider {
	case "filesystem":
		return storage.NewFilesystemStore(config.Storage.Directory, config.BaseURL)
	case "minio":
		return storage.NewMinioStore(config.S3)
	case "s3":
		return storage.NewS3Store(ctx, config.S3)
	}
	return nil, errors.New("unknown storage provider: " + config.Storage.Provider)
}

func NewCatalog(config models.Config) (catalog.Catalog, error) {
	switch config.Catalog.Provider {
	case "badger":
		return catalog.NewBadgerCatalog(config.Catalog.Directory)
	case "redis":
		return catalog.NewRedisCatalog(config.Catalog.RedisURL)
	}
	return nil, errors.New("unknown catalog provider: " + config.Catalog.Provider)
}

func NewResolver(config models.Config) (*registry.Resolver, error) {
	switch config.Registry.Provider {
	case "static":
		return registry.NewResolver(registry.NewStaticRegistry(config.Buildings)), nil
	case "mongodb":
		client := database.New()
		return registry.NewResolver(registry.NewMongoRegistry(client.Client, database.DatabaseName, config.Registry.Collection)), nil
	}
	return nil, errors.New("unknown registry provider: " + config.Registry.Provider)
}

func NewOutputs(config models.Config) []outputs.Output {
	var list []outputs.Output
	if config.Outputs.MQTTURI != "" {
		list = append(list, outputs.NewMQTTOutput(config.Outputs, "media-"+config.Name))
	}
	if config.Outputs.NATSURI != "" {
		output, err := outputs.NewNATSOutput(config.Outputs.NATSURI)
		if err != nil {
			log.Log.Error("components.Media.NewOutputs(): " + err.Error())
		} else {
			list = append(list, output)
		}
	}
	if config.Outputs.WebhookURI != "" {
		list = append(list, outputs.NewWebhookOutput(config.Outputs.WebhookURI))
	}
	return list
}

// Close flushes pending events and releases the catalog.
func (s *Services) Close() {
	s.Ready.UnSet()
	s.Outputs.Close()
	if err := s.Catalog.Close(); err != nil {
		log.Log.Error("components.Media.Close(): " + err.Error())
	}
	if err := database.Disconnect(context.Background()); err != nil {
		log.Log.Error("components.Media.Close(): " + err.Error())
	}
}
