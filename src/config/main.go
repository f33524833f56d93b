package config

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/InVisionApp/conjungo"
	"github.com/joho/godotenv"
	"github.com/kerberos-io/media/src/database"
	"github.com/kerberos-io/media/src/log"
	"github.com/kerberos-io/media/src/models"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	DefaultMaxSnapshotSize = 960000
	DefaultPresignedTTL    = 900
)

// LoadEnvironment reads .env and then .env.<ENV> from directory. Values of
// the second file win, variables that are already exported win over both.
func LoadEnvironment(directory string) {
	if err := godotenv.Load(filepath.Join(directory, ".env")); err == nil {
		log.Log.Info("config.main.LoadEnvironment(): loaded .env")
	}
	if environment := os.Getenv("ENV"); environment != "" {
		name := ".env." + environment
		if err := godotenv.Overload(filepath.Join(directory, name)); err == nil {
			log.Log.Info("config.main.LoadEnvironment(): loaded " + name)
		}
	}
}

func OpenConfig(configDirectory string, configuration *models.Configuration) error {

	// We are checking which deployment this is running, so we can load
	// into the configuration as expected.

	if os.Getenv("DEPLOYMENT") == "factory" {

		// Factory deployment means that configuration is stored in MongoDB,
		// one global document and a document per deployment.
		client := database.New()
		collection := client.Client.Database(database.DatabaseName).Collection("configuration")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var globalConfig models.Config
		res := collection.FindOne(ctx, bson.M{
			"type": "global",
		})
		if res.Err() != nil {
			return errors.New("could not find global configuration: " + res.Err().Error())
		}
		if err := res.Decode(&globalConfig); err != nil {
			return errors.New("could not decode global configuration: " + err.Error())
		}
		configuration.GlobalConfig = globalConfig

		var customConfig models.Config
		deploymentName := os.Getenv("DEPLOYMENT_NAME")
		res = collection.FindOne(ctx, bson.M{
			"type": "config",
			"name": deploymentName,
		})
		if res.Err() != nil {
			log.Log.Warning("config.main.OpenConfig(): could not find configuration for " + deploymentName + ", using global configuration.")
		} else if err := res.Decode(&customConfig); err != nil {
			log.Log.Warning("config.main.OpenConfig(): could not decode configuration for " + deploymentName + ", using global configuration.")
		}
		configuration.CustomConfig = customConfig

		configuration.Config = Merge(configuration.GlobalConfig, configuration.CustomConfig)
		return nil
	}

	// Stand-alone deployment, the configuration is a json file.
	path := filepath.Join(configDirectory, "data", "config", "config.json")
	byteValue, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Log.Warning("config.main.OpenConfig(): " + path + " not found, using defaults and environment variables.")
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(byteValue, &configuration.Config); err != nil {
		return errors.New("JSON file not valid: " + err.Error())
	}
	configuration.CustomConfig = configuration.Config
	log.Log.Info("config.main.OpenConfig(): successfully opened " + path)
	return nil
}

func mergeOptions() *conjungo.Options {
	opts := conjungo.NewOptions()
	opts.SetTypeMergeFunc(
		reflect.TypeOf(""),
		func(t, s reflect.Value, o *conjungo.Options) (reflect.Value, error) {
			targetStr, _ := t.Interface().(string)
			sourceStr, _ := s.Interface().(string)
			finalStr := targetStr
			if sourceStr != "" {
				finalStr = sourceStr
			}
			return reflect.ValueOf(finalStr), nil
		},
	)
	opts.SetTypeMergeFunc(
		reflect.TypeOf(int64(0)),
		func(t, s reflect.Value, o *conjungo.Options) (reflect.Value, error) {
			targetInt, _ := t.Interface().(int64)
			sourceInt, _ := s.Interface().(int64)
			if sourceInt != 0 {
				return reflect.ValueOf(sourceInt), nil
			}
			return reflect.ValueOf(targetInt), nil
		},
	)
	return opts
}

// Merge lays the custom configuration over the global one. Non empty
// values of the custom document win.
func Merge(global models.Config, custom models.Config) models.Config {
	opts := mergeOptions()

	var config models.Config
	conjungo.Merge(&config, global, opts)
	conjungo.Merge(&config, custom, opts)

	// Sections are pointers, merge them one by one.
	config.Tokens = mergeSection(global.Tokens, custom.Tokens, opts)
	config.Limits = mergeSection(global.Limits, custom.Limits, opts)
	config.Storage = mergeSection(global.Storage, custom.Storage, opts)
	config.S3 = mergeSection(global.S3, custom.S3, opts)
	config.Catalog = mergeSection(global.Catalog, custom.Catalog, opts)
	config.Registry = mergeSection(global.Registry, custom.Registry, opts)
	config.Outputs = mergeSection(global.Outputs, custom.Outputs, opts)

	// Buildings are a list, the custom list replaces the global one.
	config.Buildings = global.Buildings
	if len(custom.Buildings) > 0 {
		config.Buildings = custom.Buildings
	}
	return config
}

func mergeSection[T any](global *T, custom *T, opts *conjungo.Options) *T {
	var section T
	if global != nil {
		conjungo.Merge(&section, *global, opts)
	}
	if custom != nil {
		conjungo.Merge(&section, *custom, opts)
	}
	return &section
}

// ApplyDefaults fills whatever was not configured.
func ApplyDefaults(configDirectory string, configuration *models.Configuration) {
	config := &configuration.Config
	if config.Name == "" {
		config.Name = configuration.Name
	}
	if config.Timezone == "" {
		config.Timezone = "UTC"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogOutput == "" {
		config.LogOutput = "logrus"
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:" + configuration.Port
	}
	ensureSections(config)
	if config.Limits.MaxSnapshotSize == 0 {
		config.Limits.MaxSnapshotSize = DefaultMaxSnapshotSize
	}
	if config.Storage.Provider == "" {
		config.Storage.Provider = "filesystem"
	}
	if config.Storage.Directory == "" {
		config.Storage.Directory = filepath.Join(configDirectory, "data", "media")
	}
	if config.Storage.SpoolDir == "" {
		config.Storage.SpoolDir = os.TempDir()
	}
	if config.S3.PresignedTTL == 0 {
		config.S3.PresignedTTL = DefaultPresignedTTL
	}
	if config.Catalog.Provider == "" {
		config.Catalog.Provider = "badger"
	}
	if config.Catalog.Directory == "" {
		config.Catalog.Directory = filepath.Join(configDirectory, "data", "catalog")
	}
	if config.Registry.Provider == "" {
		config.Registry.Provider = "static"
	}
}

// This function will override the configuration with environment variables.
func OverrideWithEnvironmentVariables(configuration *models.Configuration) {
	config := &configuration.Config
	ensureSections(config)

	// The names used by the gateways and client applications.
	if value := os.Getenv("CLIENT_JWT_SECRET"); value != "" {
		config.Tokens.ClientSecret = value
	}
	if value := os.Getenv("GATEWAY_JWT_SECRET"); value != "" {
		config.Tokens.GatewaySecret = value
	} else if value := os.Getenv("GETWAY_JWT_SECRET"); value != "" {
		config.Tokens.GatewaySecret = value
	}

	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "MEDIA_") {
			continue
		}
		key := strings.SplitN(env, "=", 2)[0]
		value := os.Getenv(key)
		switch key {

		/* General configuration */
		case "MEDIA_KEY":
			config.Key = value
		case "MEDIA_NAME":
			config.Name = value
		case "MEDIA_TIMEZONE":
			config.Timezone = value
		case "MEDIA_LOG_LEVEL":
			config.LogLevel = value
		case "MEDIA_LOG_OUTPUT":
			config.LogOutput = value
		case "MEDIA_BASE_URL":
			config.BaseURL = value

		/* Signing secrets */
		case "MEDIA_CLIENT_JWT_SECRET":
			config.Tokens.ClientSecret = value
		case "MEDIA_GATEWAY_JWT_SECRET":
			config.Tokens.GatewaySecret = value

		/* Upload ceilings */
		case "MEDIA_MAX_SNAPSHOT_SIZE":
			if size, err := strconv.ParseInt(value, 10, 64); err == nil {
				config.Limits.MaxSnapshotSize = size
			}
		case "MEDIA_MAX_RECORDING_SIZE":
			if size, err := strconv.ParseInt(value, 10, 64); err == nil {
				config.Limits.MaxRecordingSize = size
			}

		/* Blob storage */
		case "MEDIA_STORAGE_PROVIDER":
			config.Storage.Provider = value
		case "MEDIA_STORAGE_DIRECTORY":
			config.Storage.Directory = value
		case "MEDIA_STORAGE_SPOOL_DIRECTORY":
			config.Storage.SpoolDir = value
		case "MEDIA_S3_ENDPOINT":
			config.S3.Endpoint = value
		case "MEDIA_S3_REGION":
			config.S3.Region = value
		case "MEDIA_S3_BUCKET":
			config.S3.Bucket = value
		case "MEDIA_S3_ACCESS_KEY":
			config.S3.AccessKey = value
		case "MEDIA_S3_SECRET_KEY":
			config.S3.SecretKey = value
		case "MEDIA_S3_SECURE":
			config.S3.Secure = value
		case "MEDIA_S3_PATH_STYLE":
			config.S3.PathStyle = value
		case "MEDIA_S3_PROXY_URI":
			config.S3.ProxyURI = value
		case "MEDIA_S3_PRESIGNED_TTL":
			if ttl, err := strconv.ParseInt(value, 10, 64); err == nil {
				config.S3.PresignedTTL = ttl
			}

		/* Catalog */
		case "MEDIA_CATALOG_PROVIDER":
			config.Catalog.Provider = value
		case "MEDIA_CATALOG_DIRECTORY":
			config.Catalog.Directory = value
		case "MEDIA_CATALOG_REDIS_URL":
			config.Catalog.RedisURL = value

		/* Registry */
		case "MEDIA_REGISTRY_PROVIDER":
			config.Registry.Provider = value
		case "MEDIA_REGISTRY_COLLECTION":
			config.Registry.Collection = value
		case "MEDIA_BUILDINGS":
			config.Buildings = parseBuildings(value)

		/* Outputs */
		case "MEDIA_MQTT_URI":
			config.Outputs.MQTTURI = value
		case "MEDIA_MQTT_USERNAME":
			config.Outputs.MQTTUsername = value
		case "MEDIA_MQTT_PASSWORD":
			config.Outputs.MQTTPassword = value
		case "MEDIA_NATS_URI":
			config.Outputs.NATSURI = value
		case "MEDIA_WEBHOOK_URI":
			config.Outputs.WebhookURI = value
		}
	}
}

func ensureSections(config *models.Config) {
	if config.Tokens == nil {
		config.Tokens = &models.Tokens{}
	}
	if config.Limits == nil {
		config.Limits = &models.Limits{}
	}
	if config.Storage == nil {
		config.Storage = &models.Storage{}
	}
	if config.S3 == nil {
		config.S3 = &models.S3{}
	}
	if config.Catalog == nil {
		config.Catalog = &models.Catalog{}
	}
	if config.Registry == nil {
		config.Registry = &models.Registry{}
	}
	if config.Outputs == nil {
		config.Outputs = &models.Outputs{}
	}
}

// parseBuildings reads b1:c1,c2;b2:c3 into buildings.
func parseBuildings(value string) []models.Building {
	var buildings []models.Building
	for _, entry := range strings.Split(value, ";") {
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			continue
		}
		building := models.Building{Id: strings.TrimSpace(parts[0])}
		for _, cameraId := range strings.Split(parts[1], ",") {
			if cameraId = strings.TrimSpace(cameraId); cameraId != "" {
				building.Cameras = append(building.Cameras, cameraId)
			}
		}
		buildings = append(buildings, building)
	}
	return buildings
}
