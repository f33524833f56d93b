package database

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/kerberos-io/media/src/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DB struct {
	Client *mongo.Client
}

var _init_ctx sync.Once
var _instance *DB
var DatabaseName = "KerberosMedia"

// New returns the shared MongoDB client. The connection settings are read
// from MONGODB_URI, or from MONGODB_HOST and its credential variables.
func New() *DB {
	_init_ctx.Do(func() {
		if name := os.Getenv("MONGODB_DATABASE"); name != "" {
			DatabaseName = name
		}

		clientOptions := options.Client().SetConnectTimeout(3 * time.Second)
		if uri := os.Getenv("MONGODB_URI"); uri != "" {
			clientOptions.ApplyURI(uri)
		} else {
			clientOptions.SetHosts(strings.Split(os.Getenv("MONGODB_HOST"), ","))
			username := os.Getenv("MONGODB_USERNAME")
			if username != "" {
				clientOptions.SetAuth(options.Credential{
					AuthSource: os.Getenv("MONGODB_DATABASE_CREDENTIALS"),
					Username:   username,
					Password:   os.Getenv("MONGODB_PASSWORD"),
				})
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(ctx, clientOptions)
		if err != nil {
			log.Log.Fatal("database.main.New(): could not connect to mongodb: " + err.Error())
		}
		_instance = &DB{Client: client}
	})
	return _instance
}

// Disconnect closes the shared client, if it was ever opened.
func Disconnect(ctx context.Context) error {
	if _instance == nil || _instance.Client == nil {
		return nil
	}
	return _instance.Client.Disconnect(ctx)
}
