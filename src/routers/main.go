package routers

import (
	"context"

	"github.com/kerberos-io/media/src/components"
	"github.com/kerberos-io/media/src/models"
	"github.com/kerberos-io/media/src/routers/http"
)

func StartWebserver(ctx context.Context, configuration *models.Configuration, services *components.Services) error {
	return http.StartServer(ctx, configuration, services)
}
