package outputs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kerberos-io/media/src/log"
	"github.com/kerberos-io/media/src/models"
	"github.com/nats-io/nats.go"
)

// NATSOutput publishes on media.<kind>.stored.
type NATSOutput struct {
	nc *nats.Conn
}

func NewNATSOutput(natsURL string) (*NATSOutput, error) {
	nc, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Log.Warning("outputs.nats.NewNATSOutput(): disconnected: " + err.Error())
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Log.Info("outputs.nats.NewNATSOutput(): reconnected to " + nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Log.Info("outputs.nats.NewNATSOutput(): connected to " + natsURL)
	return &NATSOutput{nc: nc}, nil
}

func (n *NATSOutput) Name() string {
	return "nats"
}

func Subject(message models.OutputMessage) string {
	return "media." + string(message.Kind) + ".stored"
}

func (n *NATSOutput) Trigger(message models.OutputMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := n.nc.Publish(Subject(message), data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (n *NATSOutput) Close() {
	if n.nc != nil {
		n.nc.Close()
	}
}
