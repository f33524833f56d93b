package outputs

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/kerberos-io/media/src/log"
	"github.com/kerberos-io/media/src/models"
)

// MQTTOutput publishes on kerberos/media/<buildingId>/<cameraId>/<kind>.
type MQTTOutput struct {
	client mqtt.Client
}

func NewMQTTOutput(config *models.Outputs, clientID string) *MQTTOutput {
	opts := mqtt.NewClientOptions()

	// We will set the MQTT endpoint to which we want to connect.
	opts.AddBroker(config.MQTTURI)
	log.Log.Info("outputs.mqtt.NewMQTTOutput(): set broker uri " + config.MQTTURI)

	if config.MQTTUsername != "" || config.MQTTPassword != "" {
		opts.SetUsername(config.MQTTUsername)
		opts.SetPassword(config.MQTTPassword)
		log.Log.Info("outputs.mqtt.NewMQTTOutput(): set username " + config.MQTTUsername)
	}

	opts.SetClientID(clientID + "-" + strconv.FormatInt(time.Now().UnixNano()%10000, 10))
	opts.SetCleanSession(true)
	opts.SetConnectRetry(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(30 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.WaitTimeout(3 * time.Second) {
		if token.Error() != nil {
			log.Log.Error("outputs.mqtt.NewMQTTOutput(): unable to establish mqtt broker connection, error was: " + token.Error().Error())
		}
	}
	return &MQTTOutput{client: client}
}

func (m *MQTTOutput) Name() string {
	return "mqtt"
}

func Topic(message models.OutputMessage) string {
	return "kerberos/media/" + message.BuildingId + "/" + message.CameraId + "/" + string(message.Kind)
}

func (m *MQTTOutput) Trigger(message models.OutputMessage) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	token := m.client.Publish(Topic(message), 0, false, payload)
	if !token.WaitTimeout(3 * time.Second) {
		return errors.New("mqtt publish timed out")
	}
	return token.Error()
}

func (m *MQTTOutput) Close() {
	m.client.Disconnect(1000)
}
