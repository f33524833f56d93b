package outputs

import (
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/kerberos-io/media/src/log"
	"github.com/kerberos-io/media/src/models"
	"github.com/kerberos-io/media/src/timestamp"
)

const EventStored = "artifact.stored"

type Output interface {
	Name() string
	// Triggers the integration
	Trigger(message models.OutputMessage) error
}

// Dispatcher fans a stored artifact out to every configured output. A
// failing output is logged, it never fails the upload that caused it.
type Dispatcher struct {
	outputs []Output
	mu      sync.Mutex
	closed  bool
	wg      sync.WaitGroup
}

func NewDispatcher(outputs ...Output) *Dispatcher {
	return &Dispatcher{outputs: outputs}
}

func (d *Dispatcher) Outputs() []Output {
	return d.outputs
}

func NewMessage(artifact models.Artifact) models.OutputMessage {
	message := models.OutputMessage{
		Event:      EventStored,
		Kind:       artifact.Kind,
		BuildingId: artifact.BuildingId,
		CameraId:   artifact.CameraId,
		Filename:   artifact.Timestamp.Format(timestamp.Layout) + artifact.Extension,
		Key:        artifact.Key,
		Size:       artifact.Size,
		Timestamp:  time.Now().UTC(),
	}
	if id, err := uuid.NewV4(); err == nil {
		message.Id = id.String()
	}
	return message
}

// Notify triggers all outputs in the background. After Close it drops
// the artifact.
func (d *Dispatcher) Notify(artifact models.Artifact) {
	if len(d.outputs) == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		log.Log.Warning("outputs.main.Notify(): dispatcher closed, dropping event for " + artifact.Key)
		return
	}
	message := NewMessage(artifact)
	for _, output := range d.outputs {
		d.wg.Add(1)
		go func(output Output) {
			defer d.wg.Done()
			Execute(output, message)
		}(output)
	}
}

func Execute(output Output, message models.OutputMessage) error {
	err := output.Trigger(message)
	if err == nil {
		log.Log.Debug("outputs.main.Execute(" + output.Name() + "): message was processed by output.")
	} else {
		log.Log.Error("outputs.main.Execute(" + output.Name() + "): " + err.Error())
	}
	return err
}

// Close waits for pending triggers and closes the outputs that hold a
// connection.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.wg.Wait()
	for _, output := range d.outputs {
		if closer, ok := output.(interface{ Close() }); ok {
			closer.Close()
		}
	}
}
