package publish

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squitterator/internal/aircraft"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func summary(icao string) aircraft.Summary {
	alt := 38000
	return aircraft.Summary{ICAO: icao, Country: "NL", Identification: "KLM1023", Altitude: &alt}
}

// fakeToken completes immediately with err
type fakeToken struct {
	err  error
	done chan struct{}
}

func newFakeToken(err error) *fakeToken {
	t := &fakeToken{err: err, done: make(chan struct{})}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakeClient records publishes; unused methods panic through the nil
// embedded interface
type fakeClient struct {
	mqtt.Client
	mutex        sync.Mutex
	messages     []published
	err          error
	connected    bool
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.messages = append(c.messages, published{topic: topic, qos: qos, retained: retained, payload: payload.([]byte)})
	return newFakeToken(c.err)
}

func (c *fakeClient) IsConnected() bool { return c.connected }

func (c *fakeClient) Disconnect(uint) { c.disconnected = true }

type fakeConn struct {
	subjects []string
	payloads [][]byte
	err      error
	drained  bool
}

func (c *fakeConn) Publish(subject string, data []byte) error {
	if c.err != nil {
		return c.err
	}
	c.subjects = append(c.subjects, subject)
	c.payloads = append(c.payloads, data)
	return nil
}

func (c *fakeConn) Drain() error {
	c.drained = true
	return nil
}

type fakeRecorder struct {
	published map[string]int
	failed    map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{published: map[string]int{}, failed: map[string]int{}}
}

func (r *fakeRecorder) Published(sink string)     { r.published[sink]++ }
func (r *fakeRecorder) PublishFailed(sink string) { r.failed[sink]++ }

// TestMarshal tests the payload layout
func TestMarshal(t *testing.T) {
	data, err := Marshal(summary("4840D6"), epoch)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(epoch.Unix()), decoded["timestamp"])

	ac, ok := decoded["aircraft"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "4840D6", ac["icao"])
	assert.Equal(t, "KLM1023", ac["ident"])
	assert.Equal(t, float64(38000), ac["altitude"])
	assert.NotContains(t, ac, "squawk")
}

// TestMQTTPublisher tests topics and broker errors
func TestMQTTPublisher(t *testing.T) {
	client := &fakeClient{connected: true}
	p := newMQTTPublisher(client, MQTTConfig{QoS: 1, Retain: true}, newTestLogger())
	p.now = func() time.Time { return epoch }

	assert.Equal(t, "mqtt", p.Name())
	assert.Equal(t, "squitterator/aircraft/4840D6", p.Topic("4840D6"))

	require.NoError(t, p.Publish(context.Background(), summary("4840D6")))
	require.Len(t, client.messages, 1)
	msg := client.messages[0]
	assert.Equal(t, "squitterator/aircraft/4840D6", msg.topic)
	assert.Equal(t, byte(1), msg.qos)
	assert.True(t, msg.retained)

	var payload Payload
	require.NoError(t, json.Unmarshal(msg.payload, &payload))
	assert.Equal(t, epoch.Unix(), payload.Timestamp)
	assert.Equal(t, "4840D6", payload.Aircraft.ICAO)

	client.err = errors.New("not authorised")
	err := p.Publish(context.Background(), summary("3949E0"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authorised")

	require.NoError(t, p.Close())
	assert.True(t, client.disconnected)
}

// TestMQTTPublisher_CustomPrefix tests the topic prefix setting
func TestMQTTPublisher_CustomPrefix(t *testing.T) {
	p := newMQTTPublisher(&fakeClient{}, MQTTConfig{TopicPrefix: "adsb/home"}, newTestLogger())
	assert.Equal(t, "adsb/home/A05F21", p.Topic("A05F21"))
}

// TestNewMQTTPublisher_NoBroker tests configuration validation
func TestNewMQTTPublisher_NoBroker(t *testing.T) {
	_, err := NewMQTTPublisher(MQTTConfig{}, newTestLogger())
	assert.Error(t, err)
}

// TestNATSPublisher tests subjects and the drain on close
func TestNATSPublisher(t *testing.T) {
	conn := &fakeConn{}
	p := newNATSPublisher(conn, NATSConfig{}, newTestLogger())

	assert.Equal(t, "nats", p.Name())
	require.NoError(t, p.Publish(context.Background(), summary("4840D6")))
	assert.Equal(t, []string{"squitterator.aircraft.4840D6"}, conn.subjects)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, summary("4840D6")), context.Canceled)
	assert.Len(t, conn.subjects, 1)

	conn.err = errors.New("connection closed")
	assert.Error(t, p.Publish(context.Background(), summary("4840D6")))

	require.NoError(t, p.Close())
	assert.True(t, conn.drained)
}

// TestFanout tests delivery to every sink with rate limiting
func TestFanout(t *testing.T) {
	client := &fakeClient{connected: true}
	conn := &fakeConn{}
	recorder := newFakeRecorder()
	fanout := NewFanout([]Publisher{
		newMQTTPublisher(client, MQTTConfig{}, newTestLogger()),
		newNATSPublisher(conn, NATSConfig{}, newTestLogger()),
	}, 5*time.Second, recorder, newTestLogger())
	ctx := context.Background()

	assert.Equal(t, 2, fanout.Len())
	assert.True(t, fanout.Publish(ctx, summary("4840D6"), epoch))
	assert.False(t, fanout.Publish(ctx, summary("4840D6"), epoch.Add(time.Second)), "within the interval")
	assert.True(t, fanout.Publish(ctx, summary("3949E0"), epoch.Add(time.Second)), "other aircraft")
	assert.True(t, fanout.Publish(ctx, summary("4840D6"), epoch.Add(5*time.Second)))

	fanout.Forget("3949E0")
	assert.True(t, fanout.Publish(ctx, summary("3949E0"), epoch.Add(2*time.Second)))

	assert.Len(t, client.messages, 4)
	assert.Len(t, conn.subjects, 4)
	assert.Equal(t, 4, recorder.published["mqtt"])
	assert.Equal(t, 4, recorder.published["nats"])

	conn.err = errors.New("slow consumer")
	assert.True(t, fanout.Publish(ctx, summary("A05F21"), epoch))
	assert.Equal(t, 5, recorder.published["mqtt"], "one failing sink does not stop the others")
	assert.Equal(t, 1, recorder.failed["nats"])

	require.NoError(t, fanout.Close())
	assert.True(t, client.disconnected)
	assert.True(t, conn.drained)
}

// TestFanout_Empty tests that no sinks means nothing is sent
func TestFanout_Empty(t *testing.T) {
	fanout := NewFanout(nil, time.Second, nil, newTestLogger())
	assert.False(t, fanout.Publish(context.Background(), summary("4840D6"), epoch))
	assert.NoError(t, fanout.Close())
}
