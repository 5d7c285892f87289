package publish

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"squitterator/internal/aircraft"
)

// DefaultTopicPrefix is prepended to the ICAO address of each update
const DefaultTopicPrefix = "squitterator/aircraft"

const disconnectQuiesce = 250 // milliseconds

// MQTTConfig holds the broker settings
type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`
	Retain      bool   `yaml:"retain"`
}

// MQTTPublisher publishes each aircraft to <prefix>/<ICAO>
type MQTTPublisher struct {
	client mqtt.Client
	config MQTTConfig
	logger *logrus.Logger
	now    func() time.Time
}

func clientID() string {
	return "squitterator_" + uuid.NewString()[:8]
}

// NewMQTTPublisher connects to the broker
func NewMQTTPublisher(config MQTTConfig, logger *logrus.Logger) (*MQTTPublisher, error) {
	if config.Broker == "" {
		return nil, fmt.Errorf("no MQTT broker configured")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(clientID())
	if config.Username != "" {
		opts.SetUsername(config.Username)
	}
	if config.Password != "" {
		opts.SetPassword(config.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(10 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(mqtt.Client) {
		logger.WithField("broker", config.Broker).Info("MQTT connected")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.WithError(err).Warn("MQTT connection lost")
	})
	opts.SetReconnectingHandler(func(mqtt.Client, *mqtt.ClientOptions) {
		logger.Debug("MQTT reconnecting")
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return newMQTTPublisher(client, config, logger), nil
}

func newMQTTPublisher(client mqtt.Client, config MQTTConfig, logger *logrus.Logger) *MQTTPublisher {
	if config.TopicPrefix == "" {
		config.TopicPrefix = DefaultTopicPrefix
	}
	return &MQTTPublisher{client: client, config: config, logger: logger, now: time.Now}
}

// Name identifies the sink in logs and metrics
func (p *MQTTPublisher) Name() string { return "mqtt" }

// Topic returns the topic of an aircraft
func (p *MQTTPublisher) Topic(icao string) string {
	return p.config.TopicPrefix + "/" + icao
}

// Publish sends one summary and waits for the broker, or for ctx
func (p *MQTTPublisher) Publish(ctx context.Context, s aircraft.Summary) error {
	data, err := Marshal(s, p.now())
	if err != nil {
		return err
	}

	token := p.client.Publish(p.Topic(s.ICAO), p.config.QoS, p.config.Retain, data)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.Topic(s.ICAO), err)
	}
	return nil
}

// Close disconnects from the broker
func (p *MQTTPublisher) Close() error {
	if p.client.IsConnected() {
		p.client.Disconnect(disconnectQuiesce)
		p.logger.Info("MQTT disconnected")
	}
	return nil
}
