package rabbitmq

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	model_msg "network-rrd/models/msg"
	model_device "network-rrd/models/network_device"

	"github.com/streadway/amqp"
)

const MsgType = "interfaces"

type Connection struct {
	Config Config
	Conn   *amqp.Connection
}

type Config struct {
	Url             string
	SSLCACrtPem     string
	SSLClientCrtPem string
	SSLClientKeyPem string
}

// ConfigFromFiles reads the PEM files named by the paths; empty paths are
// skipped.
func ConfigFromFiles(url, caCrt, clientCrt, clientKey string) (Config, error) {
	config := Config{Url: url}
	for _, f := range []struct {
		path string
		dst  *string
	}{
		{caCrt, &config.SSLCACrtPem},
		{clientCrt, &config.SSLClientCrtPem},
		{clientKey, &config.SSLClientKeyPem},
	} {
		if f.path == "" {
			continue
		}
		b, err := os.ReadFile(f.path)
		if err != nil {
			return config, fmt.Errorf("read %s: %w", f.path, err)
		}
		*f.dst = string(b)
	}
	return config, nil
}

func (c Config) UseTLS() bool {
	return c.SSLClientCrtPem != "" && c.SSLClientKeyPem != ""
}

func NewConnection(config Config) (Connection, error) {
	if config.UseTLS() {
		return NewConnectionWithTLS(config)
	}
	amqpConn, err := amqp.Dial(config.Url)
	if err != nil {
		return Connection{}, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	return Connection{Config: config, Conn: amqpConn}, nil
}

func NewConnectionWithTLS(config Config) (Connection, error) {
	cert, err := tls.X509KeyPair([]byte(config.SSLClientCrtPem), []byte(config.SSLClientKeyPem))
	if err != nil {
		return Connection{}, fmt.Errorf("failed to load x509 key pair: %w", err)
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
	}
	if config.SSLCACrtPem != "" {
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM([]byte(config.SSLCACrtPem)) {
			return Connection{}, errors.New("no certificates found in ca pem")
		}
		tlsConfig.RootCAs = caCertPool
	}

	amqpConn, err := amqp.DialTLS(config.Url, tlsConfig)
	if err != nil {
		return Connection{}, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	return Connection{Config: config, Conn: amqpConn}, nil
}

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Controller publishes finished device reports to one queue.
type Controller struct {
	Channel Channel
	Queue   amqp.Queue
}

func NewCtrl() *Controller {
	return &Controller{}
}

func (ctrl *Controller) OpenChannel(name string, amqpConn *amqp.Connection) error {
	ch, err := amqpConn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open a channel: %w", err)
	}
	if err := ctrl.SetupChannelAndQueue(name, ch); err != nil {
		_ = ch.Close()
		return err
	}
	return nil
}

func (ctrl *Controller) SetupChannelAndQueue(name string, ch Channel) error {
	q, err := ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", name, err)
	}

	ctrl.Channel = ch
	ctrl.Queue = q
	return nil
}

func (ctrl *Controller) Name() string {
	return "rabbitmq"
}

func (ctrl *Controller) Write(_ context.Context, device *model_device.NetworkDevice) error {
	jsonData, err := json.Marshal(device)
	if err != nil {
		return fmt.Errorf("cannot encode device report: %w", err)
	}
	msg := model_msg.Msg{Type: MsgType, Time: device.Time.Unix(), Data: string(jsonData)}
	return ctrl.publishMsg(msg)
}

func (ctrl *Controller) Close() error {
	if ctrl.Channel == nil {
		return nil
	}
	return ctrl.Channel.Close()
}

// publishMsg sends msg as base64-encoded JSON.
func (ctrl *Controller) publishMsg(msg model_msg.Msg) error {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("cannot encode message: %w", err)
	}
	encodedMsg := base64.StdEncoding.EncodeToString(jsonData)

	err = ctrl.Channel.Publish(
		"",              // exchange
		ctrl.Queue.Name, // routing key
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType: "text/plain",
			Body:        []byte(encodedMsg),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", ctrl.Queue.Name, err)
	}
	return nil
}

// DecodeMsg reverses publishMsg.
func DecodeMsg(body []byte) (model_msg.Msg, error) {
	var msg model_msg.Msg
	decoded, err := base64.StdEncoding.DecodeString(string(body))
	if err != nil {
		return msg, fmt.Errorf("unable to decode base64 data: %w", err)
	}
	if err := json.Unmarshal(decoded, &msg); err != nil {
		return msg, fmt.Errorf("unable to parse json data: %w", err)
	}
	return msg, nil
}
