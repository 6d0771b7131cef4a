// Package mqttfeed renders and recolors histograms from MQTT messages.
//
// A JSON render request published on <prefix>/<surface>/render draws the
// surface, a recolor request on <prefix>/<surface>/recolor changes its color
// range. The outcome of every request is published on
// <prefix>/<surface>/status.
package mqttfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/icodeforyou/histoplot-go/config"
	"github.com/icodeforyou/histoplot-go/histogram"
)

const (
	opRender  = "render"
	opRecolor = "recolor"
	opStatus  = "status"

	defaultPort    = 1883
	requestTimeout = 10 * time.Second
)

type Controller interface {
	Render(ctx context.Context, req histogram.RenderRequest) (*histogram.Plot, error)
	Recolor(ctx context.Context, req histogram.RecolorRequest) (*histogram.Plot, error)
}

// Status is published after each request.
type Status struct {
	Op      string `json:"op"`
	Surface string `json:"surface"`
	Ok      bool   `json:"ok"`
	Bars    int    `json:"bars,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Feed struct {
	mqttClient mqtt.Client
	logger     *slog.Logger
	ctrl       Controller
	prefix     string
}

func New(logger *slog.Logger, cfg config.AppConfigMqtt, ctrl Controller) *Feed {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Host, port))
	opts.SetClientID(cfg.GetClientId())
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", slog.Any("error", err))
	}

	f := &Feed{
		logger: logger,
		ctrl:   ctrl,
		prefix: cfg.GetTopicPrefix(),
	}

	// Subscriptions are made on every (re)connect since the session is not
	// kept by the broker.
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("MQTT connected")
		if err := f.subscribe(client); err != nil {
			logger.Error("MQTT subscribe failed", slog.Any("error", err))
		}
	}

	setPahoLoggers(logger.With("module", "mqtt"))

	f.mqttClient = mqtt.NewClient(opts)
	return f
}

func (f *Feed) topics() map[string]byte {
	return map[string]byte{
		f.prefix + "/+/" + opRender:  0,
		f.prefix + "/+/" + opRecolor: 0,
	}
}

func (f *Feed) Connect() error {
	f.logger.Debug("connecting MQTT client")
	if token := f.mqttClient.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (f *Feed) subscribe(client mqtt.Client) error {
	token := client.SubscribeMultiple(f.topics(), func(client mqtt.Client, msg mqtt.Message) {
		status := f.handleMessage(msg.Topic(), msg.Payload())
		if status.Surface == "" {
			return
		}
		f.publishStatus(client, status)
	})
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

func (f *Feed) publishStatus(client mqtt.Client, status Status) {
	buf, err := json.Marshal(status)
	if err != nil {
		f.logger.Error("encoding status", slog.Any("error", err))
		return
	}
	token := client.Publish(f.prefix+"/"+status.Surface+"/"+opStatus, 0, false, buf)
	if !token.WaitTimeout(5 * time.Second) {
		f.logger.Warn("timeout when publishing status", slog.String("surface", status.Surface))
	} else if token.Error() != nil {
		f.logger.Warn("error when publishing status", slog.String("surface", status.Surface), slog.Any("error", token.Error()))
	}
}

// parseTopic splits <prefix>/<surface>/<op>.
func (f *Feed) parseTopic(topic string) (surface, op string, ok bool) {
	rest, found := strings.CutPrefix(topic, f.prefix+"/")
	if !found {
		return "", "", false
	}
	surface, op, found = strings.Cut(rest, "/")
	if !found || surface == "" || strings.Contains(op, "/") {
		return "", "", false
	}
	return surface, op, true
}

// handleMessage runs the request in payload. The surface of the topic wins
// over one in the payload. A zero Status means the topic was not ours.
func (f *Feed) handleMessage(topic string, payload []byte) Status {
	surface, op, ok := f.parseTopic(topic)
	if !ok {
		f.logger.Warn("unknown topic", "topic", topic)
		return Status{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	status := Status{Op: op, Surface: surface}
	var p *histogram.Plot
	var err error

	switch op {
	case opRender:
		var req histogram.RenderRequest
		if err = json.Unmarshal(payload, &req); err == nil {
			req.Surface = surface
			p, err = f.ctrl.Render(ctx, req)
		}
	case opRecolor:
		var req histogram.RecolorRequest
		if err = json.Unmarshal(payload, &req); err == nil {
			req.Surface = surface
			p, err = f.ctrl.Recolor(ctx, req)
		}
	default:
		f.logger.Warn("unknown operation", "topic", topic)
		return Status{}
	}

	if err != nil {
		f.logger.Warn("MQTT request failed", slog.String("topic", topic), slog.Any("error", err))
		status.Error = err.Error()
		return status
	}

	status.Ok = true
	status.Bars = len(p.Points())
	f.logger.Debug("MQTT request handled", slog.String("topic", topic), slog.Int("bars", status.Bars))
	return status
}

func (f *Feed) Disconnect() {
	f.logger.Info("disconnecting MQTT client")

	topics := f.topics()
	keys := make([]string, 0, len(topics))
	for k := range topics {
		keys = append(keys, k)
	}
	token := f.mqttClient.Unsubscribe(keys...)
	token.WaitTimeout(1 * time.Second)
	if token.Error() != nil {
		f.logger.Error("error unsubscribing from topics", slog.Any("error", token.Error()))
	}

	f.mqttClient.Disconnect(250)
}
