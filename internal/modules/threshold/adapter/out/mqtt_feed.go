package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	thresholdout "thresholdtimer/internal/modules/threshold/port/out"
	apperrors "thresholdtimer/internal/platform/errors"
)

type MQTTOptions struct {
	Broker         string
	Topic          string
	ClientID       string
	Username       string
	Password       string
	QoS            byte
	ConnectTimeout time.Duration
}

// MQTTFeed reads heart-rate samples from a broker topic. paho delivers
// messages for a subscription in order on its own goroutine.
type MQTTFeed struct {
	opts      MQTTOptions
	logger    *zap.Logger
	newClient func(*mqtt.ClientOptions) mqtt.Client

	mu       sync.Mutex
	client   mqtt.Client
	onSample thresholdout.SampleFunc
}

func NewMQTTFeed(opts MQTTOptions, logger *zap.Logger) *MQTTFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	return &MQTTFeed{opts: opts, logger: logger.Named("mqtt"), newClient: mqtt.NewClient}
}

// RequestPermission reports whether the feed is configured to reach a broker.
func (f *MQTTFeed) RequestPermission(context.Context) bool {
	return f.opts.Broker != "" && f.opts.Topic != ""
}

func (f *MQTTFeed) Start(_ context.Context, onSample thresholdout.SampleFunc) error {
	if f.opts.Broker == "" || f.opts.Topic == "" {
		return fmt.Errorf("%w: mqtt broker and topic are required", apperrors.ErrPermissionDenied)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client != nil {
		f.onSample = onSample
		return nil
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(f.opts.Broker)
	opts.SetClientID(f.opts.ClientID)
	if f.opts.Username != "" {
		opts.SetUsername(f.opts.Username)
	}
	if f.opts.Password != "" {
		opts.SetPassword(f.opts.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetOrderMatters(true)
	opts.SetConnectTimeout(f.opts.ConnectTimeout)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		f.logger.Warn("broker connection lost", zap.Error(err))
	})

	client := f.newClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(f.opts.ConnectTimeout) {
		return fmt.Errorf("%w: connect to %s timed out", apperrors.ErrPermissionDenied, f.opts.Broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: connect to %s: %v", apperrors.ErrPermissionDenied, f.opts.Broker, err)
	}
	sub := client.Subscribe(f.opts.Topic, f.opts.QoS, f.handle)
	if sub.Wait() && sub.Error() != nil {
		client.Disconnect(250)
		return fmt.Errorf("subscribe to topic %s: %w", f.opts.Topic, sub.Error())
	}
	f.client = client
	f.onSample = onSample
	f.logger.Info("sensor feed subscribed", zap.String("broker", f.opts.Broker), zap.String("topic", f.opts.Topic))
	return nil
}

func (f *MQTTFeed) Stop() error {
	f.mu.Lock()
	client := f.client
	f.client = nil
	f.onSample = nil
	f.mu.Unlock()
	if client == nil {
		return nil
	}
	if token := client.Unsubscribe(f.opts.Topic); token.Wait() && token.Error() != nil {
		f.logger.Warn("unsubscribe", zap.Error(token.Error()))
	}
	client.Disconnect(250)
	return nil
}

func (f *MQTTFeed) handle(_ mqtt.Client, msg mqtt.Message) {
	value, err := ParsePayload(msg.Payload())
	if err != nil {
		f.logger.Warn("drop malformed sample", zap.String("topic", msg.Topic()), zap.Error(err))
		return
	}
	f.mu.Lock()
	onSample := f.onSample
	f.mu.Unlock()
	if onSample != nil {
		onSample(value)
	}
}

type bpmSample struct {
	BPM *float64 `json:"bpm"`
}

// ParsePayload decodes {"bpm": 72}, an array of such objects (the last sample
// wins) or a bare number.
func ParsePayload(payload []byte) (float64, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return 0, fmt.Errorf("%w: empty payload", apperrors.ErrInvalidInput)
	}
	var value float64
	switch trimmed[0] {
	case '{':
		var s bpmSample
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, fmt.Errorf("%w: decode sample: %v", apperrors.ErrInvalidInput, err)
		}
		if s.BPM == nil {
			return 0, fmt.Errorf("%w: sample has no bpm", apperrors.ErrInvalidInput)
		}
		value = *s.BPM
	case '[':
		var batch []bpmSample
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return 0, fmt.Errorf("%w: decode batch: %v", apperrors.ErrInvalidInput, err)
		}
		found := false
		for _, s := range batch {
			if s.BPM != nil {
				value, found = *s.BPM, true
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: batch has no bpm", apperrors.ErrInvalidInput)
		}
	default:
		v, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: decode number: %v", apperrors.ErrInvalidInput, err)
		}
		value = v
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: non-finite sample", apperrors.ErrInvalidInput)
	}
	return value, nil
}
