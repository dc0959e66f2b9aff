package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"math"
	"strconv"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"smarttrash-backend/internal/models"
)

// DefaultTopic is the FCM topic the mobile app subscribes to
const DefaultTopic = "trash_alerts"

// MessageSender is the part of *messaging.Client the notifier uses
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Notifier pushes bin and route events to an FCM topic. A nil *Notifier is
// valid and sends nothing.
type Notifier struct {
	sender    MessageSender
	topic     string
	threshold float64

	mu         sync.Mutex
	lastAlerts map[string]float64 // bin id -> trash level of the last alert

	gasMu         sync.Mutex
	lastGasLevels map[string]int // bin id -> last integer gas level seen
}

// NewNotifier wraps an existing sender
func NewNotifier(sender MessageSender, topic string, threshold float64) *Notifier {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Notifier{
		sender:        sender,
		topic:         topic,
		threshold:     threshold,
		lastAlerts:    make(map[string]float64),
		lastGasLevels: make(map[string]int),
	}
}

// NewNotifierFromFile initializes Firebase from a service account file
func NewNotifierFromFile(ctx context.Context, credentialsFile, topic string, threshold float64) (*Notifier, error) {
	return newFirebaseNotifier(ctx, option.WithCredentialsFile(credentialsFile), topic, threshold)
}

// NewNotifierFromBase64 initializes Firebase from base64-encoded credentials,
// for hosts where a file cannot be mounted
func NewNotifierFromBase64(ctx context.Context, credentialsBase64, topic string, threshold float64) (*Notifier, error) {
	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}
	return newFirebaseNotifier(ctx, option.WithCredentialsJSON(credentialsJSON), topic, threshold)
}

func newFirebaseNotifier(ctx context.Context, opt option.ClientOption, topic string, threshold float64) (*Notifier, error) {
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return NewNotifier(client, topic, threshold), nil
}

// Threshold returns the trash level at which a bin counts as full
func (n *Notifier) Threshold() float64 {
	if n == nil {
		return 0
	}
	return n.threshold
}

// NotifyBinLevel sends a full-bin alert when the bin is at or above the
// threshold and its level moved by at least one point since the last alert.
// Reports whether a message went out.
func (n *Notifier) NotifyBinLevel(ctx context.Context, bin models.BinState) (bool, error) {
	if n == nil || bin.TrashLevel < n.threshold {
		return false, nil
	}

	n.mu.Lock()
	last, seen := n.lastAlerts[bin.ID]
	if seen && math.Abs(last-bin.TrashLevel) < 1.0 {
		n.mu.Unlock()
		return false, nil
	}
	n.lastAlerts[bin.ID] = bin.TrashLevel
	n.mu.Unlock()

	message := &messaging.Message{
		Topic: n.topic,
		Notification: &messaging.Notification{
			Title: fmt.Sprintf("Trash Bin Alert: %s", bin.Name),
			Body:  fmt.Sprintf("Bin '%s' is %.1f%% full. Needs emptying!", bin.Name, bin.TrashLevel),
		},
		Data: map[string]string{
			"type":       "bin_full",
			"binId":      bin.ID,
			"binName":    bin.Name,
			"trashLevel": strconv.FormatFloat(bin.TrashLevel, 'f', 1, 64),
			"trashType":  bin.TrashType,
			"weight":     strconv.FormatFloat(bin.Weight, 'f', 1, 64),
			"latitude":   strconv.FormatFloat(bin.Latitude, 'f', 6, 64),
			"longitude":  strconv.FormatFloat(bin.Longitude, 'f', 6, 64),
			"screen":     "home",
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}

	response, err := n.sender.Send(ctx, message)
	if err != nil {
		// let the next reading retry
		n.mu.Lock()
		if seen {
			n.lastAlerts[bin.ID] = last
		} else {
			delete(n.lastAlerts, bin.ID)
		}
		n.mu.Unlock()
		return false, fmt.Errorf("error sending FCM message: %w", err)
	}

	log.Printf("✅ [FCM] Full-bin alert sent for '%s' (%.1f%%): %s", bin.Name, bin.TrashLevel, response)
	return true, nil
}

// GasTopic is the topic gas alerts go to
func (n *Notifier) GasTopic() string {
	return n.topic + "_gas"
}

// EmergencyTopic receives an extra message for critical gas levels
func (n *Notifier) EmergencyTopic() string {
	return n.topic + "_emergency"
}

// NotifyGasLevel tracks the bin's integer gas level and sends a gas alert
// when the level changed and sits at GasAlertLevel or above. Critical levels
// also go to the emergency topic. Reports whether the gas alert went out.
func (n *Notifier) NotifyGasLevel(ctx context.Context, bin models.BinState) (bool, error) {
	if n == nil {
		return false, nil
	}

	level := models.GasLevelIndex(bin.GasLevel)

	n.gasMu.Lock()
	last, seen := n.lastGasLevels[bin.ID]
	if seen && last == level {
		n.gasMu.Unlock()
		return false, nil
	}
	n.lastGasLevels[bin.ID] = level
	n.gasMu.Unlock()

	if level < models.GasAlertLevel {
		return false, nil
	}

	band, severity := models.GasBandFor(level)
	data := map[string]string{
		"type":      "gas_alert",
		"binId":     bin.ID,
		"binName":   bin.Name,
		"gasLevel":  strconv.FormatFloat(bin.GasLevel, 'f', 1, 64),
		"message":   band.Message,
		"severity":  strconv.Itoa(severity),
		"latitude":  strconv.FormatFloat(bin.Latitude, 'f', 6, 64),
		"longitude": strconv.FormatFloat(bin.Longitude, 'f', 6, 64),
		"screen":    "gas_alert",
	}
	for i, r := range band.Recommendations {
		data[fmt.Sprintf("recommendation%d", i+1)] = r
	}

	message := &messaging.Message{
		Topic: n.GasTopic(),
		Notification: &messaging.Notification{
			Title: fmt.Sprintf("Gas Alert: %s", bin.Name),
			Body:  band.Message,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}

	response, err := n.sender.Send(ctx, message)
	if err != nil {
		n.gasMu.Lock()
		if seen {
			n.lastGasLevels[bin.ID] = last
		} else {
			delete(n.lastGasLevels, bin.ID)
		}
		n.gasMu.Unlock()
		return false, fmt.Errorf("error sending gas alert: %w", err)
	}
	log.Printf("✅ [FCM] Gas alert sent for '%s' (level %d): %s", bin.Name, level, response)

	if level < models.GasEmergencyLevel {
		return true, nil
	}

	emergency := &messaging.Message{
		Topic: n.EmergencyTopic(),
		Notification: &messaging.Notification{
			Title: "🚨 CRITICAL GAS LEVEL EMERGENCY 🚨",
			Body:  fmt.Sprintf("Critical gas levels detected at %s!", bin.Name),
		},
		Data: map[string]string{
			"type":      "gas_emergency",
			"binId":     bin.ID,
			"binName":   bin.Name,
			"gasLevel":  strconv.FormatFloat(bin.GasLevel, 'f', 1, 64),
			"latitude":  strconv.FormatFloat(bin.Latitude, 'f', 6, 64),
			"longitude": strconv.FormatFloat(bin.Longitude, 'f', 6, 64),
			"screen":    "emergency",
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
	if _, err := n.sender.Send(ctx, emergency); err != nil {
		return true, fmt.Errorf("error sending gas emergency: %w", err)
	}
	log.Printf("🚨 [FCM] Gas emergency sent for '%s' (level %d)", bin.Name, level)
	return true, nil
}

// NotifyRoutePlanned tells drivers a new collection round is ready
func (n *Notifier) NotifyRoutePlanned(ctx context.Context, route models.PlannedRoute) error {
	if n == nil {
		return nil
	}

	message := &messaging.Message{
		Topic: n.topic,
		Notification: &messaging.Notification{
			Title: "New Collection Route",
			Body:  fmt.Sprintf("%d bins to collect, %.1f km.", route.StopCount, route.TotalDistance),
		},
		Data: map[string]string{
			"type":           "route_planned",
			"route_id":       route.ID,
			"total_bins":     strconv.Itoa(route.StopCount),
			"total_distance": strconv.FormatFloat(route.TotalDistance, 'f', 2, 64),
			"screen":         "route",
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}

	response, err := n.sender.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending FCM message: %w", err)
	}

	log.Printf("✅ [FCM] Route %s announced: %s", route.ID, response)
	return nil
}
