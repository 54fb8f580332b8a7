package service

import (
	"github.com/MarisolQZ/pipeline_end/utils"
)

// Notifier is the outbound notification collaborator. Composition and
// delivery live outside this system; the pipeline only hands over finalized
// state changes.
type Notifier interface {
	Notify(event string, fields map[string]interface{}) error
}

// logNotifier is the default sink when no mail integration is wired.
type logNotifier struct{}

func (logNotifier) Notify(event string, fields map[string]interface{}) error {
	utils.LogInfo(fields, "notification: "+event)
	return nil
}

var notifier Notifier = logNotifier{}

// SetNotifier swaps the notification collaborator.
func SetNotifier(n Notifier) {
	if n != nil {
		notifier = n
	}
}

// DispatchNotification sends a notification without blocking the caller.
// The pipeline mutation is already committed when this runs; a delivery
// failure is logged and never propagated.
func DispatchNotification(event string, fields map[string]interface{}) {
	go func() {
		if err := notifier.Notify(event, fields); err != nil {
			utils.LogError(err, fields, "notification delivery failed")
		}
	}()
}
