package alerts

import (
	"context"

	"github.com/rs/zerolog"
)

// Notifier is the downstream notification hook fired when a new alert is
// raised. Delivery channels (pager, email, push) live behind this interface;
// the engine ships with a logging implementation only.
type Notifier interface {
	Notify(ctx context.Context, alert *DrugInteractionAlert) error
}

type logNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier returns a Notifier that records raised alerts in the log.
func NewLogNotifier(log zerolog.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) Notify(_ context.Context, alert *DrugInteractionAlert) error {
	n.log.Info().
		Str("alert_id", alert.ID.String()).
		Str("patient_id", alert.PatientID.String()).
		Str("severity", string(alert.Severity)).
		Str("drug_a", alert.Interaction.DrugA).
		Str("drug_b", alert.Interaction.DrugB).
		Msg("interaction alert raised")
	return nil
}
