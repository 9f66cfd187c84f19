package worker

// alerta_worker.go
// Processes low-stock alert jobs from QueueAlertas: one email listing every
// ingredient at or below its minimum, sent to the configured alert address.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chocoartesanto/backend-inventory/internal/infra"

	"github.com/rs/zerolog/log"
)

// InsumoBajo is one ingredient below its minimum in an alert.
type InsumoBajo struct {
	Nombre     string `json:"nombre"`
	Unidad     string `json:"unidad"`
	Disponible string `json:"disponible"`
	Minimo     string `json:"minimo"`
}

// AlertaStockPayload is the job envelope sent to QueueAlertas.
type AlertaStockPayload struct {
	ToEmail string       `json:"to_email"`
	Insumos []InsumoBajo `json:"insumos"`
}

type AlertaWorker struct {
	mailer *infra.Mailer
}

func NewAlertaWorker(mailer *infra.Mailer) *AlertaWorker {
	return &AlertaWorker{mailer: mailer}
}

func (w *AlertaWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload AlertaStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alerta_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" || len(payload.Insumos) == 0 {
		log.Warn().Msg("alerta_worker: empty payload, skipping")
		return
	}

	var b strings.Builder
	b.WriteString("Los siguientes insumos están en o por debajo de su stock mínimo:\n\n")
	for _, ins := range payload.Insumos {
		fmt.Fprintf(&b, "  - %s: %s %s disponibles (mínimo %s)\n",
			ins.Nombre, ins.Disponible, ins.Unidad, ins.Minimo)
	}
	b.WriteString("\nReponga el inventario lo antes posible.\n")

	subject := fmt.Sprintf("Alerta de stock bajo: %d insumo(s)", len(payload.Insumos))
	if err := w.mailer.Send(payload.ToEmail, subject, b.String(), ""); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("alerta_worker: failed to send alert")
		return
	}
	log.Info().Int("insumos", len(payload.Insumos)).Str("to", payload.ToEmail).
		Msg("alerta_worker: alert sent")
}
