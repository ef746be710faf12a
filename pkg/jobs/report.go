package jobs

import (
	"context"
	"fmt"
	"time"
)

// StatusReport is the snapshot assembled by the periodic report job
type StatusReport struct {
	Timestamp string `json:"timestamp"`
	Estado    string `json:"estado"`
}

const reportTimestampLayout = "2/1/2006, 15:04:05"

// RunPeriodicReport assembles a status snapshot and relays a formatted
// rendering of it to the chat destination.
func (s *Service) RunPeriodicReport(ctx context.Context) (*StatusReport, error) {
	report := &StatusReport{
		Timestamp: time.Now().Format(reportTimestampLayout),
		Estado:    "Servidor Activo",
	}

	message := fmt.Sprintf("📊 *Reporte Periódico*\n\n 📅 Fecha: %s\n✅ Estado: %s", report.Timestamp, report.Estado)
	if _, err := s.notifier.Send(ctx, message); err != nil {
		return nil, fmt.Errorf("periodic report delivery failed: %w", err)
	}

	return report, nil
}
