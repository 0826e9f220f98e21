package keepsake

import (
	"fmt"
	"time"

	"github.com/arcyniiegas/elysium/internal/catalog"
	"github.com/arcyniiegas/elysium/internal/output"
)

// PrintRelicTicket renders and queues a museum ticket for a won relic.
// The QR code points at the museum's booking page.
func PrintRelicTicket(relic catalog.Relic, day int, visit *time.Time) {
	lines := []string{
		dayLine(day),
		"",
		relic.Description,
	}
	if visit != nil {
		lines = append(lines, "", "Visit: "+FormatVisitDate(*visit))
	}

	t := Ticket{
		Title:    relic.Name,
		Lines:    lines,
		QRTarget: relic.TicketURL,
		Footer:   "Elysium",
	}
	output.Enqueue(output.PrintJob{
		Image: t.Render(),
		Name:  fmt.Sprintf("relic_%d", relic.ID),
	})
}

// PrintEchoTicket renders and queues a keepsake card for a revealed echo.
func PrintEchoTicket(echo catalog.Echo, day int) {
	archiveURL, _ := catalog.VoiceArchiveURL(echo.ID)
	t := Ticket{
		Title: fmt.Sprintf("Echo %d", echo.ID+1),
		Lines: []string{
			dayLine(day),
			"",
			echo.Text,
		},
		QRTarget: archiveURL,
		Footer:   "Elysium",
	}
	output.Enqueue(output.PrintJob{
		Image: t.Render(),
		Name:  fmt.Sprintf("echo_%d", echo.ID),
	})
}
