// Package notify formats newly found slots into the outgoing email and
// delivers it over SMTP. Message text is Spanish (es-AR), matching the
// audience of the clubs being watched; logs stay English like the rest of
// the service.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/courtwatch/courtwatch/internal/watch"
)

// Spanish day and month names, pre-capitalized for message lines.
var spanishDays = [7]string{
	"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado",
}

var spanishMonths = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// FormatSlotTime renders a start instant for the message, in loc and 24h
// clock: "Lunes, 7 de Julio, 19:00".
func FormatSlotTime(t time.Time, loc *time.Location) string {
	local := t.In(loc)
	return fmt.Sprintf("%s, %d de %s, %02d:%02d",
		spanishDays[local.Weekday()],
		local.Day(),
		spanishMonths[local.Month()-1],
		local.Hour(), local.Minute())
}

// BuildMessage composes the subject and plain-text body for one cycle's new
// slots. Slots arrive already grouped by club and ordered by start time;
// with more than one club each group gets its own header.
func BuildMessage(slots []watch.Slot, loc *time.Location) (subject, body string) {
	clubs := clubOrder(slots)

	if len(clubs) == 1 {
		subject = fmt.Sprintf("🎾 Turnos disponibles en %s!", clubs[0])
	} else {
		subject = "🎾 ¡Turnos disponibles!"
	}

	var b strings.Builder
	b.WriteString("🎾 ¡Hay turnos disponibles!\n")

	current := ""
	for _, slot := range slots {
		if len(clubs) > 1 && slot.Club.DisplayName != current {
			current = slot.Club.DisplayName
			fmt.Fprintf(&b, "\n🏢 %s\n", current)
		}
		date := slot.Start.In(loc).Format("2006-01-02")
		fmt.Fprintf(&b, "\n📅 %s - 🏟️  %s\n🔗 Reservar: %s\n",
			FormatSlotTime(slot.Start, loc),
			slot.Court,
			slot.Club.ReservationURL(date))
	}

	return subject, b.String()
}

// clubOrder returns distinct club display names in slot order.
func clubOrder(slots []watch.Slot) []string {
	var names []string
	seen := map[string]bool{}
	for _, s := range slots {
		if !seen[s.Club.DisplayName] {
			seen[s.Club.DisplayName] = true
			names = append(names, s.Club.DisplayName)
		}
	}
	return names
}
