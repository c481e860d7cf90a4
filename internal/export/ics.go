package export

import (
	"fmt"
	"io"

	ics "github.com/arran4/golang-ical"

	"github.com/BrrBrr1/UniboOrario/internal/timetable"
)

// WriteICS serializes events as an iCalendar feed, one VEVENT per
// occurrence. Callers pass the already filtered visible set.
func WriteICS(w io.Writer, events []timetable.Event, calName string) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//UniboOrario//orario//IT")
	if calName != "" {
		cal.SetName(calName)
		cal.SetXWRCalName(calName)
	}

	for _, ev := range events {
		uid := fmt.Sprintf("%s-%s@unibo-orario", ev.CodModulo, ev.Start.Format("20060102T150405"))
		e := cal.AddEvent(uid)
		e.SetSummary(ev.Title)
		e.SetStartAt(ev.Start.Time)
		e.SetEndAt(ev.End.Time)
		if room := ev.Room(); room != "" {
			loc := room
			if len(ev.Aule) > 0 && ev.Aule[0].DesIndirizzo != "" {
				loc = room + ", " + ev.Aule[0].DesIndirizzo
			}
			e.SetLocation(loc)
		}
		if ev.Docente != "" {
			e.SetDescription("Docente: " + ev.Docente)
		}
	}

	return cal.SerializeTo(w)
}
