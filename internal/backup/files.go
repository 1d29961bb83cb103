package backup

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"strconv"
)

// WriteCSV exports one CSV file per table, named <prefix>_events.csv,
// <prefix>_archived.csv, <prefix>_tasks.csv and <prefix>_guests.csv, each
// with a fixed header row matching column order.
func (e *Exporter) WriteCSV(ctx context.Context, userID int64, prefix string) error {
	doc, err := e.Export(ctx, userID)
	if err != nil {
		return err
	}

	events := [][]string{{"ID", "User ID", "Name", "Date", "Time", "Venue", "Description", "Is Archived"}}
	for _, ev := range doc.Events {
		events = append(events, []string{
			strconv.FormatInt(ev.ID, 10),
			strconv.FormatInt(ev.UserID, 10),
			ev.Name, ev.Date, ev.Time, ev.Venue, ev.Description,
			strconv.FormatBool(ev.IsArchived),
		})
	}
	if err := writeCSVFile(prefix+"_events.csv", events); err != nil {
		return err
	}

	archived := [][]string{{"ID", "User ID", "Name", "Date", "Time", "Venue", "Description", "Archived Date"}}
	for _, a := range doc.ArchivedEvents {
		archived = append(archived, []string{
			strconv.FormatInt(a.ID, 10),
			strconv.FormatInt(a.UserID, 10),
			a.Name, a.Date, a.Time, a.Venue, a.Description, a.ArchivedAt,
		})
	}
	if err := writeCSVFile(prefix+"_archived.csv", archived); err != nil {
		return err
	}

	tasks := [][]string{{"ID", "Event ID", "Description", "Is Completed"}}
	for _, t := range doc.Tasks {
		tasks = append(tasks, []string{
			strconv.FormatInt(t.ID, 10),
			strconv.FormatInt(t.EventID, 10),
			t.Description,
			strconv.FormatBool(t.IsCompleted),
		})
	}
	if err := writeCSVFile(prefix+"_tasks.csv", tasks); err != nil {
		return err
	}

	guests := [][]string{{"ID", "Event ID", "Name", "Email"}}
	for _, g := range doc.Guests {
		guests = append(guests, []string{
			strconv.FormatInt(g.ID, 10),
			strconv.FormatInt(g.EventID, 10),
			g.Name, g.Email,
		})
	}
	return writeCSVFile(prefix+"_guests.csv", guests)
}

// WriteJSON exports the user's data as a JSON file mirroring the backup
// document minus the wrapping metadata.
func (e *Exporter) WriteJSON(ctx context.Context, userID int64, path string) error {
	doc, err := e.Export(ctx, userID)
	if err != nil {
		return err
	}

	out := struct {
		Events         interface{} `json:"events"`
		ArchivedEvents interface{} `json:"archived_events"`
		Tasks          interface{} `json:"tasks"`
		Guests         interface{} `json:"guests"`
	}{doc.Events, doc.ArchivedEvents, doc.Tasks, doc.Guests}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	return enc.Encode(out)
}

func writeCSVFile(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
