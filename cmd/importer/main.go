package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/importer"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// importer reads a shipment CSV export, fills in missing ids and timeslots,
// submits it to a running server and prints the response rows.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found (using environment variables)")
	}

	file := flag.String("file", "", "CSV export with Shipment ID, Latitude, Longitude, Delivery Timeslot columns")
	baseURL := flag.String("url", "http://localhost:"+config.Get("PORT", "8000"), "server base url")
	timeslot := flag.String("timeslot", importer.DefaultTimeslot, "timeslot for rows without one")
	timeout := flag.Duration("timeout", 2*time.Minute, "request timeout")
	flag.Parse()

	if *file == "" {
		log.Fatal("-file is required")
	}

	if err := run(*file, *baseURL, *timeslot, *timeout, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(path, baseURL, timeslot string, timeout time.Duration, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer f.Close()

	inputs, err := importer.ReadCSV(f, importer.Options{Timeslot: timeslot})
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	log.WithField("shipments", len(inputs)).Info("submitting shipments")

	body, err := json.Marshal(dto.FromInputs(inputs))
	if err != nil {
		return fmt.Errorf("import: encode request: %w", err)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(strings.TrimRight(baseURL, "/")+"/optimize", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("import: submit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e dto.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		for _, d := range e.Details {
			log.WithFields(log.Fields{"row": d.Index + 1, "shipment_id": d.ShipmentID, "field": d.Field}).Error(d.Message)
		}
		return fmt.Errorf("import: server returned %d: %s", resp.StatusCode, e.Error)
	}

	var rows []dto.TripRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return fmt.Errorf("import: decode response: %w", err)
	}

	for _, r := range rows {
		if r.Status == dto.StatusUnassigned {
			fmt.Fprintf(out, "%-8s %-12s %-11s UNASSIGNED (%s)\n", "-", r.ShipmentID, r.TimeSlot, r.Reason)
			continue
		}
		fmt.Fprintf(out, "%-8s %-12s %-11s %-6s #%d at %s\n", r.TripID, r.ShipmentID, r.TimeSlot, r.VehicleType, r.Sequence, r.Arrival)
	}
	log.WithFields(log.Fields{
		"rows":       len(rows),
		"unassigned": resp.Header.Get("X-Unassigned-Count"),
	}).Info("optimization complete")
	return nil
}
