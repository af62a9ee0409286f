package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"route-optimizer-service/internal/domain"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const DefaultTimeslot = "09:00-10:00"

// Column aliases after normalisation (lowercase, no spaces or underscores).
var columns = map[string]string{
	"shipmentid":       "id",
	"latitude":         "lat",
	"longitude":        "lon",
	"deliverytimeslot": "slot",
}

// Options controls the fallbacks applied to incomplete rows.
type Options struct {
	// NewID generates ids for rows without one. Defaults to RandomID.
	NewID func() string
	// Timeslot is used for rows without a delivery timeslot.
	Timeslot string
}

func (o Options) withDefaults() Options {
	if o.NewID == nil {
		o.NewID = RandomID
	}
	if o.Timeslot == "" {
		o.Timeslot = DefaultTimeslot
	}
	return o
}

// idSpace is 36^9, the number of nine-character base-36 suffixes.
const idSpace = 101559956668416

// RandomID returns "S" followed by nine base-36 characters ([0-9a-z]).
func RandomID() string {
	u := uuid.New()
	// Bytes 6 and 8 carry the version and variant bits; skip them.
	var n uint64
	for _, b := range append(u[0:6:6], u[9:11]...) {
		n = n<<8 | uint64(b)
	}

	suffix := strconv.FormatUint(n%idSpace, 36)
	return "S" + strings.Repeat("0", 9-len(suffix)) + suffix
}

func normalise(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "")
	return strings.ReplaceAll(name, "_", "")
}

// FromRecords converts a header-keyed table into shipment inputs. Header names
// are matched case-insensitively, so "Shipment ID" and "shipment_id" are the
// same column. Empty coordinates stay nil for the server to reject; values
// that are present but not numbers fail the import. Blank rows are skipped.
func FromRecords(header []string, rows [][]string, opts Options) ([]domain.ShipmentInput, error) {
	opts = opts.withDefaults()

	idx := map[string]int{}
	for i, h := range header {
		if key, ok := columns[normalise(h)]; ok {
			if _, dup := idx[key]; !dup {
				idx[key] = i
			}
		}
	}

	cell := func(row []string, key string) string {
		i, ok := idx[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]domain.ShipmentInput, 0, len(rows))
	for n, row := range rows {
		if blank(row) {
			continue
		}

		in := domain.ShipmentInput{
			ShipmentID:       cell(row, "id"),
			DeliveryTimeslot: cell(row, "slot"),
		}
		if in.ShipmentID == "" {
			in.ShipmentID = opts.NewID()
		}
		if in.DeliveryTimeslot == "" {
			in.DeliveryTimeslot = opts.Timeslot
		}

		var err error
		if in.Latitude, err = parseCoord(cell(row, "lat")); err != nil {
			return nil, fmt.Errorf("import row %d: latitude: %w", n+1, err)
		}
		if in.Longitude, err = parseCoord(cell(row, "lon")); err != nil {
			return nil, fmt.Errorf("import row %d: longitude: %w", n+1, err)
		}

		out = append(out, in)
	}

	return out, nil
}

// ReadCSV reads a CSV export whose first record is the header.
func ReadCSV(r io.Reader, opts Options) ([]domain.ShipmentInput, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("read csv: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv: header: %w", err)
	}
	// Excel exports often start with a UTF-8 byte order mark.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return FromRecords(header, rows, opts)
}

func parseCoord(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	return &v, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
