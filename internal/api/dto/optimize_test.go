package dto

import (
	"encoding/json"
	"route-optimizer-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFloat(t *testing.T) {
	var req OptimizeRequest
	body := `{"shipments":[
		{"shipment_id":"A","latitude":12.5,"longitude":" 77.25 ","delivery_timeslot":"09:00-10:00"},
		{"shipment_id":"B","latitude":null,"delivery_timeslot":"09:00-10:00"}
	]}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	require.Len(t, req.Shipments, 2)

	require.NotNil(t, req.Shipments[0].Latitude)
	assert.Equal(t, 12.5, float64(*req.Shipments[0].Latitude))
	assert.Equal(t, 77.25, float64(*req.Shipments[0].Longitude))
	assert.Nil(t, req.Shipments[1].Latitude)
	assert.Nil(t, req.Shipments[1].Longitude)

	var f FlexFloat
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &f))
	assert.Error(t, json.Unmarshal([]byte(`true`), &f))
}

func TestToInputsKeepsMissingCoordinates(t *testing.T) {
	lat := FlexFloat(1)
	req := OptimizeRequest{Shipments: []ShipmentRequest{{ShipmentID: "A", Latitude: &lat}}}

	in := req.ToInputs()
	require.Len(t, in, 1)
	require.NotNil(t, in[0].Latitude)
	assert.Equal(t, 1.0, *in[0].Latitude)
	assert.Nil(t, in[0].Longitude)
}

func TestRows(t *testing.T) {
	cov := 0.4567
	win := domain.TimeWindow{Start: 540, End: 600}
	res := &domain.OptimizationResult{
		Trips: []domain.Trip{{
			TripID:              "T001_1",
			VehicleType:         domain.VehicleType{Name: "3W", Capacity: 5, RangeKm: 15},
			MSTDistanceKm:       1.23456,
			TripMinutes:         40,
			CapacityUtilization: 0.4,
			TimeUtilization:     0.66666,
			CoverageUtilization: &cov,
			Stops: []domain.Stop{
				{Sequence: 1, Arrival: 565, Shipment: domain.Shipment{ID: "S1", Location: domain.Coordinates{Lat: 12.97, Lon: 77.59}, Window: win}},
				{Sequence: 2, Arrival: 580, Shipment: domain.Shipment{ID: "S2", Location: domain.Coordinates{Lat: 12.98, Lon: 77.60}, Window: win}},
			},
		}, {
			TripID:      "T002_1",
			VehicleType: domain.VehicleType{Name: "4W", Capacity: 25},
			Stops: []domain.Stop{
				{Sequence: 1, Arrival: 550, Shipment: domain.Shipment{ID: "S3", Window: win}},
			},
		}},
		Unassigned: []domain.Unassigned{{Shipment: domain.Shipment{ID: "S4", Window: win}, Reason: "fleet exhausted"}},
	}

	rows := Rows(res)
	require.Len(t, rows, 4)

	first := rows[0]
	assert.Equal(t, "T001_1", first.TripID)
	assert.Equal(t, "S1", first.ShipmentID)
	assert.Equal(t, "09:00-10:00", first.TimeSlot)
	assert.Equal(t, "09:25", first.Arrival)
	assert.Equal(t, 2, first.Shipments)
	assert.Equal(t, 1.23, first.MSTDist)
	assert.Equal(t, 0.67, first.TimeUti)
	assert.Equal(t, 0.46, first.CovUti)
	assert.Equal(t, StatusAssigned, first.Status)

	assert.Equal(t, NotApplicable, rows[2].CovUti)

	last := rows[3]
	assert.Equal(t, "S4", last.ShipmentID)
	assert.Equal(t, StatusUnassigned, last.Status)
	assert.Equal(t, "fleet exhausted", last.Reason)

	assert.Equal(t, []TripRow{}, Rows(nil))
}

func TestRowsJSONColumns(t *testing.T) {
	data, err := json.Marshal(TripRow{TripID: "T001_1", CovUti: NotApplicable, Status: StatusAssigned})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	for _, col := range []string{
		"TRIP_ID", "Shipment_ID", "Vehicle_Type", "TIME_SLOT", "Latitude", "Longitude",
		"Shipments", "MST_DIST", "TRIP_TIME", "CAPACITY_UTI", "TIME_UTI", "COV_UTI",
		"ARRIVAL", "SEQUENCE", "STATUS",
	} {
		assert.Contains(t, m, col)
	}
	assert.NotContains(t, m, "REASON")
	assert.Equal(t, "N/A", m["COV_UTI"])
}
