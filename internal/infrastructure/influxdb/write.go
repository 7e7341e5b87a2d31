package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteInspectionStarted records the start of an inspection.
//
// Tagged by panel so dashboards can chart inspection frequency per panel.
// The write is non-blocking; data is batched and sent asynchronously.
func (c *Client) WriteInspectionStarted(panelID, inspectionID string, deviceCount int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"inspection_started",
		map[string]string{
			"panel_id": panelID,
		},
		map[string]interface{}{
			"inspection_id": inspectionID,
			"device_count":  deviceCount,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteInspectionFinalized records the outcome of a finalised inspection.
//
// Captures pass/fail/na/untested counts alongside the overall status and
// the wall-clock duration from start to finalisation.
func (c *Client) WriteInspectionFinalized(panelID, inspectionID, status string, passed, failed, na, notTested int, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"inspection_finalized",
		map[string]string{
			"panel_id": panelID,
			"status":   status,
		},
		map[string]interface{}{
			"inspection_id":    inspectionID,
			"passed":           passed,
			"failed":           failed,
			"na":               na,
			"not_tested":       notTested,
			"duration_seconds": duration.Seconds(),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteDeviceCount records the size of a panel's device registry.
//
// Written after bulk operations so registry growth can be tracked over time.
func (c *Client) WriteDeviceCount(panelID string, count int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_registry",
		map[string]string{
			"panel_id": panelID,
		},
		map[string]interface{}{
			"device_count": count,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
