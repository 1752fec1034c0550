// Package seed loads a starter set of grid regions and data centers so a
// fresh database has something to monitor before the first ingestion run.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gridhub-labs/gridhub/internal/ingest"
	"github.com/gridhub-labs/gridhub/pkg/core"
)

// Sample data centers based on real facilities.
var dataCenters = []core.DataCenter{
	// ERCOT (Texas)
	{ID: "aws-us-texas-1", Name: "AWS US Texas 1", Operator: "AWS", RegionID: "ERCOT",
		Latitude: 32.78, Longitude: -96.80, MaxCapacityMW: 150, AvgPUE: 1.2, AIFocused: true, PrimaryGridConnection: "ERCOT-345kV"},
	{ID: "google-texas-1", Name: "Google Midlothian", Operator: "Google", RegionID: "ERCOT",
		Latitude: 32.48, Longitude: -96.99, MaxCapacityMW: 200, AvgPUE: 1.1, AIFocused: true, PrimaryGridConnection: "ERCOT-345kV"},
	{ID: "meta-fort-worth", Name: "Meta Fort Worth", Operator: "Meta", RegionID: "ERCOT",
		Latitude: 32.75, Longitude: -97.33, MaxCapacityMW: 180, AvgPUE: 1.15, AIFocused: true, PrimaryGridConnection: "ERCOT-138kV"},
	{ID: "oracle-austin", Name: "Oracle Austin", Operator: "Oracle", RegionID: "ERCOT",
		Latitude: 30.27, Longitude: -97.74, MaxCapacityMW: 80, AvgPUE: 1.3, PrimaryGridConnection: "ERCOT-138kV"},

	// CAISO (California)
	{ID: "google-the-dalles", Name: "Google The Dalles", Operator: "Google", RegionID: "CAISO",
		Latitude: 45.60, Longitude: -121.18, MaxCapacityMW: 250, AvgPUE: 1.08, AIFocused: true, PrimaryGridConnection: "BPA-500kV"},
	{ID: "meta-prineville", Name: "Meta Prineville", Operator: "Meta", RegionID: "CAISO",
		Latitude: 44.30, Longitude: -120.83, MaxCapacityMW: 160, AvgPUE: 1.1, AIFocused: true, PrimaryGridConnection: "CAISO-230kV"},
	{ID: "aws-us-west-1", Name: "AWS US West 1", Operator: "AWS", RegionID: "CAISO",
		Latitude: 37.77, Longitude: -122.42, MaxCapacityMW: 120, AvgPUE: 1.25, PrimaryGridConnection: "CAISO-115kV"},

	// PJM (East Coast)
	{ID: "aws-us-east-1", Name: "AWS US East 1 (Virginia)", Operator: "AWS", RegionID: "PJM",
		Latitude: 39.04, Longitude: -77.49, MaxCapacityMW: 300, AvgPUE: 1.18, AIFocused: true, PrimaryGridConnection: "Dominion-500kV"},
	{ID: "microsoft-virginia", Name: "Microsoft Virginia", Operator: "Microsoft", RegionID: "PJM",
		Latitude: 38.95, Longitude: -77.45, MaxCapacityMW: 250, AvgPUE: 1.12, AIFocused: true, PrimaryGridConnection: "Dominion-230kV"},
	{ID: "google-virginia", Name: "Google Virginia", Operator: "Google", RegionID: "PJM",
		Latitude: 39.10, Longitude: -77.55, MaxCapacityMW: 200, AvgPUE: 1.1, AIFocused: true, PrimaryGridConnection: "Dominion-230kV"},
	{ID: "meta-virginia", Name: "Meta Virginia", Operator: "Meta", RegionID: "PJM",
		Latitude: 39.00, Longitude: -77.50, MaxCapacityMW: 180, AvgPUE: 1.15, AIFocused: true, PrimaryGridConnection: "Dominion-138kV"},
	{ID: "oracle-ashburn", Name: "Oracle Ashburn", Operator: "Oracle", RegionID: "PJM",
		Latitude: 39.04, Longitude: -77.47, MaxCapacityMW: 100, AvgPUE: 1.28, PrimaryGridConnection: "Dominion-138kV"},

	// NYISO (New York)
	{ID: "google-new-york", Name: "Google New York", Operator: "Google", RegionID: "NYISO",
		Latitude: 40.71, Longitude: -74.01, MaxCapacityMW: 80, AvgPUE: 1.2, PrimaryGridConnection: "ConEd-138kV"},
	{ID: "aws-us-east-nyc", Name: "AWS NYC", Operator: "AWS", RegionID: "NYISO",
		Latitude: 40.75, Longitude: -73.99, MaxCapacityMW: 60, AvgPUE: 1.3, PrimaryGridConnection: "ConEd-138kV"},

	// MISO (Midwest)
	{ID: "google-council-bluffs", Name: "Google Council Bluffs", Operator: "Google", RegionID: "MISO",
		Latitude: 41.26, Longitude: -95.86, MaxCapacityMW: 200, AvgPUE: 1.1, AIFocused: true, PrimaryGridConnection: "MISO-345kV"},
	{ID: "meta-altoona", Name: "Meta Altoona", Operator: "Meta", RegionID: "MISO",
		Latitude: 41.64, Longitude: -93.47, MaxCapacityMW: 150, AvgPUE: 1.12, AIFocused: true, PrimaryGridConnection: "MISO-161kV"},
	{ID: "microsoft-chicago", Name: "Microsoft Chicago", Operator: "Microsoft", RegionID: "MISO",
		Latitude: 41.88, Longitude: -87.63, MaxCapacityMW: 120, AvgPUE: 1.18, PrimaryGridConnection: "ComEd-138kV"},

	// SPP (Southwest)
	{ID: "google-oklahoma", Name: "Google Mayes County", Operator: "Google", RegionID: "SPP",
		Latitude: 36.30, Longitude: -95.20, MaxCapacityMW: 180, AvgPUE: 1.09, AIFocused: true, PrimaryGridConnection: "SPP-345kV"},

	// ISONE (New England)
	{ID: "aws-boston", Name: "AWS Boston", Operator: "AWS", RegionID: "ISONE",
		Latitude: 42.36, Longitude: -71.06, MaxCapacityMW: 50, AvgPUE: 1.25, PrimaryGridConnection: "ISONE-115kV"},
}

// Run inserts the monitored regions and any missing data centers.
// Existing data center records are left untouched.
func Run(ctx context.Context, st core.Store, logger *slog.Logger) (int, error) {
	if err := ingest.EnsureRegions(ctx, st); err != nil {
		return 0, fmt.Errorf("failed to seed regions: %w", err)
	}

	count := 0
	for _, dc := range dataCenters {
		if _, err := st.GetDataCenter(ctx, dc.ID); err == nil {
			continue
		} else if !core.IsNotFound(err) {
			return count, err
		}

		if err := st.UpsertDataCenter(ctx, dc); err != nil {
			return count, fmt.Errorf("failed to seed data center %s: %w", dc.ID, err)
		}
		logger.Info("seeded data center", "name", dc.Name, "operator", dc.Operator, "region", dc.RegionID)
		count++
	}
	return count, nil
}
