// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/showroom/pkg/emi"
)

// FindInstallment finds the installment for month in the schedule.
// Returns a pointer to the installment if found, nil otherwise.
func FindInstallment(schedule []emi.Installment, month int) *emi.Installment {
	for i := range schedule {
		if schedule[i].Month == month {
			return &schedule[i]
		}
	}
	return nil
}

// CSVValues indexes section,field,value records by "section.field", skipping
// the header row and any record that is not three columns wide.
func CSVValues(records [][]string) map[string]string {
	values := make(map[string]string)
	for i, record := range records {
		if i == 0 || len(record) != 3 {
			continue
		}
		values[record[0]+"."+record[1]] = record[2]
	}
	return values
}
