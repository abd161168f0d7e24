package followup

import "inkflowcrm/internal/models"

// ScheduleStep is one row of the outreach cadence: which email goes out how
// many days after the tattoo is completed.
type ScheduleStep struct {
	Type      models.TaskType
	DaysAfter int
	Label     string
}

// Schedule is the fixed outreach cadence applied to every completed tattoo.
// Batch creation walks this table in order; changing the cadence means
// changing this table only.
var Schedule = []ScheduleStep{
	{Type: models.TaskDay1, DaysAfter: 1, Label: "Day 1 Aftercare Email"},
	{Type: models.TaskDay3, DaysAfter: 3, Label: "3-Day Healing Check-In"},
	{Type: models.TaskWeek1, DaysAfter: 10, Label: "1-Week Follow-Up"},
	{Type: models.TaskBiweekly1, DaysAfter: 24, Label: "3-Week Touchpoint"},
	{Type: models.TaskBiweekly2, DaysAfter: 38, Label: "5-Week Touchpoint"},
}
