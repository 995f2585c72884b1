package cmd

import (
	"time"

	"github.com/Tiliavir/tcheck/internal/model"
	"github.com/Tiliavir/tcheck/internal/week"
)

// Monday 2026-02-23.
var monday = time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return monday.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func checkpoint(t time.Time, project, message string, registered bool) model.Checkpoint {
	c := model.New(t)
	if project != "" {
		c.Project = model.StringPtr(project)
	}
	if message != "" {
		c.Message = model.StringPtr(message)
	}
	c.Registered = registered
	return c
}

// sampleWeek has 09:00–09:07–10:30 on Monday (open at 10:30) and a single
// open checkpoint on Wednesday.
func sampleWeek() *week.Week {
	var days [week.NumDays][]model.Checkpoint
	days[week.Monday] = []model.Checkpoint{
		checkpoint(at(0, 9, 0), "4711", "standup, daily", true),
		checkpoint(at(0, 9, 7), "", "", false),
		checkpoint(at(0, 10, 30), "4711", "", false),
	}
	days[week.Wednesday] = []model.Checkpoint{
		checkpoint(at(2, 8, 0), "", "", false),
	}
	return week.Build(monday, days)
}
