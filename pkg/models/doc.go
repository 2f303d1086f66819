// Package models provides the shared data types of the habit tracker.
//
// # Dates
//
// [Date] is a calendar date without a time component. Its text form is
// ISO 8601 (YYYY-MM-DD), which is also how it is encoded in JSON:
//
//	d, err := models.ParseDate("2024-03-15")
//	today := models.DateOf(time.Now())
//
// # Habits
//
// A [Habit] has a name and a set of completion dates. A [Collection] is the
// ordered list of habits; habits are addressed by zero-based position.
// [Document] is the persisted shape:
//
//	{"habits": [{"name": "Read", "completed_dates": ["2024-03-15"]}]}
//
// Names are compared with [FoldName], which trims, NFC-normalizes and case
// folds, so "Read" and " read " are the same habit.
package models
