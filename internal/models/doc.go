// Package models defines the data types shared by the morning routine packages.
//
// Definitions:
//   - [Task] : a timed step of the routine (start and deadline as HH:MM)
//   - [CompletionRecord] : an immutable record of one task being marked done
//   - [DayRecord] : per-day map of task index to completion status
//   - [GameData] : long-lived counters (streak, totals, unlocked achievements)
//   - [WeekStats] : completion tallies accumulated until explicitly reset
//   - [Achievement] : a threshold reward over one of the counters
//
// All persisted types are plain JSON documents; field names match the keys
// written by earlier versions of the app so existing data keeps loading.
package models
