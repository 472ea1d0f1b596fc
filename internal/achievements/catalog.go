// Package achievements holds the achievement catalog and the evaluator that
// unlocks entries as game counters cross their thresholds.
package achievements

import "github.com/desertthunder/morningcharge/internal/models"

var catalog = []models.Achievement{
	{ID: "first_step", Type: models.AchievementFirstCompletion, Title: "First Light", Description: "Complete your first morning task", Icon: "🌟", Requirement: 1},
	{ID: "streak_3_days", Type: models.AchievementStreakDays, Title: "Steady Starter", Description: "Complete every task 3 days in a row", Icon: "🏆", Requirement: 3},
	{ID: "streak_7_days", Type: models.AchievementStreakDays, Title: "Morning Pro", Description: "Complete every task 7 days in a row", Icon: "💎", Requirement: 7},
	{ID: "streak_14_days", Type: models.AchievementStreakDays, Title: "Willpower Master", Description: "Complete every task 14 days in a row", Icon: "👑", Requirement: 14},
	{ID: "flash_5_times", Type: models.AchievementFlashCompletions, Title: "Speed Scout", Description: "Finish 5 tasks early", Icon: "⚡", Requirement: 5},
	{ID: "flash_10_times", Type: models.AchievementFlashCompletions, Title: "Light-Speed Warrior", Description: "Finish 10 tasks early", Icon: "💨", Requirement: 10},
	{ID: "flash_21_times", Type: models.AchievementFlashCompletions, Title: "Time Master", Description: "Finish 21 tasks early", Icon: "⏱️", Requirement: 21},
	{ID: "perfect_day_1", Type: models.AchievementPerfectDay, Title: "Perfect Day", Description: "Finish every task early in one day", Icon: "🌈", Requirement: 1},
	{ID: "perfect_day_3", Type: models.AchievementPerfectDay, Title: "Perfect Life", Description: "Have 3 days with every task finished early", Icon: "🌞", Requirement: 3},
	{ID: "all_tasks_5_times", Type: models.AchievementAllTasksComplete, Title: "Never Give Up", Description: "Complete the whole routine 5 times", Icon: "🎯", Requirement: 5},
	{ID: "all_tasks_20_times", Type: models.AchievementAllTasksComplete, Title: "Habit Builder", Description: "Complete the whole routine 20 times", Icon: "🎖️", Requirement: 20},
	{ID: "weekly_challenge_5_days", Type: models.AchievementWeeklyChallenge, Title: "Weekly Champion", Description: "Complete the whole routine on 5 days in one week", Icon: "🏅", Requirement: 5},
}

// Catalog returns a fresh, all-locked copy of every achievement.
func Catalog() []models.Achievement {
	out := make([]models.Achievement, len(catalog))
	copy(out, catalog)
	return out
}
