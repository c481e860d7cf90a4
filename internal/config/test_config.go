package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:    "",
			Timeout: 1 * time.Second,
		},
		Timetable: TimetableConfig{
			HTTPTimeout: 5 * time.Second,
			UserAgent:   "orario-test/1.0",
		},
		Courses: CoursesConfig{
			DefaultCourse: "informatica",
			DefaultYear:   1,
		},
	}
}
