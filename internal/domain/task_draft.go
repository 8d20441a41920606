package domain

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TaskDraft is a task read from an import file.
type TaskDraft struct {
	Text      string `yaml:"text"`
	Date      string `yaml:"date"` // YYYY-MM-DD, empty means the import's default date
	Time      string `yaml:"time"` // HH:MM, optional
	Completed bool   `yaml:"completed"`
}

type draftFile struct {
	Tasks []TaskDraft `yaml:"tasks"`
}

// ParseTaskDrafts parses a YAML import file.
//
// Format:
//
//	tasks:
//	  - text: Buy milk
//	    date: 2026-10-16
//	    time: "08:30"
//	  - text: Read a chapter
//	    completed: true
func ParseTaskDrafts(content []byte) ([]TaskDraft, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, ErrEmptyFile
	}

	var f draftFile
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("parse import file: %w", err)
	}
	if len(f.Tasks) == 0 {
		return nil, ErrNoTasksInFile
	}
	return f.Tasks, nil
}

// Resolve validates the draft's date and time. An empty date yields fallback.
func (d TaskDraft) Resolve(fallback Date) (Date, string, error) {
	date := fallback
	if d.Date != "" {
		parsed, err := ParseDate(d.Date)
		if err != nil {
			return Date{}, "", err
		}
		date = parsed
	}
	clock, err := ParseClock(d.Time)
	if err != nil {
		return Date{}, "", err
	}
	return date, clock, nil
}
