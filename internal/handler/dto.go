package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

type SummariesRequest struct {
	Subreddits SubredditList `json:"subreddits"`
	Limit      Limit         `json:"limit"`
}

// Limit accepts an integer or a numeric string. Any other value is ignored
// so the default applies; it never fails decoding.
type Limit struct {
	Value int
	Valid bool
}

func (l *Limit) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		if raw != "null" {
			slog.Warn("ignoring non-integer limit", "limit", string(data))
		}
		*l = Limit{}
		return nil
	}

	*l = Limit{Value: n, Valid: true}
	return nil
}

// Or returns the limit, or def when none was given.
func (l Limit) Or(def int) int {
	if !l.Valid {
		return def
	}
	return l.Value
}

// SubredditList accepts either a single name or a list of names.
type SubredditList []string

func (l *SubredditList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = SubredditList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("subreddits must be a string or a list of strings: %w", err)
	}
	*l = many
	return nil
}

// Normalize trims names and drops empty ones.
func (l SubredditList) Normalize() []string {
	names := make([]string, 0, len(l))
	for _, name := range l {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
