package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/annotator/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var currentTheme *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			currentTheme = nil
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				currentTheme = theme.Default()
				currentTheme.Name = name
				cfg.Themes[name] = currentTheme
			}
			continue
		}

		key, value, ok := splitKV(line)
		if !ok {
			continue
		}

		var err error
		switch {
		case currentTheme != nil:
			err = theme.Set(currentTheme, key, value)
		case section == "":
			err = setRootField(cfg, key, value)
		case section == "supabase":
			setSupabaseField(&cfg.Supabase, key, value)
		case section == "annotate":
			err = setAnnotateField(&cfg.Annotate, key, value)
		case section == "log":
			setLogField(&cfg.Log, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			name := section
			if name == "" {
				name = "root"
			}
			return nil, fmt.Errorf("line %d [%s]: %w", lineNo, name, err)
		}
	}

	return cfg, scanner.Err()
}

// splitKV accepts "key = value" and "key: value". Quotes around the value are
// removed.
func splitKV(line string) (string, string, bool) {
	sep := "="
	if !strings.Contains(line, "=") {
		if !strings.Contains(line, ":") {
			return "", "", false
		}
		sep = ":"
	}
	key, value, _ := strings.Cut(line, sep)
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
		value = value[1 : len(value)-1]
	}
	return key, value, true
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "categories":
		cfg.Categories = value
	case "classification_type":
		cfg.ClassificationType = value
	case "next":
		cfg.Next = value
	case "save_dir":
		cfg.SaveDir = value
	}
	return nil
}

func setSupabaseField(s *Supabase, key, value string) {
	switch strings.ToLower(key) {
	case "url":
		s.URL = value
	case "anon_key":
		s.AnonKey = value
	case "access_token":
		s.AccessToken = value
	case "bucket":
		s.Bucket = value
	case "user_id":
		s.UserID = value
	}
}

func setAnnotateField(a *Annotate, key, value string) error {
	switch strings.ToLower(key) {
	case "tool":
		a.Tool = value
	case "line_width":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for key %s: %w", key, err)
		}
		a.LineWidth = n
	}
	return nil
}

func setLogField(l *Log, key, value string) {
	switch strings.ToLower(key) {
	case "mode":
		l.Mode = value
	case "level":
		l.Level = value
	}
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "submit":
		n.Submit = b
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}
