package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/annotator/internal/render"
	"github.com/example/annotator/internal/theme"
)

// Supabase holds the project the annotator submits to.
type Supabase struct {
	URL         string
	AnonKey     string
	AccessToken string
	Bucket      string
	UserID      string
}

// Annotate holds drawing defaults for new sessions.
type Annotate struct {
	Tool      string
	LineWidth int
}

// Log configures the zap logger.
type Log struct {
	Mode  string // development or production
	Level string
}

// Notify holds notification settings.
type Notify struct {
	Submit bool
	Save   bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Theme              string
	Categories         string
	ClassificationType string
	Next               string
	SaveDir            string

	Supabase Supabase
	Annotate Annotate
	Log      Log
	Notify   Notify
	Themes   map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Annotate: Annotate{Tool: "pen", LineWidth: 2},
		Log:      Log{Mode: "development", Level: "info"},
		Notify:   Notify{Submit: true},
		Themes:   make(map[string]*theme.Theme),
	}
}

// Environment variables that override file values.
const (
	EnvSupabaseURL = "ANNOTATOR_SUPABASE_URL"
	EnvSupabaseKey = "ANNOTATOR_SUPABASE_KEY"
	EnvAccessToken = "ANNOTATOR_ACCESS_TOKEN"
	EnvUserID      = "ANNOTATOR_USER_ID"
)

// ApplyEnv overlays non-empty environment values onto c. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, name string) {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			*dst = v
		}
	}
	set(&c.Supabase.URL, EnvSupabaseURL)
	set(&c.Supabase.AnonKey, EnvSupabaseKey)
	set(&c.Supabase.AccessToken, EnvAccessToken)
	set(&c.Supabase.UserID, EnvUserID)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	root := []struct{ key, val string }{
		{"theme", c.Theme},
		{"categories", c.Categories},
		{"classification_type", c.ClassificationType},
		{"next", c.Next},
		{"save_dir", c.SaveDir},
	}
	for _, kv := range root {
		if kv.val != "" {
			fmt.Fprintf(&sb, "%s = %s\n", kv.key, kv.val)
		}
	}
	sb.WriteString("\n")

	sb.WriteString("[supabase]\n")
	fmt.Fprintf(&sb, "url = %s\n", c.Supabase.URL)
	fmt.Fprintf(&sb, "anon_key = %s\n", c.Supabase.AnonKey)
	if c.Supabase.AccessToken != "" {
		fmt.Fprintf(&sb, "access_token = %s\n", c.Supabase.AccessToken)
	}
	if c.Supabase.Bucket != "" {
		fmt.Fprintf(&sb, "bucket = %s\n", c.Supabase.Bucket)
	}
	if c.Supabase.UserID != "" {
		fmt.Fprintf(&sb, "user_id = %s\n", c.Supabase.UserID)
	}
	sb.WriteString("\n")

	sb.WriteString("[annotate]\n")
	fmt.Fprintf(&sb, "tool = %s\n", c.Annotate.Tool)
	fmt.Fprintf(&sb, "line_width = %d\n", c.Annotate.LineWidth)
	sb.WriteString("\n")

	sb.WriteString("[log]\n")
	fmt.Fprintf(&sb, "mode = %s\n", c.Log.Mode)
	fmt.Fprintf(&sb, "level = %s\n", c.Log.Level)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "submit = %v\n", c.Notify.Submit)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, f := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", f.Name, render.Hex(f.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
