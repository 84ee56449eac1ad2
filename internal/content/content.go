// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content loads the static copy of the public site: hero, about,
// services and the fallback projects shown while no projects are available.
package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/dreamcore/site/internal/model"
)

//go:embed site.yaml
var defaultSite []byte

// HTMLSanitizer cleans rendered markdown.
type HTMLSanitizer interface {
	SanitizeHTML(string) string
}

// Site is the public site copy. Fields named Body hold markdown; their
// rendered forms are the HTML fields.
type Site struct {
	Hero struct {
		Title    string `yaml:"title"`
		Subtitle string `yaml:"subtitle"`
	} `yaml:"hero"`

	About struct {
		Title       string        `yaml:"title"`
		Intro       string        `yaml:"intro"`
		Heading     string        `yaml:"heading"`
		Body        string        `yaml:"body"`
		HTML        template.HTML `yaml:"-"`
		Stats       []Stat        `yaml:"stats"`
		ValuesTitle string        `yaml:"values_title"`
		Values      []Value       `yaml:"values"`
	} `yaml:"about"`

	Services struct {
		Title string    `yaml:"title"`
		Intro string    `yaml:"intro"`
		Items []Service `yaml:"items"`
		CTA   struct {
			Title string        `yaml:"title"`
			Body  string        `yaml:"body"`
			HTML  template.HTML `yaml:"-"`
		} `yaml:"cta"`
	} `yaml:"services"`

	Projects []FallbackProject `yaml:"projects"`

	Banner struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	} `yaml:"banner"`
}

// Stat is one highlighted figure of the about section.
type Stat struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Value is one company value.
type Value struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Service is one service card.
type Service struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
}

// FallbackProject is a built-in project entry.
type FallbackProject struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Image       string   `yaml:"image"`
	Status      string   `yaml:"status"`
	Link        string   `yaml:"link"`
	Tags        []string `yaml:"tags"`
}

// Load parses the site copy from path, or the embedded default when path is
// empty, and renders its markdown through sanitizer.
func Load(path string, sanitizer HTMLSanitizer) (*Site, error) {
	data := defaultSite
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("reading site content: %w", err)
		}
	}
	return Parse(data, sanitizer)
}

// Parse decodes site copy from YAML.
func Parse(data []byte, sanitizer HTMLSanitizer) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing site content: %w", err)
	}

	for i, p := range s.Projects {
		if !model.ProjectStatus(p.Status).Valid() {
			return nil, fmt.Errorf("project %q: invalid status %q", p.Name, p.Status)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("project %d: missing name", i)
		}
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))
	var err error
	if s.About.HTML, err = render(md, s.About.Body, sanitizer); err != nil {
		return nil, err
	}
	if s.Services.CTA.HTML, err = render(md, s.Services.CTA.Body, sanitizer); err != nil {
		return nil, err
	}
	return &s, nil
}

func render(md goldmark.Markdown, source string, sanitizer HTMLSanitizer) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(sanitizer.SanitizeHTML(buf.String())), nil //nolint:gosec // sanitized above
}

// FallbackProjects returns the built-in projects as active carousel entries.
func (s *Site) FallbackProjects() []model.Project {
	out := make([]model.Project, len(s.Projects))
	for i, p := range s.Projects {
		out[i] = model.Project{
			ID:          fmt.Sprintf("fallback-%d", i+1),
			Name:        p.Name,
			Description: p.Description,
			Image:       p.Image,
			Status:      model.ProjectStatus(p.Status),
			Link:        p.Link,
			Tags:        p.Tags,
			Order:       i,
			Active:      true,
		}
	}
	return out
}

// DemoBanner returns the banner seeded into an empty database.
func (s *Site) DemoBanner() *model.Banner {
	if s.Banner.Title == "" {
		return nil
	}
	return &model.Banner{Title: s.Banner.Title, Description: s.Banner.Description, Active: true}
}
