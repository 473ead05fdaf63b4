package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	perrors "github.com/apillot/portfolio/internal/errors"
)

// Document keys.
const (
	KeyExperience = "experience.yaml"
	KeyProjects   = "projects.yaml"
	KeyContact    = "contact.yaml"
	KeyAbout      = "about.yaml"
)

// Experience lists professional positions, most recent first.
type Experience struct {
	Positions []Position `yaml:"positions"`
}

type Position struct {
	Company    string   `yaml:"company"`
	Role       string   `yaml:"role"`
	Location   string   `yaml:"location"`
	Start      string   `yaml:"start"`
	End        string   `yaml:"end"`
	Summary    string   `yaml:"summary"`
	Highlights []string `yaml:"highlights"`
}

func (e Experience) Validate() error {
	for i, p := range e.Positions {
		if p.Company == "" || p.Role == "" {
			return fmt.Errorf("position %d: company and role are required", i)
		}
	}
	return nil
}

// Projects lists portfolio projects.
type Projects struct {
	Projects []Project `yaml:"projects"`
}

// Project is one portfolio entry. A project with status "wip" links to the
// under-construction page instead of its URL.
type Project struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	URL         string   `yaml:"url"`
	Repository  string   `yaml:"repository"`
	Tags        []string `yaml:"tags"`
	Status      string   `yaml:"status"`
}

// WIP reports whether the project is still being built.
func (p Project) WIP() bool {
	return p.Status == "wip"
}

func (p Projects) Validate() error {
	for i, pr := range p.Projects {
		if pr.Name == "" {
			return fmt.Errorf("project %d: name is required", i)
		}
		switch pr.Status {
		case "", "live", "wip":
		default:
			return fmt.Errorf("project %q: unknown status %q", pr.Name, pr.Status)
		}
	}
	return nil
}

// Contact holds the contact page.
type Contact struct {
	Email   string `yaml:"email"`
	Message string `yaml:"message"`
	Links   []Link `yaml:"links"`
}

type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

func (c Contact) Validate() error {
	if c.Email == "" && len(c.Links) == 0 {
		return errors.New("contact needs an email or at least one link")
	}
	return nil
}

// About holds the about page.
type About struct {
	Headline   string   `yaml:"headline"`
	Paragraphs []string `yaml:"paragraphs"`
	Skills     []string `yaml:"skills"`
}

func (a About) Validate() error {
	if a.Headline == "" {
		return errors.New("headline is required")
	}
	return nil
}

// validator is implemented by documents with semantic checks.
type validator interface {
	Validate() error
}

// Decode fetches key from src and decodes it into T. Unknown fields are
// rejected. Failures are *errors.Error values: S001 when the document is
// missing, S002 when it is malformed, S003 when the source failed.
func Decode[T any](ctx context.Context, src Source, key string) (T, error) {
	var doc T

	data, err := src.Open(ctx, key)
	if err != nil {
		code := "S003"
		if errors.Is(err, ErrNotExist) {
			code = "S001"
		}
		return doc, perrors.New(code).WithDetail(key).Wrap(err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("document is empty")
		}
		return doc, perrors.New("S002").WithDetail(key).Wrap(err)
	}

	if v, ok := any(doc).(validator); ok {
		if err := v.Validate(); err != nil {
			return doc, perrors.New("S002").WithDetail(key).Wrap(err)
		}
	}
	return doc, nil
}
