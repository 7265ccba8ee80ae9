// Package userdir provides UserDirectory implementations backed by a YAML
// file or by a remote users service.
package userdir

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/taskdeck/internal/domain"
)

// Ensure the directories implement domain.UserDirectory.
var (
	_ domain.UserDirectory = (*FileDirectory)(nil)
	_ domain.UserDirectory = (*HTTPDirectory)(nil)
)

// fileData is the layout of the users file:
//
//	users:
//	  - id: admin-1
//	    name: Root
//	    email: root@example.com
//	    role: admin
type fileData struct {
	Users []domain.UserSummary `yaml:"users"`
}

// FileDirectory reads users from a YAML file.
// The file is re-read on every call, so edits apply without a restart.
type FileDirectory struct {
	path string
}

// NewFileDirectory creates a FileDirectory for the given path.
func NewFileDirectory(path string) *FileDirectory {
	return &FileDirectory{path: path}
}

// Resolve returns summaries for the given IDs in the same order.
func (d *FileDirectory) Resolve(_ context.Context, ids []string) ([]domain.UserSummary, error) {
	users, err := d.load()
	if err != nil {
		return nil, err
	}
	return pick(users, ids), nil
}

// List returns every user in the file.
func (d *FileDirectory) List(_ context.Context) ([]domain.UserSummary, error) {
	return d.load()
}

func (d *FileDirectory) load() ([]domain.UserSummary, error) {
	content, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}

	var data fileData
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}

	seen := make(map[string]bool, len(data.Users))
	for _, u := range data.Users {
		if u.ID == "" {
			return nil, fmt.Errorf("parse users file: user %q has no id", u.Name)
		}
		if seen[u.ID] {
			return nil, fmt.Errorf("parse users file: duplicate id %q", u.ID)
		}
		if !u.Role.IsValid() {
			return nil, fmt.Errorf("parse users file: user %q has invalid role %q", u.ID, u.Role)
		}
		seen[u.ID] = true
	}
	if data.Users == nil {
		data.Users = []domain.UserSummary{}
	}
	return data.Users, nil
}

// WriteFile writes users to path in the FileDirectory layout.
func WriteFile(path string, users []domain.UserSummary) error {
	content, err := yaml.Marshal(fileData{Users: users})
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("write users file: %w", err)
	}
	return nil
}

// pick returns the users with the given IDs, in ID order, skipping unknown IDs.
func pick(users []domain.UserSummary, ids []string) []domain.UserSummary {
	byID := make(map[string]domain.UserSummary, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]domain.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out
}
