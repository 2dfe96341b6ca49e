package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// ProjectID is a value object for project identity.
type ProjectID struct{ uuid.UUID }

// NewProjectID creates a new ProjectID from uuid.
func NewProjectID(id uuid.UUID) ProjectID { return ProjectID{UUID: id} }

// String returns the canonical string form.
func (p ProjectID) String() string { return p.UUID.String() }

// Privacy controls whether the public query path is reachable for a project.
type Privacy string

const (
	PrivacyPrivate Privacy = "Private"
	PrivacyPublish Privacy = "Publish"
)

// Valid reports whether p is one of the known privacy values.
func (p Privacy) Valid() bool { return p == PrivacyPrivate || p == PrivacyPublish }

// Project is a single logical tenant owning exactly one backend database.
// Password and APIKey are stored and compared verbatim; see DESIGN.md.
type Project struct {
	ID           ProjectID
	Name         string
	Password     string
	Privacy      Privacy
	DatabaseName string
	APIKey       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Published reports whether the public query path is reachable.
func (p *Project) Published() bool { return p.Privacy == PrivacyPublish }

// DatabaseNamePrefix namespaces backend databases created by this service.
const DatabaseNamePrefix = "proj_"

var unsafeDatabaseChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// DeriveDatabaseName maps a project name to its backend database name:
// every character outside [A-Za-z0-9_] is replaced 1:1 with '_', then the
// namespace prefix is applied. Distinct names can collide after sanitizing;
// the metadata store rejects such collisions at creation.
func DeriveDatabaseName(name string) string {
	return DatabaseNamePrefix + unsafeDatabaseChars.ReplaceAllString(name, "_")
}
