// Package identity provides the user identity snapshot that seeds the locked
// editor layers.
package identity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Platforms lists the supported social platforms in display order; the
// rightmost icon on the canvas is the first platform present in the snapshot.
var Platforms = []string{"facebook", "instagram", "x", "youtube", "linkedin", "whatsapp"}

// Snapshot holds the identity fields fetched once per editing session.
// Absent fields simply omit the corresponding layer.
type Snapshot struct {
	PhoneNumber string            `json:"phoneNumber,omitempty"`
	MessageText string            `json:"messageText,omitempty"`
	SocialLinks map[string]string `json:"socialLinks,omitempty"`
}

// Link is one social platform the user filled in.
type Link struct {
	Platform string
	URL      string
}

// OrderedLinks returns the non-empty social links in stable platform order.
func (s Snapshot) OrderedLinks() []Link {
	var links []Link
	for _, p := range Platforms {
		if url := s.SocialLinks[p]; url != "" {
			links = append(links, Link{Platform: p, URL: url})
		}
	}
	return links
}

// Empty reports whether the snapshot would seed no layers at all.
func (s Snapshot) Empty() bool {
	return s.PhoneNumber == "" && s.MessageText == "" && len(s.OrderedLinks()) == 0
}

// Provider fetches the identity snapshot for a user. Called once at editor
// initialization; failures degrade to an editor without identity layers.
type Provider interface {
	IdentitySnapshot(userID string) (Snapshot, error)
}

// FileProvider reads profiles from <dir>/<userID>.json.
type FileProvider struct {
	dir string
}

// NewFileProvider creates a provider reading profile files from dir.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{dir: dir}
}

// IdentitySnapshot implements Provider.
func (p *FileProvider) IdentitySnapshot(userID string) (Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(p.dir, userID+".json"))
	if err != nil {
		return Snapshot{}, fmt.Errorf("read profile for %s: %w", userID, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parse profile for %s: %w", userID, err)
	}
	return snap, nil
}
