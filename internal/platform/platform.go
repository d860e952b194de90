// Package platform holds one publish adapter per social network. Each
// adapter speaks the network's own wire protocol and reports failures
// through the shared RejectedError/UnavailableError types so the
// dispatcher can record a diagnostic without knowing the platform.
package platform

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Credentials is the resolved, decrypted credential handed to an
// adapter. PlatformUserID is the network-side account identity (IG
// business id, LinkedIn member id, FB page id, ...).
type Credentials struct {
	AccessToken    string
	PlatformUserID string
}

// Content is the material to publish. MediaURL, when set, must be
// fetchable by the platform's servers.
type Content struct {
	Text     string
	MediaURL string
}

// Publisher publishes one post and returns the platform-assigned post
// id. Implementations never mutate stored state; the caller owns the
// terminal status write.
type Publisher interface {
	Platform() string
	Publish(ctx context.Context, creds *Credentials, content *Content) (string, error)
}

// Registry maps a platform name to its adapter.
type Registry map[string]Publisher

func NewRegistry(publishers ...Publisher) Registry {
	reg := make(Registry, len(publishers))
	for _, p := range publishers {
		reg[p.Platform()] = p
	}
	return reg
}

func (r Registry) Lookup(platform string) (Publisher, error) {
	p, ok := r[platform]
	if !ok {
		return nil, fmt.Errorf("no publisher registered for platform %q", platform)
	}
	return p, nil
}

const defaultTimeout = 30 * time.Second

func defaultClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}
