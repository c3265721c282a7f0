// Package parser turns raw statement files from heterogeneous sources into
// model.Statement values. Each source has its own Parser; a Registry maps
// source ids to parsers and can sniff the source from file content.
package parser

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/centavo-dev/centavo/internal/common"
	"github.com/centavo-dev/centavo/internal/model"
)

// Parser reads one statement format.
type Parser interface {
	// Source returns the source id this parser handles (e.g. "nubank").
	Source() string
	// Detect reports whether data looks like this parser's format. It is
	// given the full file content.
	Detect(data []byte) bool
	// Parse reads a statement. Structural problems return a
	// *common.MalformedStatementError.
	Parse(ctx context.Context, r io.Reader) (*model.Statement, error)
	// Profile describes the conventions the normalizer needs for this
	// source.
	Profile() model.SourceProfile
}

// Registry holds the known parsers.
type Registry struct {
	parsers map[string]Parser
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// DefaultRegistry creates a registry with all built-in sources registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewNubankParser())
	r.Register(NewChaseParser())
	r.Register(NewGenericCSVParser())
	r.Register(NewItauParser())
	r.Register(NewBBCardParser())
	r.Register(NewFaturaParser())
	r.Register(NewOFXParser())
	return r
}

// Register adds a parser, replacing any previous parser for the same source.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[p.Source()] = p
}

// Get returns the parser for a source id.
func (r *Registry) Get(sourceID string) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[sourceID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedSource, sourceID)
	}
	return p, nil
}

// Detect finds the parser whose format matches data. Parsers are tried in
// source id order so detection is deterministic.
func (r *Registry) Detect(data []byte) (Parser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.sourcesLocked() {
		if r.parsers[id].Detect(data) {
			return r.parsers[id], nil
		}
	}
	return nil, fmt.Errorf("%w: no parser recognizes this file", common.ErrUnsupportedSource)
}

// Sources returns the registered source ids, sorted.
func (r *Registry) Sources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sourcesLocked()
}

func (r *Registry) sourcesLocked() []string {
	ids := make([]string, 0, len(r.parsers))
	for id := range r.parsers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ParseFile parses one statement file. When sourceID is empty the source is
// detected from the file content. The returned statement carries the file's
// content hash for the import ledger.
func (r *Registry) ParseFile(ctx context.Context, path, sourceID string) (*model.Statement, Parser, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the user's command line
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read statement file: %w", err)
	}

	var p Parser
	if sourceID != "" {
		p, err = r.Get(sourceID)
	} else {
		p, err = r.Detect(data)
	}
	if err != nil {
		return nil, nil, err
	}

	stmt, err := p.Parse(ctx, bytes.NewReader(data))
	if err != nil {
		var malformed *common.MalformedStatementError
		if errors.As(err, &malformed) && malformed.Path == "" {
			malformed.Path = path
		}
		return nil, p, err
	}

	stmt.FileHash = fmt.Sprintf("%x", sha256.Sum256(data))
	return stmt, p, nil
}
