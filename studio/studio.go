// Package studio holds the preview state of a listing: the active format, the
// slide sequence built for it and the slide being looked at
package studio

import (
	"sync"
	"sync/atomic"

	"github.com/aouyang1/vitrine/photo"
	"github.com/aouyang1/vitrine/slides"
)

// Subject is what the creatives advertise. Exactly one field is set.
type Subject struct {
	Property   *slides.PropertyData
	Management *slides.ManagementData
}

func (s Subject) Build(catalog *photo.Catalog, format slides.Format) slides.Sequence {
	if s.Management != nil && s.Property == nil {
		return slides.BuildManagement(*s.Management, catalog, format)
	}
	var data slides.PropertyData
	if s.Property != nil {
		data = *s.Property
	}
	return slides.Build(data, catalog, format)
}

// View is an immutable snapshot of a studio.
type View struct {
	Sequence slides.Sequence
	Index    int
}

func (v View) Active() (slides.Definition, bool) {
	if v.Index < 0 || v.Index >= v.Sequence.Len() {
		return slides.Definition{}, false
	}
	return v.Sequence.Slides[v.Index], true
}

// Studio is safe for concurrent use. Readers always get a fully built view,
// writers replace it whole.
type Studio struct {
	subject Subject
	catalog *photo.Catalog

	mu   sync.Mutex
	view atomic.Pointer[View]
}

func New(subject Subject, catalog *photo.Catalog, format slides.Format) *Studio {
	s := &Studio{subject: subject, catalog: catalog}
	s.view.Store(&View{Sequence: subject.Build(catalog, format)})
	return s
}

// Subject and Catalog are the inputs every sequence of the studio is built
// from.
func (s *Studio) Subject() Subject {
	return s.subject
}

func (s *Studio) Catalog() *photo.Catalog {
	return s.catalog
}

func (s *Studio) Snapshot() View {
	return *s.view.Load()
}

func (s *Studio) Format() slides.Format {
	return s.view.Load().Sequence.Format
}

// SetFormat rebuilds the sequence for format and moves back to the first
// slide, positions are not comparable across formats.
func (s *Studio) SetFormat(format slides.Format) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := &View{Sequence: s.subject.Build(s.catalog, format)}
	s.view.Store(v)
	return *v
}

// Select makes slide i active, clamped to the sequence.
func (s *Studio) Select(i int) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(i)
}

func (s *Studio) Next() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(s.view.Load().Index + 1)
}

func (s *Studio) Prev() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(s.view.Load().Index - 1)
}

func (s *Studio) selectLocked(i int) View {
	cur := s.view.Load()
	n := cur.Sequence.Len()
	switch {
	case n == 0:
		i = 0
	case i < 0:
		i = 0
	case i >= n:
		i = n - 1
	}
	v := &View{Sequence: cur.Sequence, Index: i}
	s.view.Store(v)
	return *v
}

// Sessions keeps one studio per listing.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Studio
}

func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*Studio)}
}

// Get returns the listing's studio, creating it with create when missing.
// create runs under the registry lock, so it must load the listing data
// itself: an Invalidate issued after a data change then either waits for it
// or drops what it built.
func (s *Sessions) Get(key string, create func() (*Studio, error)) (*Studio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.sessions[key]; ok {
		return st, nil
	}
	st, err := create()
	if err != nil {
		return nil, err
	}
	s.sessions[key] = st
	return st, nil
}

// Invalidate drops the listing's studio, the next Get rebuilds it from the
// current data and photos.
func (s *Sessions) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}
