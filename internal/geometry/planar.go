package geometry

import (
	"regexp"
	"sync"
)

// Activation error codes reported by Planar.
const (
	CodeOK         = 0
	CodeEmptyKey   = 1
	CodeInvalidKey = 2
)

var licenseKeyPattern = regexp.MustCompile(`^[A-Z0-9]{4}(-[A-Z0-9]{4}){3}$`)

// Planar is the in-process reference engine. It accepts license keys made
// of four dash-separated groups of four upper-case alphanumerics.
type Planar struct {
	mu      sync.Mutex
	active  bool
	lastErr int
}

func NewPlanar() *Planar {
	return &Planar{}
}

func (p *Planar) Activate(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case key == "":
		p.lastErr = CodeEmptyKey
	case !licenseKeyPattern.MatchString(key):
		p.lastErr = CodeInvalidKey
	default:
		p.active = true
		p.lastErr = CodeOK
	}
}

func (p *Planar) ActivationState() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

func (p *Planar) LastErrorCode() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}
