package player

import (
	"math"
	"sync"
	"time"
)

// Media is the playback surface the transport drives. The transport never
// trusts its own playing flag; Paused on the media is the source of truth.
type Media interface {
	Play() error
	Pause()
	Paused() bool
	Duration() float64
	CurrentTime() float64
	SetCurrentTime(seconds float64)
	SetVolume(volume float64)
	SetMuted(muted bool)
}

// FullscreenHost is the container the transport asks for fullscreen. The
// transport's fullscreen flag is only ever set from HandleFullscreenChange,
// never from these calls succeeding.
type FullscreenHost interface {
	RequestFullscreen() error
	ExitFullscreen() error
}

// VirtualMedia is a clock-backed Media for watch sessions: playback
// position advances in real time while playing, so a member who comes
// back resumes where the session left off. A NaN duration models media
// whose length is not yet known.
type VirtualMedia struct {
	mu       sync.Mutex
	now      func() time.Time
	duration float64
	position float64
	playing  bool
	since    time.Time
	volume   float64
	muted    bool
}

func NewVirtualMedia(duration float64) *VirtualMedia {
	return &VirtualMedia{
		now:      time.Now,
		duration: duration,
		volume:   1,
	}
}

// SetClock replaces the wall clock. Tests drive position with this.
func (m *VirtualMedia) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

func (m *VirtualMedia) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.playing {
		m.playing = true
		m.since = m.now()
	}
	return nil
}

func (m *VirtualMedia) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = m.currentLocked()
	m.playing = false
}

func (m *VirtualMedia) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.playing
}

func (m *VirtualMedia) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *VirtualMedia) SetDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = duration
}

func (m *VirtualMedia) CurrentTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentLocked()
}

func (m *VirtualMedia) currentLocked() float64 {
	pos := m.position
	if m.playing {
		pos += m.now().Sub(m.since).Seconds()
	}
	return m.clampLocked(pos)
}

// SetCurrentTime accepts any value; like a media element it clamps into
// the playable range when the duration is known.
func (m *VirtualMedia) SetCurrentTime(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = m.clampLocked(seconds)
	if m.playing {
		m.since = m.now()
	}
}

func (m *VirtualMedia) clampLocked(pos float64) float64 {
	if pos < 0 {
		return 0
	}
	if !math.IsNaN(m.duration) && !math.IsInf(m.duration, 0) && m.duration > 0 && pos > m.duration {
		return m.duration
	}
	return pos
}

func (m *VirtualMedia) SetVolume(volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = volume
}

func (m *VirtualMedia) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

// noopHost serves watch sessions, where the real fullscreen element lives
// in the member's browser and only reports changes back.
type noopHost struct{}

func (noopHost) RequestFullscreen() error { return nil }
func (noopHost) ExitFullscreen() error    { return nil }
