package player

import (
	"math"
	"sync"
	"time"
)

// Transport states.
const (
	StateIdle    = "IDLE"
	StatePlaying = "PLAYING"
	StatePaused  = "PAUSED"
	StateEnded   = "ENDED"
	StateError   = "ERROR"
)

// DefaultHideDelay is how long the controls stay up after the last
// pointer movement while playing.
const DefaultHideDelay = 3 * time.Second

// Transport owns playback state for exactly one media source and
// translates discrete gestures into state changes. Once in StateError it
// absorbs everything; recovery is a new Transport.
type Transport struct {
	mu    sync.Mutex
	media Media
	host  FullscreenHost

	state        string
	volume       float64
	lastVolume   float64
	muted        bool
	fullscreen   bool
	hideDelay    time.Duration
	controlsUp   bool
	overControls bool
	hideTimer    *time.Timer
}

func NewTransport(media Media, host FullscreenHost) *Transport {
	if host == nil {
		host = noopHost{}
	}
	return &Transport{
		media:      media,
		host:       host,
		state:      StateIdle,
		volume:     1,
		lastVolume: 1,
		hideDelay:  DefaultHideDelay,
		controlsUp: true,
	}
}

// SetHideDelay adjusts the controls auto-hide delay.
func (t *Transport) SetHideDelay(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hideDelay = d
}

// Load attempts autoplay. A rejected play is not an error; the transport
// just stays paused, matching how browsers block unmuted autoplay.
func (t *Transport) Load() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateError {
		return
	}
	if err := t.media.Play(); err != nil {
		t.state = StatePaused
		return
	}
	t.state = StatePlaying
	t.armHideLocked()
}

// TogglePlay issues the opposite of what the media element reports. Its
// paused state, not ours, decides the direction, so a blocked autoplay
// cannot leave the two out of step.
func (t *Transport) TogglePlay() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateError {
		return
	}
	if t.media.Paused() {
		if err := t.media.Play(); err != nil {
			t.state = StatePaused
			t.showControlsLocked()
			return
		}
		t.state = StatePlaying
		t.armHideLocked()
		return
	}
	t.media.Pause()
	t.state = StatePaused
	t.showControlsLocked()
}

// Seek maps a 0-100 percent to an absolute time. No-op while the
// duration is unknown.
func (t *Transport) Seek(percent float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateError {
		return
	}
	d := t.media.Duration()
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return
	}
	t.media.SetCurrentTime(percent / 100 * d)
	if t.state == StateEnded {
		t.state = StatePaused
	}
}

// Skip nudges the position by delta seconds without clamping; the media
// element clamps on its own.
func (t *Transport) Skip(delta float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateError {
		return
	}
	t.media.SetCurrentTime(t.media.CurrentTime() + delta)
}

// SetVolume sets volume in [0,1]. Exactly zero also mutes; any non-zero
// value is remembered so an unmute comes back at that level.
func (t *Transport) SetVolume(v float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateError {
		return
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	t.volume = v
	if v == 0 {
		t.muted = true
	} else {
		t.lastVolume = v
		t.muted = false
	}
	t.media.SetVolume(v)
	t.media.SetMuted(t.muted)
}

// ToggleMute flips mute. Unmuting restores the volume held immediately
// before muting, not a default.
func (t *Transport) ToggleMute() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateError {
		return
	}
	if t.muted {
		t.muted = false
		t.volume = t.lastVolume
	} else {
		t.muted = true
	}
	t.media.SetVolume(t.volume)
	t.media.SetMuted(t.muted)
}

// ToggleFullscreen asks the host to enter or leave fullscreen. The local
// flag does not move here; HandleFullscreenChange is the only writer, so
// an Esc press in the browser cannot desynchronize us.
func (t *Transport) ToggleFullscreen() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateError {
		return
	}
	if t.fullscreen {
		_ = t.host.ExitFullscreen()
		return
	}
	_ = t.host.RequestFullscreen()
}

// HandleFullscreenChange records the platform's fullscreen state. This
// event is authoritative however fullscreen was entered or left.
func (t *Transport) HandleFullscreenChange(active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fullscreen = active
}

// HandlePointerMove shows the controls and re-arms the auto-hide timer.
// The timer only runs while playing; a paused player keeps them pinned.
func (t *Transport) HandlePointerMove() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateError {
		return
	}
	t.showControlsLocked()
	if t.state == StatePlaying {
		t.armHideLocked()
	}
}

// HandlePointerLeave hides the controls immediately, but only while
// playing.
func (t *Transport) HandlePointerLeave() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StatePlaying {
		return
	}
	t.cancelHideLocked()
	t.controlsUp = false
}

// HandleControlsEnter suspends auto-hide while the pointer is over the
// controls overlay.
func (t *Transport) HandleControlsEnter() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.overControls = true
	t.cancelHideLocked()
	t.controlsUp = true
}

func (t *Transport) HandleControlsLeave() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.overControls = false
	if t.state == StatePlaying {
		t.armHideLocked()
	}
}

// HandleEnded moves to Ended when playback runs out.
func (t *Transport) HandleEnded() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateError {
		return
	}
	t.state = StateEnded
	t.showControlsLocked()
}

// HandleError is terminal. The only way out is reloading the player.
func (t *Transport) HandleError() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateError
	t.cancelHideLocked()
	t.controlsUp = true
}

func (t *Transport) showControlsLocked() {
	t.cancelHideLocked()
	t.controlsUp = true
}

func (t *Transport) armHideLocked() {
	if t.overControls {
		return
	}
	t.cancelHideLocked()
	t.hideTimer = time.AfterFunc(t.hideDelay, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.state == StatePlaying && !t.overControls {
			t.controlsUp = false
		}
	})
}

func (t *Transport) cancelHideLocked() {
	if t.hideTimer != nil {
		t.hideTimer.Stop()
		t.hideTimer = nil
	}
}

// Snapshot is what the transport endpoint returns after every action.
type Snapshot struct {
	State           string  `json:"state"`
	CurrentTime     float64 `json:"currentTime"`
	Duration        float64 `json:"duration,omitempty"`
	ProgressPercent float64 `json:"progressPercent"`
	Volume          float64 `json:"volume"`
	Muted           bool    `json:"muted"`
	Fullscreen      bool    `json:"fullscreen"`
	ControlsVisible bool    `json:"controlsVisible"`
}

func (t *Transport) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	d := t.media.Duration()
	current := t.media.CurrentTime()

	progress := 0.0
	if !math.IsNaN(d) && !math.IsInf(d, 0) && d > 0 {
		progress = current / d * 100
	}
	if math.IsNaN(d) || math.IsInf(d, 0) {
		d = 0
	}

	return Snapshot{
		State:           t.state,
		CurrentTime:     current,
		Duration:        d,
		ProgressPercent: progress,
		Volume:          t.volume,
		Muted:           t.muted,
		Fullscreen:      t.fullscreen,
		ControlsVisible: t.controlsUp,
	}
}
