package client

import "sync"

// prober tracks whether the S20 status request (zones 17-32) is worth
// continuing to send. Some panels in this family never populate zones
// above 16 and so never reply to it at all; treating N consecutive
// silent cycles as "this panel doesn't have it" avoids probing forever,
// while never inferring anything about zone state from the silence
// itself — see DESIGN.md's resolution of the S20 open question.
type prober struct {
	mu             sync.Mutex
	silenceLimit   int
	sentSinceReply int
	suppressed     bool
}

func newProber(silenceLimit int) *prober {
	return &prober{silenceLimit: silenceLimit}
}

// shouldProbeS20 reports whether the next keep-alive cycle should still
// send an S20 request.
func (p *prober) shouldProbeS20() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.suppressed
}

// noteProbeSent records that an S20 request went out without a reply yet.
func (p *prober) noteProbeSent() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.suppressed {
		return
	}
	p.sentSinceReply++
	if p.sentSinceReply >= p.silenceLimit {
		p.suppressed = true
	}
}

// markReplied records that the panel answered S20, resetting the
// silence counter and re-enabling probes if they had been suppressed.
func (p *prober) markReplied() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sentSinceReply = 0
	p.suppressed = false
}
