package catalog

import (
	"errors"
	"strings"

	"github.com/vovakirdan/wee/internal/engine"
)

// LookAhead is how many upcoming minigames a Playlist keeps queued.
const LookAhead = 5

// ErrEmptyPlaylist is returned when a playlist has nothing to choose from.
var ErrEmptyPlaylist = errors.New("catalog: playlist is empty")

// Playlist chooses games for a session of back-to-back minigames.
// A game leaves the pool while it is queued so the same game does not come
// up twice within the look-ahead window.
type Playlist struct {
	pool   []Entry
	next   []Entry
	bosses []Entry
	rng    engine.Rand
}

// NewPlaylist builds a playlist from the published games of entries whose ID
// lies under prefix. An empty prefix selects every game.
func NewPlaylist(entries []Entry, prefix string, rng engine.Rand) *Playlist {
	p := &Playlist{rng: rng}
	for _, e := range entries {
		if !e.Published || !underPrefix(e.ID, prefix) {
			continue
		}
		switch e.Type {
		case engine.Minigame:
			p.pool = append(p.pool, e)
		case engine.BossGame:
			p.bosses = append(p.bosses, e)
		}
	}
	return p
}

// Len returns the number of minigames in rotation.
func (p *Playlist) Len() int {
	return len(p.pool) + len(p.next)
}

// Next returns the next minigame to play.
func (p *Playlist) Next() (Entry, error) {
	for len(p.pool) > 0 && len(p.next) < LookAhead {
		i := p.rng.Intn(len(p.pool))
		p.next = append(p.next, p.pool[i])
		p.pool = append(p.pool[:i], p.pool[i+1:]...)
	}
	if len(p.next) == 0 {
		return Entry{}, ErrEmptyPlaylist
	}

	e := p.next[0]
	p.next = p.next[1:]
	p.pool = append(p.pool, e)
	return e, nil
}

// Upcoming returns the queued minigames in play order.
func (p *Playlist) Upcoming() []Entry {
	return append([]Entry(nil), p.next...)
}

// Boss returns a random boss game.
func (p *Playlist) Boss() (Entry, error) {
	if len(p.bosses) == 0 {
		return Entry{}, ErrEmptyPlaylist
	}
	return p.bosses[p.rng.Intn(len(p.bosses))], nil
}

func underPrefix(id, prefix string) bool {
	if prefix == "" {
		return true
	}
	prefix = strings.TrimSuffix(prefix, "/")
	return id == prefix || strings.HasPrefix(id, prefix+"/")
}
